package services

import (
	"net/http"
)

// HealthService implements the health check endpoint
type HealthService struct {
	serviceName string
}

// NewHealthService creates a new health service
func NewHealthService(serviceName string) *HealthService {
	return &HealthService{serviceName: serviceName}
}

// Check handles GET /health
func (s *HealthService) Check(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": s.serviceName,
	})
}
