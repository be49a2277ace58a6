// Package dispatch turns a validated inquiry into exactly one outbound POST
// to the appropriate backend route and translates the HTTP outcome into the
// idle -> submitting -> {success | error} lifecycle the forms render.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
)

// Route selects the backend endpoint for a submission
type Route string

const (
	RouteContact      Route = "/api/contact"
	RouteConsultation Route = "/api/consultation"
	RouteSubscribe    Route = "/api/subscribe"
)

// State is the submission lifecycle state
type State int32

const (
	StateIdle State = iota
	StateSubmitting
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// ErrSubmissionInFlight is returned when Submit is invoked while an earlier
// submission has not resolved yet. The caller keeps the form disabled until
// the first call returns; this guard is the only concurrency control in the
// pipeline.
var ErrSubmissionInFlight = errors.New("a submission is already in flight")

// Result is the client-facing outcome of a submission
type Result struct {
	// Success covers both a 2xx response and the already-subscribed case,
	// which the backend reports as an error but users should read as one.
	Success bool
	Message string
}

// Dispatcher submits inquiries to the backend. No retry, no offline queueing,
// no client-side timeout beyond the transport's own.
type Dispatcher struct {
	baseURL    string
	httpClient *http.Client
	inFlight   atomic.Bool
	state      atomic.Int32
}

// New creates a dispatcher for the given backend base URL
func New(baseURL string) *Dispatcher {
	return &Dispatcher{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
}

// State returns the current lifecycle state
func (d *Dispatcher) State() State {
	return State(d.state.Load())
}

// backendResponse is the uniform body shape of all three routes
type backendResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Submit issues a single POST with a JSON body and waits for the response.
// On transport or backend failure the caller's entered data is untouched, so
// the user can correct and retry manually.
func (d *Dispatcher) Submit(ctx context.Context, route Route, payload interface{}) (*Result, error) {
	if !d.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInFlight
	}
	defer d.inFlight.Store(false)

	d.state.Store(int32(StateSubmitting))

	result, err := d.post(ctx, route, payload)
	if err != nil {
		d.state.Store(int32(StateError))
		return nil, err
	}

	if result.Success {
		d.state.Store(int32(StateSuccess))
	} else {
		d.state.Store(int32(StateError))
	}
	return result, nil
}

func (d *Dispatcher) post(ctx context.Context, route Route, payload interface{}) (*Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+string(route), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create submission request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submission request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded backendResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode submission response: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return &Result{Success: true, Message: successMessage(route)}, nil
	}

	// The backend reports an existing subscriber as an error, but the user
	// outcome is positive: they are on the list.
	if route == RouteSubscribe && strings.Contains(decoded.Error, "already subscribed") {
		return &Result{Success: true, Message: "You're already subscribed to our newsletter!"}, nil
	}

	message := decoded.Error
	if message == "" {
		message = "Something went wrong. Please try again later."
	}
	return &Result{Success: false, Message: message}, nil
}

func successMessage(route Route) string {
	switch route {
	case RouteSubscribe:
		return "Thank you for subscribing!"
	case RouteConsultation:
		return "Your request has been received. We will get back to you shortly."
	default:
		return "Your message has been received. We will get back to you shortly."
	}
}
