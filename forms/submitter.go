package forms

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// State is where a form is in its submission lifecycle.
type State int

const (
	Idle State = iota
	Sending
	Success
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Sending:
		return "sending"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// ErrInFlight is returned when Submit is called while a previous
// submission is still sending.
var ErrInFlight = errors.New("submission already in flight")

// Submitter posts URL-encoded form values to a form endpoint and tracks the
// idle -> sending -> success/error lifecycle. One submission may be in
// flight at a time; there are no retries.
type Submitter struct {
	endpoint string
	client   *http.Client

	mu        sync.Mutex
	state     State
	observers []func(from, to State)
}

func NewSubmitter(endpoint string, client *http.Client) *Submitter {
	if client == nil {
		client = http.DefaultClient
	}
	return &Submitter{endpoint: endpoint, client: client}
}

func (s *Submitter) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// OnTransition registers fn to be called after every state change.
func (s *Submitter) OnTransition(fn func(from, to State)) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

func (s *Submitter) transition(to State) {
	s.mu.Lock()
	from := s.state
	s.state = to
	observers := s.observersLocked()
	s.mu.Unlock()

	notify(observers, from, to)
}

func (s *Submitter) observersLocked() []func(from, to State) {
	return append([]func(from, to State){}, s.observers...)
}

func notify(observers []func(from, to State), from, to State) {
	for _, fn := range observers {
		fn(from, to)
	}
}

// Submit sends values and returns the final state. The error explains an
// Error outcome; the caller shows a generic message either way.
func (s *Submitter) Submit(ctx context.Context, values url.Values) (State, error) {
	s.mu.Lock()
	if s.state == Sending {
		s.mu.Unlock()
		return Sending, ErrInFlight
	}
	from := s.state
	s.state = Sending
	observers := s.observersLocked()
	s.mu.Unlock()
	notify(observers, from, Sending)

	if err := s.post(ctx, values); err != nil {
		s.transition(Error)
		return Error, err
	}
	s.transition(Success)
	return Success, nil
}

func (s *Submitter) post(ctx context.Context, values url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "submit failed")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Errorf("submit failed: %s", resp.Status)
	}
	return nil
}

// ContactValues builds the body the contact form posts.
func ContactValues(name, email, message string) url.Values {
	return url.Values{
		FormNameField: {ContactForm},
		HoneypotField: {""},
		"name":        {name},
		"email":       {email},
		"message":     {message},
	}
}
