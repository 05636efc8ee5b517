package form

import (
	"context"
	"sync"

	"github.com/desertthunder/lagu/internal/models"
)

// Status tags the display state.
type Status int

const (
	Idle Status = iota
	Submitting
	ShowingResults
	ShowingError
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case ShowingResults:
		return "showing-results"
	case ShowingError:
		return "showing-error"
	default:
		return "unknown"
	}
}

// State is what the form displays below its controls.
//
// Results is set only when Status is [ShowingResults] and Message only when it is [ShowingError].
type State struct {
	Status  Status
	Results []models.Recommendation
	Message string
}

// Busy reports whether the submit control shows its busy indicator.
func (s State) Busy() bool { return s.Status == Submitting }

// Submission identifies one outbound request.
type Submission struct {
	Generation uint64
	Request    models.RecommendRequest
}

// Client sends a recommendation request. [services.Recommender] satisfies it.
type Client interface {
	Recommend(ctx context.Context, req models.RecommendRequest) ([]models.Recommendation, error)
}

// Machine tracks submissions and the display state. It is safe for concurrent use.
type Machine struct {
	mu     sync.Mutex
	policy RacePolicy
	gen    uint64
	state  State
}

// NewMachine creates an idle machine.
func NewMachine(policy RacePolicy) *Machine {
	return &Machine{policy: policy}
}

// State returns the current display state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Policy returns the race policy.
func (m *Machine) Policy() RacePolicy { return m.policy }

// Submit validates the form values and starts a submission, clearing any
// displayed results or error.
func (m *Machine) Submit(fs models.FormState) (Submission, error) {
	if err := Validate(fs); err != nil {
		return Submission{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.gen++
	m.state = State{Status: Submitting}
	return Submission{Generation: m.gen, Request: BuildRequest(fs)}, nil
}

// Resolve applies the outcome of sub and returns the resulting state.
//
// Under [LatestSubmission] an outcome for an older submission is dropped and
// applied is false. An empty result list returns the form to [Idle].
func (m *Machine) Resolve(sub Submission, recs []models.Recommendation, err error) (state State, applied bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.policy == LatestSubmission && sub.Generation != m.gen {
		return m.state, false
	}

	switch {
	case err != nil:
		m.state = State{Status: ShowingError, Message: err.Error()}
	case len(recs) == 0:
		m.state = State{Status: Idle}
	default:
		m.state = State{Status: ShowingResults, Results: append([]models.Recommendation{}, recs...)}
	}
	return m.state, true
}

// Execute sends sub through client and resolves the outcome. No timeout is
// applied beyond what ctx carries.
func (m *Machine) Execute(ctx context.Context, client Client, sub Submission) (State, bool) {
	recs, err := client.Recommend(ctx, sub.Request)
	return m.Resolve(sub, recs, err)
}
