package sources

import "time"

// RetryState is a state of the bounded retry machine used by the search fetcher
type RetryState int

const (
	StateAttempting RetryState = iota
	StateBackoff
	StateSucceeded
	StateExhausted
	StateAborted // non-retryable response, no further attempts
)

func (s RetryState) String() string {
	switch s {
	case StateAttempting:
		return "attempting"
	case StateBackoff:
		return "backoff"
	case StateSucceeded:
		return "succeeded"
	case StateExhausted:
		return "exhausted"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Outcome classifies the result of one request attempt
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeRateLimited
	OutcomeTransportError
	OutcomeFatal
)

// RetryMachine tracks attempts and the pending backoff delay.
// Every attempt consumes one unit of the budget; a retryable outcome always
// passes through Backoff, even when it was the last attempt.
type RetryMachine struct {
	maxAttempts int
	attempts    int
	state       RetryState
	delay       time.Duration
}

// NewRetryMachine creates a machine allowing at most maxAttempts requests
func NewRetryMachine(maxAttempts int) *RetryMachine {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxRetries
	}
	return &RetryMachine{maxAttempts: maxAttempts, state: StateAttempting}
}

func (m *RetryMachine) State() RetryState    { return m.state }
func (m *RetryMachine) Attempts() int        { return m.attempts }
func (m *RetryMachine) MaxAttempts() int     { return m.maxAttempts }
func (m *RetryMachine) Delay() time.Duration { return m.delay }

// Record registers the outcome of the current attempt. delay is only used for
// retryable outcomes. Calls outside the Attempting state are ignored.
func (m *RetryMachine) Record(outcome Outcome, delay time.Duration) RetryState {
	if m.state != StateAttempting {
		return m.state
	}

	m.attempts++
	m.delay = 0

	switch outcome {
	case OutcomeSuccess:
		m.state = StateSucceeded
	case OutcomeRateLimited, OutcomeTransportError:
		m.state = StateBackoff
		m.delay = delay
	default:
		m.state = StateAborted
	}

	return m.state
}

// Resume leaves Backoff once the delay has been waited out
func (m *RetryMachine) Resume() RetryState {
	if m.state != StateBackoff {
		return m.state
	}

	m.delay = 0
	if m.attempts >= m.maxAttempts {
		m.state = StateExhausted
	} else {
		m.state = StateAttempting
	}

	return m.state
}
