package app

import "clamir/models"

// DefaultMaxRetries is the number of retries after the initial connect
// attempt, for three attempts in total. It is also the upper bound for
// WithMaxRetries.
const DefaultMaxRetries = 2

type Step int

const (
	StepConnected Step = iota
	StepRetry
	StepGiveUp
)

func (s Step) String() string {
	switch s {
	case StepConnected:
		return "connected"
	case StepRetry:
		return "retry"
	case StepGiveUp:
		return "give-up"
	default:
		return "unknown"
	}
}

// AttemptState tracks one connect sequence. AttemptsMade counts retries
// already taken, so it never exceeds the retry cap.
type AttemptState struct {
	AttemptsMade   int
	ShouldContinue bool
}

func NewAttemptState() AttemptState {
	return AttemptState{ShouldContinue: true}
}

// NextStep decides what follows a connect result. Every non-zero code is
// treated the same way.
func NextStep(state AttemptState, result models.ConnectionResult, maxRetries int) (Step, AttemptState) {
	if result.Success() {
		state.ShouldContinue = false
		return StepConnected, state
	}
	if state.AttemptsMade < maxRetries {
		state.AttemptsMade++
		return StepRetry, state
	}
	state.ShouldContinue = false
	return StepGiveUp, state
}
