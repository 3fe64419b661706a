package agent

import (
	"errors"
	"fmt"
)

// ErrorKind classifies agent failures for the handler boundary.
type ErrorKind string

const (
	// KindSchemaViolation means the model returned a payload that does not
	// match the agent's output schema. The payload is discarded; callers
	// never see a partially-populated result.
	KindSchemaViolation ErrorKind = "schema_violation"
	// KindPreconditionFailed means the agent's input requirements are not
	// met (e.g. evolution tracking without a prior skill baseline).
	KindPreconditionFailed ErrorKind = "precondition_failed"
	// KindUnavailable covers transport and model failures.
	KindUnavailable ErrorKind = "unavailable"
	// KindBadInput means the caller-supplied input is unusable.
	KindBadInput ErrorKind = "bad_input"
)

// Error is the single failure type surfaced by the gateway.
type Error struct {
	Kind  ErrorKind
	Agent string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("agent %s: %s: %v", e.Agent, e.Kind, e.Cause)
	}
	return fmt.Sprintf("agent %s: %s", e.Agent, e.Kind)
}

func (e *Error) Unwrap() error { return e.Cause }

func newError(kind ErrorKind, agent string, cause error) *Error {
	return &Error{Kind: kind, Agent: agent, Cause: cause}
}

// KindOf returns the kind of err when it is an agent error, or "" otherwise.
func KindOf(err error) ErrorKind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}
