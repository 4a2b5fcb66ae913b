package domain

import (
	"errors"
	"fmt"
)

// ErrEmptyStack is returned when an operation needs at least one entry.
var ErrEmptyStack = errors.New("back stack is empty")

// ErrNoTargetStack is returned when no stack in a tree can accept a push.
var ErrNoTargetStack = errors.New("no stack can accept the destination")

// ErrNodeNotFound is returned when a node key is not present in a tree.
var ErrNodeNotFound = errors.New("node not found")

// ErrInvalidNode is wrapped by InvalidNodeError.
var ErrInvalidNode = errors.New("invalid navigation node")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// InvalidNodeError reports a construction invariant violation.
type InvalidNodeError struct {
	Key    string
	Reason string
}

func (e *InvalidNodeError) Error() string {
	return fmt.Sprintf("invalid node %q: %s", e.Key, e.Reason)
}

func (e *InvalidNodeError) Unwrap() error {
	return ErrInvalidNode
}

// RouteNotFoundError is returned when a destination kind was never registered.
type RouteNotFoundError struct {
	Kind string
}

func (e *RouteNotFoundError) Error() string {
	return fmt.Sprintf("no route registered for destination kind %q", e.Kind)
}

// PayloadTypeError is returned when a payload cannot be read as the expected type.
type PayloadTypeError struct {
	Expected string
	Actual   string
	Format   string // empty for in-memory payloads
	Err      error
}

func (e *PayloadTypeError) Error() string {
	src := "in-memory"
	if e.Format != "" {
		src = e.Format
	}
	msg := fmt.Sprintf("payload type mismatch: expected %s, got %s (%s)", e.Expected, e.Actual, src)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PayloadTypeError) Unwrap() error {
	return e.Err
}
