package domain

import "fmt"

// LoadError reports a missing or malformed source table. It is fatal at
// startup: the process must not serve any recommendation endpoint.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// NotFoundError reports a lookup key with no match, carrying the key that
// triggered it so callers can surface it.
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

// DegenerateInputError reports an input universe too empty to answer from:
// an empty catalog, zero qualified books, or an empty filtered rating set.
type DegenerateInputError struct {
	Reason string
}

func (e *DegenerateInputError) Error() string {
	return "degenerate input: " + e.Reason
}
