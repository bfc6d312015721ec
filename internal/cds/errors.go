package cds

import "fmt"

// APIError represents an error reported by the Climate Data Store.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("CDS API error: HTTP %d: %s: %v", e.Status, e.Message, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("CDS API error: HTTP %d: %s", e.Status, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("CDS API error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("CDS API error: %s", e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// transientError marks a failure worth retrying.
type transientError struct {
	err error
}

func (e *transientError) Error() string {
	return e.err.Error()
}

func (e *transientError) Unwrap() error {
	return e.err
}
