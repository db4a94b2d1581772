package remote

import "fmt"

// ConnectivityError reports that the catalog could not be reached at all.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("catalog unreachable: %v", e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// StatusError reports a non-2xx answer from the catalog.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog returned %d %s", e.Code, e.Status)
}
