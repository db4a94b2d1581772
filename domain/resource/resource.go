// Package resource provides the loading/success/error envelope emitted by the
// product and cart flows.
package resource

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Status tags which variant a Resource holds.
type Status int

const (
	StatusLoading Status = iota
	StatusSuccess
	StatusError
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status as its name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name.
func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "loading":
		*s = StatusLoading
	case "success":
		*s = StatusSuccess
	case "error":
		*s = StatusError
	default:
		return fmt.Errorf("unknown resource status %q", text)
	}
	return nil
}

// Resource is the state of an asynchronous read. Loading and Error carry the
// best fallback data available so consumers never have to render a blank state
// when cached data exists.
type Resource[T any] struct {
	Status  Status
	Data    T
	Message string
	Err     error
}

// Loading returns a loading envelope with optional prior data.
func Loading[T any](data T) Resource[T] {
	return Resource[T]{Status: StatusLoading, Data: data}
}

// Success returns a success envelope.
func Success[T any](data T) Resource[T] {
	return Resource[T]{Status: StatusSuccess, Data: data}
}

// Error returns an error envelope. Data is the fallback and err the underlying
// cause; both may be zero.
func Error[T any](message string, data T, err error) Resource[T] {
	return Resource[T]{Status: StatusError, Data: data, Message: message, Err: err}
}

// IsLoading reports whether r is a loading envelope.
func (r Resource[T]) IsLoading() bool { return r.Status == StatusLoading }

// IsSuccess reports whether r is a success envelope.
func (r Resource[T]) IsSuccess() bool { return r.Status == StatusSuccess }

// IsError reports whether r is an error envelope.
func (r Resource[T]) IsError() bool { return r.Status == StatusError }

// Map converts the payload while keeping status, message and cause.
func Map[T, U any](r Resource[T], fn func(T) U) Resource[U] {
	return Resource[U]{Status: r.Status, Data: fn(r.Data), Message: r.Message, Err: r.Err}
}

type wireResource[T any] struct {
	Status  Status `json:"status"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
	Cause   string `json:"cause,omitempty"`
}

// MarshalJSON encodes the envelope with the cause flattened to its message.
func (r Resource[T]) MarshalJSON() ([]byte, error) {
	w := wireResource[T]{Status: r.Status, Data: r.Data, Message: r.Message}
	if r.Err != nil {
		w.Cause = r.Err.Error()
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes an envelope. The cause comes back as a plain error
// holding the original message.
func (r *Resource[T]) UnmarshalJSON(data []byte) error {
	var w wireResource[T]
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = Resource[T]{Status: w.Status, Data: w.Data, Message: w.Message}
	if w.Cause != "" {
		r.Err = errors.New(w.Cause)
	}
	return nil
}
