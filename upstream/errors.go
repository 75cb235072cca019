package upstream

import (
	"errors"
	"fmt"
)

// Kind classifies what went wrong with an upstream call.
type Kind int

const (
	KindUnknown Kind = iota
	KindBadRequest
	KindUnauthorized
	KindNotFound
	KindConflict
	KindServer
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad request"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	case KindServer:
		return "server error"
	case KindNetwork:
		return "network error"
	default:
		return "unknown error"
	}
}

// Error is a failed upstream call. Status is zero when the request never
// produced an HTTP response.
type Error struct {
	Kind   Kind
	Op     string
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Kind, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the error kind, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Kind
	}
	return KindUnknown
}

// IsNotFound reports whether err is an upstream "not found".
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsConflict reports whether err is an upstream duplicate/conflict.
func IsConflict(err error) bool {
	return KindOf(err) == KindConflict
}

// statusError maps a non-success HTTP status to the error taxonomy.
func statusError(op string, status int) *Error {
	var kind Kind
	switch status {
	case 400:
		kind = KindBadRequest
	case 401:
		kind = KindUnauthorized
	case 404:
		kind = KindNotFound
	case 409:
		kind = KindConflict
	case 500, 501:
		kind = KindServer
	default:
		kind = KindUnknown
	}
	return &Error{Kind: kind, Op: op, Status: status}
}
