// Package apperr is the API's error taxonomy. Handlers return *Error values
// and Write turns them into a single {"message"} JSON body.
package apperr

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/harentsoaR/gym-api/internal/store"
)

type Kind int

const (
	KindServer Kind = iota
	KindValidation
	KindConflict
	KindUnauthenticated
	KindForbidden
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindConflict:
		return "Conflict"
	case KindUnauthenticated:
		return "Unauthenticated"
	case KindForbidden:
		return "Forbidden"
	case KindNotFound:
		return "NotFound"
	default:
		return "ServerError"
	}
}

// Status maps a kind onto its HTTP status. Uniqueness conflicts are reported
// as 400, like any other client mistake.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *Error {
	return newError(KindValidation, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return newError(KindConflict, format, args...)
}

func Unauthenticated(format string, args ...any) *Error {
	return newError(KindUnauthenticated, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return newError(KindForbidden, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return newError(KindNotFound, format, args...)
}

// Server wraps an unexpected failure, recording a stack at the call site.
func Server(err error, message string) *Error {
	return &Error{Kind: KindServer, Message: message, Err: errors.WithStack(err)}
}

// FromStore translates store sentinels into API errors. entity names the
// document type for the message ("Bill", "Fee package").
func FromStore(err error, entity string) *Error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, store.ErrNotFound):
		return NotFound("%s not found", entity)
	case stderrors.Is(err, store.ErrDuplicate):
		return Conflict("%s already exists", entity)
	default:
		return Server(err, fmt.Sprintf("Server error on %s", entity))
	}
}

// As returns err as an *Error, treating anything unrecognised as a server error.
func As(err error) *Error {
	var e *Error
	if stderrors.As(err, &e) {
		return e
	}
	return Server(err, "Server error")
}

// Write aborts the request with err rendered as JSON. The stack of the
// underlying cause is included only when exposeStack is set.
func Write(c *gin.Context, err error, exposeStack bool) {
	e := As(err)
	if e.Kind == KindServer {
		log.Error().Err(e.Err).
			Str("request_id", c.GetString("requestID")).
			Str("path", c.Request.URL.Path).
			Msg(e.Message)
	}

	body := gin.H{"message": e.Message}
	if exposeStack {
		if e.Err != nil {
			body["stack"] = fmt.Sprintf("%+v", e.Err)
		} else {
			body["stack"] = nil
		}
	}
	c.AbortWithStatusJSON(e.Kind.Status(), body)
}
