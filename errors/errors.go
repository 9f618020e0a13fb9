// Package errors provides constant sentinel errors for the generator packages.
//
// It shadows the standard library errors package so callers only need a single import.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Separator divides a sentinel message from its cause in the rendered message.
const Separator = " -- "

// Error is a string based error, allowing sentinels to be declared as constants.
type Error string

func (e Error) Error() string {
	return string(e)
}

// Is reports whether target is this sentinel, either directly or as the message prefix of a wrapped error.
func (e Error) Is(target error) bool {
	if target == nil {
		return false
	}
	msg := target.Error()
	return msg == string(e) || strings.HasPrefix(msg, string(e)+Separator)
}

// Wrap attaches cause to the sentinel. The result matches the sentinel with Is and unwraps to cause.
func (e Error) Wrap(cause error) error {
	return &wrappedError{msg: string(e), cause: cause}
}

// Wrapf attaches a formatted cause to the sentinel.
func (e Error) Wrapf(format string, args ...any) error {
	return e.Wrap(fmt.Errorf(format, args...))
}

type wrappedError struct {
	msg   string
	cause error
}

func (w *wrappedError) Error() string {
	if w.cause == nil {
		return w.msg
	}
	return w.msg + Separator + w.cause.Error()
}

func (w *wrappedError) Is(target error) bool {
	return Error(w.msg).Is(target)
}

func (w *wrappedError) Unwrap() error {
	return w.cause
}

// Is wraps errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// New wraps errors.New.
func New(message string) error {
	return errors.New(message)
}

// Join wraps errors.Join.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// Unwrap wraps errors.Unwrap.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// UnwrapErrors flattens err into the individual errors it joins.
// A wrapped sentinel is looked through so the joined causes are returned.
func UnwrapErrors(err error) []error {
	if err == nil {
		return nil
	}

	type joined interface {
		Unwrap() []error
	}

	if j, ok := err.(joined); ok {
		return j.Unwrap()
	}
	if w, ok := err.(*wrappedError); ok && w.cause != nil {
		if j, ok := w.cause.(joined); ok {
			return j.Unwrap()
		}
	}
	return []error{err}
}

// CollectAs walks the whole tree of err, following both single and joined wrapping,
// and returns every error of type T found, in depth first order.
func CollectAs[T error](err error) []T {
	var found []T

	var walk func(error)
	walk = func(e error) {
		if e == nil {
			return
		}
		if t, ok := e.(T); ok {
			found = append(found, t)
			return
		}
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(u.Unwrap())
		}
	}
	walk(err)

	return found
}
