package errors_test

import (
	"fmt"
	"testing"

	"github.com/speakeasy-api/openapi-stubgen/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const errTest = errors.Error("test sentinel")

func TestError_Is(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		target   error
		expected bool
	}{
		{name: "same sentinel", target: errors.Error("test sentinel"), expected: true},
		{name: "message with separator", target: errors.New("test sentinel -- cause"), expected: true},
		{name: "different sentinel", target: errors.Error("other"), expected: false},
		{name: "prefix without separator", target: errors.New("test sentinel but more"), expected: false},
		{name: "nil target", target: nil, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, errTest.Is(tt.target))
		})
	}
}

func TestError_Wrap_Success(t *testing.T) {
	t.Parallel()

	cause := errors.New("disk full")
	err := errTest.Wrap(cause)

	assert.Equal(t, "test sentinel -- disk full", err.Error())
	assert.True(t, errors.Is(err, errTest), "wrapped error should match its sentinel")
	assert.True(t, errors.Is(err, cause), "wrapped error should match its cause")
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestError_Wrap_NilCause(t *testing.T) {
	t.Parallel()

	err := errTest.Wrap(nil)
	assert.Equal(t, "test sentinel", err.Error())
	assert.True(t, errors.Is(err, errTest))
}

func TestError_Wrapf_Success(t *testing.T) {
	t.Parallel()

	err := errTest.Wrapf("file %s", "index.js")
	assert.Equal(t, "test sentinel -- file index.js", err.Error())
}

func TestError_FmtWrapped_StillMatches(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("generating: %w", errTest.Wrap(errors.New("boom")))
	assert.True(t, errors.Is(err, errTest))
}

func TestUnwrapErrors_Success(t *testing.T) {
	t.Parallel()

	first := errors.New("first")
	second := errors.New("second")

	tests := []struct {
		name     string
		err      error
		expected []error
	}{
		{name: "nil", err: nil, expected: nil},
		{name: "single", err: first, expected: []error{first}},
		{name: "joined", err: errors.Join(first, second), expected: []error{first, second}},
		{name: "sentinel wrapping joined", err: errTest.Wrap(errors.Join(first, second)), expected: []error{first, second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := errors.UnwrapErrors(tt.err)
			require.Len(t, got, len(tt.expected))
			for i := range tt.expected {
				assert.Equal(t, tt.expected[i], got[i])
			}
		})
	}
}

type locatedError struct {
	at string
}

func (e *locatedError) Error() string { return "problem at " + e.at }

func TestCollectAs_Success(t *testing.T) {
	t.Parallel()

	a := &locatedError{at: "a"}
	b := &locatedError{at: "b"}
	c := &locatedError{at: "c"}

	err := fmt.Errorf("loading: %w", errTest.Wrap(errors.Join(a, errors.New("other"), fmt.Errorf("nested: %w", errors.Join(b, c)))))

	got := errors.CollectAs[*locatedError](err)
	assert.Equal(t, []*locatedError{a, b, c}, got)

	assert.Empty(t, errors.CollectAs[*locatedError](errors.New("plain")))
	assert.Empty(t, errors.CollectAs[*locatedError](nil))
}
