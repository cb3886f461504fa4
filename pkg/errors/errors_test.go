package errors_test

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/DPR-Intelligence/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// New / Wrap
// ─────────────────────────────────────────────────────────────────────────────

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"internal error", errors.CodeInternal, "unexpected failure"},
		{"session", errors.ErrCodeSessionNotFound, "session abc not found"},
		{"checklist", errors.ErrCodeChecklistInvalid, "weights do not sum to 100"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ae := errors.New(tc.code, tc.message)
			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.Empty(t, ae.Detail)
			assert.Nil(t, ae.Cause)
			assert.NotEmpty(t, ae.Stack)
		})
	}
}

func TestWrap_NilErrReturnsNil(t *testing.T) {
	t.Parallel()

	assert.NoError(t, errors.Wrap(nil, errors.CodeInternal, "ignored"))
	assert.NoError(t, errors.Wrapf(nil, errors.CodeInternal, "ignored %d", 1))
}

func TestWrap_CauseChainIsPreserved(t *testing.T) {
	t.Parallel()

	root := stderrors.New("regex exploded")
	err := errors.Wrap(root, errors.ErrCodeClassificationFailed, "classification failed")

	require.Error(t, err)
	assert.True(t, stderrors.Is(err, root))
	assert.True(t, errors.IsCode(err, errors.ErrCodeClassificationFailed))
	assert.Equal(t, errors.ErrCodeClassificationFailed, errors.GetCode(err))
	assert.Contains(t, err.Error(), "[CLS_001] classification failed: regex exploded")
}

func TestWrap_UnknownCodeKeepsInnerCode(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.ErrCodeSessionNotFound, "no such session")
	err := errors.Wrap(inner, errors.CodeUnknown, "run simulation")
	assert.Equal(t, errors.ErrCodeSessionNotFound, errors.GetCode(err))
}

func TestWrap_OuterCodeWinsForGetCode(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.ErrCodeSessionNotFound, "no such session")
	err := errors.Wrap(inner, errors.ErrCodeSimulationFailed, "simulation failed")

	assert.Equal(t, errors.ErrCodeSimulationFailed, errors.GetCode(err))
	assert.True(t, errors.IsCode(err, errors.ErrCodeSessionNotFound))
	assert.True(t, errors.IsNotFound(err))
}

// ─────────────────────────────────────────────────────────────────────────────
// Sentinels and helpers
// ─────────────────────────────────────────────────────────────────────────────

func TestSentinel_MatchesByCode(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("lookup: %w", errors.New(errors.ErrCodeSessionNotFound, "session 7 not found"))
	assert.True(t, errors.Is(err, errors.ErrSessionNotFound))
	assert.False(t, errors.Is(err, errors.ErrClassifierNotInitialized))
}

func TestWithDetailAndCause_AreCopies(t *testing.T) {
	t.Parallel()

	base := errors.NotFound("strategy missing")
	withDetail := base.WithDetail("id=mit-1")
	withCause := base.WithCause(stderrors.New("boom"))

	assert.Empty(t, base.Detail)
	assert.Equal(t, "id=mit-1", withDetail.Detail)
	assert.Nil(t, base.Cause)
	assert.EqualError(t, withCause.Cause, "boom")

	var nilErr *errors.AppError
	assert.Nil(t, nilErr.WithDetail("x"))
	assert.Nil(t, nilErr.WithCause(stderrors.New("x")))
}

func TestGetCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(stderrors.New("plain")))
	assert.Equal(t, errors.ErrCodeValidation, errors.GetCode(errors.Validation("bad")))
}

func TestPredicates(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		err        error
		notFound   bool
		validation bool
	}{
		{"generic not found", errors.NotFound("x"), true, false},
		{"session", errors.ErrSessionNotFound, true, false},
		{"strategy", errors.New(errors.ErrCodeStrategyNotFound, "x"), true, false},
		{"invalid param", errors.InvalidParam("x"), false, true},
		{"checklist", errors.New(errors.ErrCodeChecklistInvalid, "x"), false, true},
		{"internal", errors.Internal("x"), false, false},
		{"nil", nil, false, false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.notFound, errors.IsNotFound(tc.err))
			assert.Equal(t, tc.validation, errors.IsValidation(tc.err))
		})
	}
}

func TestError_Format(t *testing.T) {
	t.Parallel()

	ae := errors.Newf(errors.ErrCodeChecklistInvalid, "section %q weight", "cost").WithDetail("sum=95")
	assert.True(t, strings.HasPrefix(ae.Error(), "[CHK_001] section \"cost\" weight"))
	assert.True(t, strings.HasSuffix(ae.Error(), ": sum=95"))
}
