package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewCarriesCodeAndMessage(t *testing.T) {
	t.Parallel()

	err := New(CodeValidation, "title is too short")
	require.Equal(t, CodeValidation, err.Code())
	require.Equal(t, "title is too short", err.Message())
	require.Equal(t, "VALIDATION_ERROR: title is too short", err.Error())
	require.Nil(t, err.Details())
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := stdErrors.New("connection refused")
	err := Wrap(CodeDependency, cause, "calling tour api")
	require.Equal(t, CodeDependency, err.Code())
	require.ErrorIs(t, err, cause)

	// A nil cause degrades to a plain coded error.
	require.NoError(t, Wrap(CodeInternal, nil, "no cause").Unwrap())
}

func TestAsExtractsFromWrappedChains(t *testing.T) {
	t.Parallel()

	coded := New(CodeUpload, "batch rejected")
	wrapped := fmt.Errorf("submitting draft: %w", coded)

	typed := As(wrapped)
	require.NotNil(t, typed)
	require.Equal(t, CodeUpload, typed.Code())

	require.Nil(t, As(nil))
	require.Nil(t, As(stdErrors.New("plain")))
}

func TestWithDetails(t *testing.T) {
	t.Parallel()

	details := map[string]string{"tickets": "at least 1 item is required"}
	err := New(CodeValidation, "validation failed").WithDetails(details)
	require.Equal(t, details, err.Details())
}

func TestNilReceiverIsSafe(t *testing.T) {
	t.Parallel()

	var err *Error
	require.Equal(t, CodeInternal, err.Code())
	require.Empty(t, err.Message())
	require.Empty(t, err.Error())
	require.Nil(t, err.Details())
	require.Nil(t, err.WithDetails("ignored"))
	require.NoError(t, err.Unwrap())
}

func TestMetadataFor(t *testing.T) {
	t.Parallel()

	validation := MetadataFor(CodeValidation)
	require.False(t, validation.Retryable)
	require.True(t, validation.DetailsAllowed)

	upload := MetadataFor(CodeUpload)
	require.True(t, upload.Retryable)

	// Unknown codes fall back to the internal metadata.
	unknown := MetadataFor(Code("SOMETHING_ELSE"))
	require.Equal(t, MetadataFor(CodeInternal), unknown)
}

func TestRetryable(t *testing.T) {
	t.Parallel()

	require.False(t, Retryable(New(CodeValidation, "bad input")))
	require.True(t, Retryable(New(CodeDependency, "api down")))
	require.True(t, Retryable(fmt.Errorf("submitting: %w", New(CodeUpload, "batch failed"))))
	require.True(t, Retryable(stdErrors.New("uncoded")), "uncoded errors classify as internal")
}
