package invoke

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/lambda"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestClassify(t *testing.T) {
	for _, tc := range []struct {
		name string
		err  error
		want Class
	}{
		{"already classified", PermanentData(errors.New("bad row group")), ClassPermanentData},
		{"classified and wrapped", fmt.Errorf("attempt 2: %w", PermanentPlan(errors.New("no table"))), ClassPermanentPlan},
		{"deadline", context.DeadlineExceeded, ClassTransient},
		{"grpc unavailable", status.Error(codes.Unavailable, "connection refused"), ClassTransient},
		{"grpc deadline", status.Error(codes.DeadlineExceeded, "attempt timed out"), ClassTransient},
		{"grpc invalid argument", status.Error(codes.InvalidArgument, "unsupported compare op"), ClassPermanentPlan},
		{"grpc failed precondition", status.Error(codes.FailedPrecondition, "corrupt footer"), ClassPermanentData},
		{"grpc data loss", status.Error(codes.DataLoss, "truncated object"), ClassPermanentData},
		{"grpc resource exhausted", status.Error(codes.ResourceExhausted, "too many streams"), ClassResourceExhaustion},
		{"lambda throttled", awserr.New(lambda.ErrCodeTooManyRequestsException, "rate exceeded", nil), ClassResourceExhaustion},
		{"lambda bad request", awserr.New(lambda.ErrCodeInvalidRequestContentException, "bad payload", nil), ClassPermanentPlan},
		{"lambda service error", awserr.New(lambda.ErrCodeServiceException, "internal", nil), ClassTransient},
		{"unknown", errors.New("connection reset by peer"), ClassTransient},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Classify(tc.err))
		})
	}
}

func TestClassRetryable(t *testing.T) {
	require.True(t, ClassTransient.Retryable())
	require.True(t, ClassResourceExhaustion.Retryable())
	require.False(t, ClassPermanentData.Retryable())
	require.False(t, ClassPermanentPlan.Retryable())
}

func TestParseClassRoundTrip(t *testing.T) {
	for _, c := range []Class{ClassTransient, ClassPermanentData, ClassPermanentPlan, ClassResourceExhaustion} {
		require.Equal(t, c, ParseClass(c.String()))
	}
	require.Equal(t, ClassTransient, ParseClass("something else"))
}

func TestErrorUnwrap(t *testing.T) {
	sentinel := errors.New("boom")
	err := Transient(sentinel)
	require.ErrorIs(t, err, sentinel)
	require.Contains(t, err.Error(), "transient")
}
