package invoke

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/lambda"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Class partitions failures by how the retry policy must treat them.
type Class int

const (
	// ClassTransient covers network resets, throttling, timeouts and cold
	// starts. Retried up to the attempt budget with exponential backoff.
	ClassTransient Class = iota

	// ClassPermanentData covers malformed partition data and plan fragment
	// execution errors against the given data. Never retried; the partition
	// is marked permanently failed immediately.
	ClassPermanentData

	// ClassPermanentPlan covers invalid or unsupported plan fragments. The
	// query fails before any task is dispatched.
	ClassPermanentPlan

	// ClassResourceExhaustion covers hard concurrency or memory caps on the
	// remote side. Treated as transient for retry purposes since the
	// pressure may subside.
	ClassResourceExhaustion
)

func (c Class) String() string {
	switch c {
	case ClassTransient:
		return "transient"
	case ClassPermanentData:
		return "permanent-data"
	case ClassPermanentPlan:
		return "permanent-plan"
	case ClassResourceExhaustion:
		return "resource-exhaustion"
	}
	return fmt.Sprintf("class(%d)", c)
}

// ParseClass is the inverse of Class.String. Unknown strings parse as
// transient, the safest default for a failure reported without a class.
func ParseClass(s string) Class {
	switch s {
	case "permanent-data":
		return ClassPermanentData
	case "permanent-plan":
		return ClassPermanentPlan
	case "resource-exhaustion":
		return ClassResourceExhaustion
	default:
		return ClassTransient
	}
}

// Retryable reports whether a failure of this class is eligible for
// another attempt.
func (c Class) Retryable() bool {
	return c == ClassTransient || c == ClassResourceExhaustion
}

// Error is a failure annotated with its retry class.
type Error struct {
	Class Class
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Class, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Transient wraps err as a retryable failure.
func Transient(err error) error {
	return &Error{Class: ClassTransient, Err: err}
}

// PermanentData wraps err as a non-retryable data failure.
func PermanentData(err error) error {
	return &Error{Class: ClassPermanentData, Err: err}
}

// PermanentPlan wraps err as a non-retryable plan failure.
func PermanentPlan(err error) error {
	return &Error{Class: ClassPermanentPlan, Err: err}
}

// ResourceExhausted wraps err as a hit resource cap.
func ResourceExhausted(err error) error {
	return &Error{Class: ClassResourceExhaustion, Err: err}
}

// Classify determines the retry class of err. Already classified errors
// keep their class. Deadline and gRPC transport failures map onto the
// taxonomy; anything unrecognized is treated as transient so a flaky
// substrate stays bounded by the attempt budget instead of failing the
// partition outright.
func Classify(err error) Class {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Class
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ClassTransient
	}

	if st, ok := status.FromError(err); ok && st.Code() != codes.OK {
		return classifyGRPCCode(st.Code())
	}

	var aerr awserr.Error
	if errors.As(err, &aerr) {
		return classifyLambdaCode(aerr.Code())
	}

	return ClassTransient
}

func classifyGRPCCode(code codes.Code) Class {
	switch code {
	case codes.InvalidArgument, codes.Unimplemented:
		return ClassPermanentPlan
	case codes.FailedPrecondition, codes.DataLoss, codes.OutOfRange:
		return ClassPermanentData
	case codes.ResourceExhausted:
		return ClassResourceExhaustion
	default:
		// Unavailable, DeadlineExceeded, Aborted, Unknown and the rest of
		// the transport failures.
		return ClassTransient
	}
}

func classifyLambdaCode(code string) Class {
	switch code {
	case lambda.ErrCodeInvalidRequestContentException,
		lambda.ErrCodeRequestTooLargeException,
		lambda.ErrCodeUnsupportedMediaTypeException,
		lambda.ErrCodeResourceNotFoundException,
		lambda.ErrCodeInvalidParameterValueException:
		return ClassPermanentPlan
	case lambda.ErrCodeTooManyRequestsException,
		lambda.ErrCodeEC2ThrottledException,
		lambda.ErrCodeENILimitReachedException:
		return ClassResourceExhaustion
	default:
		// ServiceException, EC2UnexpectedException, ResourceNotReadyException
		// and other invocation layer hiccups.
		return ClassTransient
	}
}
