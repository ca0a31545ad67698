package services

import (
	"errors"
	"fmt"
)

var (
	ErrMemberNotActive = errors.New("member is not active")
	ErrNotAuthorized   = errors.New("not authorized to respond to this request")
	ErrSelfFollow      = errors.New("cannot follow yourself")
)

// OperationError is the coarse per-operation wrapper: validation failures
// raised anywhere inside a coordinator surface to callers as one stable kind
// per public operation, with the root cause preserved for logging. Not-found
// and authorization errors bypass this wrapping and surface verbatim.
type OperationError struct {
	Op    string
	Cause error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Cause)
}

func (e *OperationError) Unwrap() error { return e.Cause }

const (
	OpFriendRequest  = "friend request"
	OpFriendResponse = "friend response"
	OpUnfriend       = "unfriend"
	OpFollow         = "follow"
)

func friendRequestFailed(cause error) error {
	return &OperationError{Op: OpFriendRequest, Cause: cause}
}

func friendResponseFailed(cause error) error {
	return &OperationError{Op: OpFriendResponse, Cause: cause}
}

func unfriendFailed(cause error) error {
	return &OperationError{Op: OpUnfriend, Cause: cause}
}

func followFailed(cause error) error {
	return &OperationError{Op: OpFollow, Cause: cause}
}

// IsOperationError reports whether err is the wrapped kind for op.
func IsOperationError(err error, op string) bool {
	var opErr *OperationError
	return errors.As(err, &opErr) && opErr.Op == op
}
