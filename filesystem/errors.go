package filesystem

import (
	"errors"
	"fmt"
	"maps"

	perrors "github.com/jmgilman/go/errors"
)

// Outcomes returned by tree operations. None of them are fatal: each one is
// local to the operation that produced it and leaves the tree unchanged.
// Match with errors.Is; [FileSystem] wraps them with the offending path.
var (
	// ErrAccessDenied is returned by Read when the requester is neither the
	// owner nor an administrator
	ErrAccessDenied = perrors.New(perrors.CodeForbidden, "access denied")
	// ErrDuplicateName is returned when a directory already has a child with the name
	ErrDuplicateName = perrors.New(perrors.CodeAlreadyExists, "name already exists in directory")
	// ErrNotFound is returned when no child matches the name
	ErrNotFound = perrors.New(perrors.CodeNotFound, "no such file or directory")
	// ErrCycle is returned when a directory would be added into its own subtree
	ErrCycle = perrors.New(perrors.CodeConflict, "directory cannot contain itself or an ancestor")
	// ErrAttached is returned when the node still belongs to another directory
	ErrAttached = perrors.New(perrors.CodeConflict, "node already belongs to a directory")
	// ErrNotDirectory is returned when a path component is not a directory
	ErrNotDirectory = perrors.New(perrors.CodeInvalidInput, "not a directory")
	// ErrNotReadable is returned when content is requested from a directory
	ErrNotReadable = perrors.New(perrors.CodeInvalidInput, "not a readable file")
	// ErrInvalidPath is returned for empty names, names containing a slash or
	// operations that would target the root itself
	ErrInvalidPath = perrors.New(perrors.CodeInvalidInput, "invalid path")
	// ErrInvalidKind is returned when a file request asks for a directory kind
	ErrInvalidKind = perrors.New(perrors.CodeInvalidInput, "invalid node kind")
	// ErrUnknownPrincipal is returned when no registered principal matches
	ErrUnknownPrincipal = perrors.New(perrors.CodeNotFound, "unknown principal")
)

// OpError records the facade operation and path that failed. It is itself a
// [perrors.PlatformError] carrying the code of the error it wraps, so
// errors.Is on the sentinels and perrors.GetCode both see through it.
type OpError struct {
	Op   string
	Path string
	Err  error
}

var _ perrors.PlatformError = (*OpError)(nil)

// Error formats as "[CODE] op "path": message" with the code printed once
func (e *OpError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code(), e.Message())
}

func (e *OpError) Code() perrors.ErrorCode {
	return perrors.GetCode(e.Err)
}

func (e *OpError) Classification() perrors.ErrorClassification {
	return perrors.GetClassification(e.Err)
}

func (e *OpError) Message() string {
	msg := e.Err.Error()
	var pe perrors.PlatformError
	if errors.As(e.Err, &pe) {
		msg = pe.Message()
	}
	return fmt.Sprintf("%s %q: %s", e.Op, e.Path, msg)
}

// Context returns the wrapped error's context plus op and path
func (e *OpError) Context() map[string]interface{} {
	ctx := map[string]interface{}{}
	var pe perrors.PlatformError
	if errors.As(e.Err, &pe) {
		maps.Copy(ctx, pe.Context())
	}
	ctx["op"] = e.Op
	ctx["path"] = e.Path
	return ctx
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func pathError(op, p string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Path: p, Err: err}
}
