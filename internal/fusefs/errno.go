package fusefs

import (
	"errors"
	"syscall"

	"github.com/brettbedarf/hierfs/filesystem"
)

// toErrno maps filesystem errors onto the errno returned to the kernel
func toErrno(err error) syscall.Errno {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, filesystem.ErrAccessDenied), errors.Is(err, filesystem.ErrUnknownPrincipal):
		return syscall.EACCES
	case errors.Is(err, filesystem.ErrNotFound):
		return syscall.ENOENT
	case errors.Is(err, filesystem.ErrNotDirectory):
		return syscall.ENOTDIR
	case errors.Is(err, filesystem.ErrNotReadable):
		return syscall.EISDIR
	case errors.Is(err, filesystem.ErrInvalidPath):
		return syscall.EINVAL
	}
	return syscall.EIO
}
