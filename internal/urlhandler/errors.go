package urlhandler

import "errors"

// IsNotFound reports whether err means the URL list file does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrFileNotFound)
}
