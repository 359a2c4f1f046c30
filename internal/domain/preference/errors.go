package preference

import "errors"

// ErrInvalidInput indicates invalid preference input.
var ErrInvalidInput = errors.New("invalid preferences")
