package domain

import "errors"

// ErrNotText is returned when a dynamically typed input value is not a
// string. It is the only failure mode the cleaner exposes.
var ErrNotText = errors.New("input is not text")
