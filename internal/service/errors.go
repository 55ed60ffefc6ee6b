package service

import "errors"

// ErrValidation marks failures caused by bad caller input, as opposed
// to persistence problems. Wrap it so callers can errors.Is on it.
var ErrValidation = errors.New("validation")
