package dcf

import "errors"

// ErrUnknownEntry is returned by Load when a persisted triple names an
// (index, sub-index) absent from the target device's object
// dictionary.
var ErrUnknownEntry = errors.New("dcf: unknown entry")
