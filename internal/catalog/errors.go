package catalog

import "errors"

// ErrMissingField is returned by Insert when one of the four film fields is
// blank.  Nothing is written to the store.
var ErrMissingField = errors.New("missing required field")

// ErrDuplicateName is returned by Insert when the loaded table already holds
// a film whose name matches the new one.  Handlers translate it into 409.
var ErrDuplicateName = errors.New("film already exists")

// ErrUnknownOption is returned when a policy, strategy or match mode string
// cannot be parsed.
var ErrUnknownOption = errors.New("unknown option")
