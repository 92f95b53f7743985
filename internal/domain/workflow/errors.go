package workflow

import "errors"

// ErrVersionConflict is returned when a conditional status update matched no
// row: the record moved (or changed version) since it was read. Handlers map
// it to 409 so a losing concurrent approver fails loudly.
var ErrVersionConflict = errors.New("version conflict")
