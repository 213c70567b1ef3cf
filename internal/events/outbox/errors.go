package outbox

import "errors"

// ErrEntryNotFound is returned when marking or inspecting a missing entry.
var ErrEntryNotFound = errors.New("outbox entry not found")
