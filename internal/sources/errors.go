package sources

import "errors"

// ErrSourceUnavailable is returned when a store cannot be read: missing,
// locked copy unreadable, corrupt, or an unexpected schema. The source
// contributes no records and the run continues.
var ErrSourceUnavailable = errors.New("source unavailable")
