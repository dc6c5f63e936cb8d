// Package lifecycle holds shared timing constants for fx start/stop hooks.
package lifecycle

import "time"

// DefaultTimeout bounds start and stop of the fx application.
const DefaultTimeout = 10 * time.Second
