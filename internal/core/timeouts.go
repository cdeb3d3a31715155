package core

import "time"

// TimeoutShort bounds quick external commands such as git config lookups.
const TimeoutShort = 5 * time.Second
