package leave

import "errors"

var (
	ErrRangeTooLong = errors.New("leave range must not exceed 366 days")
)

// MaxRangeDays bounds a single working-day calculation.
const MaxRangeDays = 366
