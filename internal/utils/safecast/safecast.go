// Package safecast implements functions to safely cast types to avoid panics
package safecast

import (
	"fmt"
	"math"
	"time"

	"github.com/spf13/cast"
)

// Uint64ToInt64 safely converts a uint64 to int64 using cast and checks for overflow
func Uint64ToInt64(value uint64) (int64, error) {
	if value > math.MaxInt64 {
		return 0, fmt.Errorf("value %d exceeds int64 range", value)
	}

	return cast.ToInt64E(value)
}

// Int64ToUint64 safely converts an int64 to uint64 using cast and checks for overflow
func Int64ToUint64(value int64) (uint64, error) {
	if value < 0 {
		return 0, fmt.Errorf("value %d is negative, cannot convert to uint64", value)
	}

	return cast.ToUint64E(value)
}

// MillisToDuration converts a number of milliseconds to a time.Duration and checks for overflow
func MillisToDuration(millis uint64) (time.Duration, error) {
	const maxMillis = uint64(math.MaxInt64 / int64(time.Millisecond))
	if millis > maxMillis {
		return 0, fmt.Errorf("value %dms exceeds duration range", millis)
	}

	ms, err := Uint64ToInt64(millis)
	if err != nil {
		return 0, err
	}

	return time.Duration(ms) * time.Millisecond, nil
}
