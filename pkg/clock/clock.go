// Package clock provides the time source used to stamp and measure collector runs
package clock

import "time"

// SystemClock provides production time implementation using the standard library
type SystemClock struct{}

// Now returns the current time
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Fixed always reports the same instant; handy for tests that assert on timestamps
type Fixed time.Time

// Now returns the fixed instant
func (f Fixed) Now() time.Time {
	return time.Time(f)
}
