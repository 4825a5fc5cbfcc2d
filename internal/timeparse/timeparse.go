// Package timeparse normalizes the timestamp formats found in real-world
// feeds into time.Time values.
package timeparse

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"
)

// UnparsableError is returned when a timestamp matches none of the
// known formats.
type UnparsableError struct {
	Raw string
}

func (e *UnparsableError) Error() string {
	return fmt.Sprintf("timestamp %q matches no known format", e.Raw)
}

// Strategy is one named parsing attempt. Strategies are tried in order;
// the order is part of the contract, since looser formats must not
// shadow stricter ones beyond this fixed sequence.
type Strategy struct {
	Name  string
	Parse func(raw string) (time.Time, error)
}

// Strategies is the fixed fallback order. Real-world feeds emit all of
// these shapes, including RFC 1123 dates with the required timezone
// offset missing entirely.
var Strategies = []Strategy{
	{Name: "generic", Parse: func(raw string) (time.Time, error) {
		return dateparse.ParseAny(raw)
	}},
	{Name: "rfc1123z", Parse: func(raw string) (time.Time, error) {
		return time.Parse(time.RFC1123Z, raw)
	}},
	{Name: "rfc3339", Parse: func(raw string) (time.Time, error) {
		return time.Parse(time.RFC3339, raw)
	}},
	{Name: "rfc1123z+utc", Parse: func(raw string) (time.Time, error) {
		return time.Parse(time.RFC1123Z, raw+" +0000")
	}},
}

// Parse tries each strategy in order and returns the first success.
// Returns *UnparsableError once every strategy is exhausted.
func Parse(raw string) (time.Time, error) {
	for _, s := range Strategies {
		if t, err := s.Parse(raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &UnparsableError{Raw: raw}
}
