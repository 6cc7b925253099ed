/*
NAME
  timeutil.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package timeutil parses the time-string formats accepted at the engine's
// boundary: HH:MM:SS[.frac], MM:SS[.frac], and plain seconds.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSeconds parses s as one of:
//   - HH:MM:SS[.frac]
//   - MM:SS[.frac]
//   - plain seconds, integer or decimal
//
// and returns the equivalent number of seconds.
func ParseSeconds(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("timeutil: empty time string")
	}

	if !strings.Contains(s, ":") {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("timeutil: invalid plain-seconds time %q: %w", s, err)
		}
		if v < 0 {
			return 0, fmt.Errorf("timeutil: negative time %q", s)
		}
		return v, nil
	}

	parts := strings.Split(s, ":")
	var hours, minutes float64
	var secStr string

	switch len(parts) {
	case 2:
		secStr = parts[1]
		m, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return 0, fmt.Errorf("timeutil: invalid minutes in %q: %w", s, err)
		}
		minutes = m
	case 3:
		secStr = parts[2]
		h, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return 0, fmt.Errorf("timeutil: invalid hours in %q: %w", s, err)
		}
		m, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return 0, fmt.Errorf("timeutil: invalid minutes in %q: %w", s, err)
		}
		hours, minutes = h, m
	default:
		return 0, fmt.Errorf("timeutil: unrecognised time format %q", s)
	}

	seconds, err := strconv.ParseFloat(secStr, 64)
	if err != nil {
		return 0, fmt.Errorf("timeutil: invalid seconds in %q: %w", s, err)
	}
	if hours < 0 || minutes < 0 || minutes >= 60 || seconds < 0 || seconds >= 60 {
		return 0, fmt.Errorf("timeutil: out-of-range component in %q", s)
	}

	return hours*3600 + minutes*60 + seconds, nil
}
