/*
NAME
  time.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package engine

import "github.com/ausocean/loopcut/timeutil"

// ParseTime parses a time string in any of timeutil's supported formats and
// wraps a failure as ErrInvalidTime, giving callers a single sentinel to
// check with errors.Is regardless of where in the pipeline the string came
// from.
func ParseTime(s string) (float64, error) {
	v, err := timeutil.ParseSeconds(s)
	if err != nil {
		return 0, invalidTimef("%v", err)
	}
	return v, nil
}
