//go:build !cuda

/*
NAME
  capabilities.go

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

import "runtime"

// Capabilities reports what hardware acceleration is available to the
// engine. It is informational only: detection behaviour and results never
// depend on it, per SPEC_FULL.md's "Global GPU probing -> capability
// query" design note. This build has no CUDA support compiled in.
type Capabilities struct {
	CUDAAvailable bool
	CPUThreads    int
}

// QueryCapabilities returns the current process's Capabilities.
func QueryCapabilities() Capabilities {
	return Capabilities{
		CUDAAvailable: false,
		CPUThreads:    runtime.GOMAXPROCS(0),
	}
}
