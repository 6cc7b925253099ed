//go:build cuda

/*
NAME
  capabilities_cuda.go

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

import (
	"runtime"

	"gocv.io/x/gocv"
)

// Capabilities reports what hardware acceleration is available to the
// engine. It is informational only: detection behaviour and results never
// depend on it.
type Capabilities struct {
	CUDAAvailable bool
	CPUThreads    int
}

// QueryCapabilities returns the current process's Capabilities, probing for
// a CUDA-enabled device via gocv's cuda bindings.
func QueryCapabilities() Capabilities {
	return Capabilities{
		CUDAAvailable: gocv.GetCudaEnabledDeviceCount() > 0,
		CPUThreads:    runtime.GOMAXPROCS(0),
	}
}
