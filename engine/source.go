/*
NAME
  source.go

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

// FrameSource is the external collaborator that decodes a video and yields
// frames by original index. Implementations live outside the engine (see
// source/file for a gocv-backed one); the engine never opens a file itself.
type FrameSource interface {
	// Info returns the source's immutable metadata. It is safe to call
	// Info multiple times; implementations should cache the result.
	Info() (VideoInfo, error)

	// ReadFrames yields frames whose original index lies in [start, end),
	// in increasing order, calling yield once per frame. Implementations
	// must stop and return nil if the stream is truncated before reaching
	// end; they must return a non-nil error (wrapped by the engine as
	// DecoderError) only on an unrecoverable read failure.
	ReadFrames(start, end uint64, yield func(Frame) error) error
}
