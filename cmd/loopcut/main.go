/*
DESCRIPTION
  loopcut is a command-line tool that finds the best seamless loop in a
  video and writes a trimmed clip of it.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package main implements the loopcut CLI: argument parsing, wiring the
// engine to a file-backed FrameSource and VideoTrimmer, and writing a JSON
// sidecar describing the chosen loop.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/loopcut/engine"
	"github.com/ausocean/loopcut/engine/config"
	"github.com/ausocean/loopcut/source/file"
	"github.com/ausocean/loopcut/timeutil"
	"github.com/ausocean/loopcut/trim"
	"github.com/ausocean/utils/logging"
)

// Logging related constants, matching cmd/looper's layout.
const (
	logPath      = "loopcut.log"
	logMaxSize   = 100 // MB
	logMaxBackup = 5
	logMaxAge    = 28 // days
	logVerbosity = logging.Info
	logSuppress  = false
)

// sidecar is the JSON metadata document written alongside the output clip,
// per SPEC_FULL.md §5/§6: the engine supplies LoopInfo; everything else is
// the CLI's own bookkeeping.
type sidecar struct {
	InputFile         string                 `json:"input_file"`
	OutputFile        string                 `json:"output_file"`
	LoopInfo          engine.LoopCandidate   `json:"loop_info"`
	ProcessingOptions map[string]interface{} `json:"processing_options"`
}

func main() {
	var (
		inputPtr      = flag.String("input", "", "Path to the input video file.")
		outputPtr     = flag.String("output", "", "Path to write the trimmed output clip to.")
		lengthPtr     = flag.String("length", "auto", `Desired loop length in seconds, or "auto".`)
		startPtr      = flag.String("start", "", "Start of analysis window (HH:MM:SS[.frac], MM:SS[.frac], or seconds).")
		endPtr        = flag.String("end", "", "End of analysis window, same formats as -start.")
		stridePtr     = flag.Uint("stride", config.DefaultStride, "Sample every Nth frame.")
		thresholdPtr  = flag.Float64("threshold", config.DefaultThreshold, "Minimum similarity score in [0,1].")
		strategyPtr   = flag.String("strategy", "hybrid", "Pair-search strategy: fast_hash, batch_ssim, hybrid, combined.")
		loopCountPtr  = flag.Int("loop-count", 1, "Number of top loop candidates to report.")
		jsonPtr       = flag.String("json", "", "Path to write a JSON sidecar describing the chosen loop.")
		timeoutPtr    = flag.Duration("timeout", 0, "Abort detection after this long (0 disables).")
		resizePtr     = flag.String("resize", "crop", "Resize strategy when output resolution doesn't match: crop, pad, center.")
	)
	flag.Parse()

	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	l := logging.New(logVerbosity, io.MultiWriter(fileLog, os.Stderr), logSuppress)

	if err := run(l, cliArgs{
		input:      *inputPtr,
		output:     *outputPtr,
		length:     *lengthPtr,
		start:      *startPtr,
		end:        *endPtr,
		stride:     uint32(*stridePtr),
		threshold:  float32(*thresholdPtr),
		strategy:   *strategyPtr,
		loopCount:  *loopCountPtr,
		jsonPath:   *jsonPtr,
		timeout:    *timeoutPtr,
		resize:     *resizePtr,
	}); err != nil {
		l.Error("loopcut failed", "error", err)
		fmt.Fprintln(os.Stderr, "loopcut:", err)
		os.Exit(1)
	}
}

type cliArgs struct {
	input, output, length, start, end, strategy, jsonPath, resize string
	stride                                                        uint32
	threshold                                                     float32
	loopCount                                                     int
	timeout                                                       time.Duration
}

func run(l logging.Logger, a cliArgs) error {
	if a.input == "" {
		return errors.New("-input is required")
	}

	strategy, err := parseStrategy(a.strategy)
	if err != nil {
		return err
	}

	desired, err := parseDesiredLength(a.length)
	if err != nil {
		return err
	}

	window, err := parseWindow(a.start, a.end)
	if err != nil {
		return err
	}

	src := file.New(a.input, l)
	if err := src.Open(); err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer src.Close()

	cfg := config.New(l)
	cfg.Stride = a.stride
	cfg.Threshold = a.threshold
	cfg.Strategy = strategy
	cfg.Validate()

	ctx := context.Background()
	var cancel context.CancelFunc
	if a.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	eng := engine.New(cfg)
	loops, err := eng.DetectLoops(ctx, src, engine.Options{
		Window:        window,
		Stride:        a.stride,
		Threshold:     a.threshold,
		DesiredLength: desired,
	})
	if err != nil {
		return fmt.Errorf("detect loops: %w", err)
	}
	if len(loops) == 0 {
		fmt.Println("no loop found meeting the given criteria")
		return nil
	}

	n := a.loopCount
	if n <= 0 || n > len(loops) {
		n = len(loops)
	}
	printSummary(loops[:n])

	best := loops[0]
	if a.output != "" {
		resize, err := parseResize(a.resize)
		if err != nil {
			return err
		}
		trimmer := trim.New(l)
		if err := trimmer.Trim(a.input, a.output, best, trim.Options{Resize: resize}); err != nil {
			return fmt.Errorf("trim output: %w", err)
		}
	}

	if a.jsonPath != "" {
		return writeSidecar(a.jsonPath, a, best)
	}
	return nil
}

func parseStrategy(s string) (config.Strategy, error) {
	switch s {
	case "fast_hash":
		return config.StrategyFastHash, nil
	case "batch_ssim":
		return config.StrategyBatchSSIM, nil
	case "hybrid":
		return config.StrategyHybrid, nil
	case "combined":
		return config.StrategyCombined, nil
	default:
		return 0, fmt.Errorf("unknown strategy %q", s)
	}
}

func parseResize(s string) (trim.ResizeStrategy, error) {
	switch s {
	case "crop":
		return trim.ResizeCrop, nil
	case "pad":
		return trim.ResizePad, nil
	case "center":
		return trim.ResizeCenter, nil
	default:
		return 0, fmt.Errorf("unknown resize strategy %q", s)
	}
}

func parseDesiredLength(s string) (engine.DesiredLength, error) {
	if s == "" || s == "auto" {
		return engine.Auto(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return engine.DesiredLength{}, fmt.Errorf("invalid -length %q: %w", s, err)
	}
	return engine.Length(v), nil
}

func parseWindow(start, end string) (engine.Window, error) {
	var w engine.Window
	if start != "" {
		v, err := timeutil.ParseSeconds(start)
		if err != nil {
			return w, fmt.Errorf("invalid -start: %w", err)
		}
		w.StartTimeS = &v
	}
	if end != "" {
		v, err := timeutil.ParseSeconds(end)
		if err != nil {
			return w, fmt.Errorf("invalid -end: %w", err)
		}
		w.EndTimeS = &v
	}
	return w, nil
}

func printSummary(loops []engine.LoopCandidate) {
	fmt.Printf("found %d loop candidate(s):\n", len(loops))
	for i, lp := range loops {
		fmt.Printf("  %d. %.2fs - %.2fs (%.2fs, %d frames) quality=%.3f final=%.3f\n",
			i+1, lp.StartTimeS, lp.EndTimeS, lp.DurationS, lp.FrameCount, lp.QualityScore, lp.FinalScore)
	}
}

func writeSidecar(path string, a cliArgs, loop engine.LoopCandidate) error {
	doc := sidecar{
		InputFile:  a.input,
		OutputFile: a.output,
		LoopInfo:   loop,
		ProcessingOptions: map[string]interface{}{
			"desired_length": a.length,
			"stride":         a.stride,
			"threshold":      a.threshold,
			"strategy":       a.strategy,
			"resize":         a.resize,
		},
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create json sidecar: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
