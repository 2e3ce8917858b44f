package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/masterdesk/api/internal/model"
)

const defaultStderrTail = 800

// EngineError indicates the engine ran but reported failure via a
// non-zero exit code. Stderr holds the retained diagnostic tail.
type EngineError struct {
	ExitCode int
	Stderr   string
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("engine exited with code %d: %s", e.ExitCode, strings.TrimSpace(e.Stderr))
}

// Engine drives the external mastering executable. The executable is a
// black box with two modes: "analyze <input>" and
// "master <input> <output> <flags>", both emitting JSON on stdout and
// diagnostics on stderr.
type Engine struct {
	runner     Runner
	binary     string
	stderrTail int
}

// NewEngine constructs an Engine around the given runner and binary.
func NewEngine(runner Runner, binary string, stderrTail int) *Engine {
	if stderrTail <= 0 {
		stderrTail = defaultStderrTail
	}
	return &Engine{
		runner:     runner,
		binary:     binary,
		stderrTail: stderrTail,
	}
}

// MasterResult is what a successful mastering run produced. Metrics may
// be nil when the engine succeeded but its stdout payload was missing or
// unparseable; that is not treated as a failure.
type MasterResult struct {
	OutputPath string
	Metrics    *model.AudioMetrics
}

// Analyze measures the input file. Analysis runs are short-lived, so
// stderr is captured in full.
func (e *Engine) Analyze(ctx context.Context, input string) (*model.AudioMetrics, error) {
	out, err := e.runner.Run(ctx, e.binary, []string{"analyze", input})
	if err != nil {
		return nil, err
	}
	if out.ExitCode != 0 {
		return nil, &EngineError{ExitCode: out.ExitCode, Stderr: out.Stderr}
	}

	var payload struct {
		Metrics *model.AudioMetrics `json:"metrics"`
	}
	if err := json.Unmarshal([]byte(out.Stdout), &payload); err != nil {
		return nil, fmt.Errorf("parse analyze output: %w", err)
	}
	if payload.Metrics == nil {
		return nil, fmt.Errorf("analyze output missing metrics")
	}
	return payload.Metrics, nil
}

// Master renders the mastering chain into outputPath. Non-zero exit is
// returned as *EngineError with the bounded stderr tail attached.
func (e *Engine) Master(ctx context.Context, input, outputPath string, params model.MasteringParameters) (*MasterResult, error) {
	args := masterArgs(input, outputPath, params)

	out, err := e.runner.Run(ctx, e.binary, args, WithStderrTail(e.stderrTail))
	if err != nil {
		return nil, err
	}
	if out.ExitCode != 0 {
		return nil, &EngineError{ExitCode: out.ExitCode, Stderr: out.Stderr}
	}

	return &MasterResult{
		OutputPath: outputPath,
		Metrics:    parseFinalMetrics(out.Stdout),
	}, nil
}

// masterArgs builds the flag list the mastering executable expects.
func masterArgs(input, output string, p model.MasteringParameters) []string {
	return []string{
		"master", input, output,
		"--target-lufs", formatFloat(p.TargetLufs),
		"--true-peak", formatFloat(p.TargetPeak),
		"--input-trim-db", formatFloat(p.InputTrimDb),
		"--comp-threshold", formatFloat(p.CompThreshold),
		"--comp-ratio", formatFloat(p.CompRatio),
		"--attack", formatFloat(p.AttackMs),
		"--release", formatFloat(p.ReleaseMs),
		"--eq-low-hz", formatFloat(p.EqLowHz),
		"--eq-low-db", formatFloat(p.EqLowDb),
		"--eq-low-q", formatFloat(p.EqLowQ),
		"--eq-high-hz", formatFloat(p.EqHighHz),
		"--eq-high-db", formatFloat(p.EqHighDb),
		"--eq-high-q", formatFloat(p.EqHighQ),
		"--limiter-ceiling", formatFloat(p.LimiterCeiling),
		"--limiter-lookahead", formatFloat(p.LimiterLookahead),
		"--limiter-release", formatFloat(p.LimiterRelease),
		"--platform", string(p.Platform),
		"--profile-name", p.ProfileName,
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// parseFinalMetrics extracts finalMetrics (or metrics, which older
// engine builds emit) from the stdout payload. Absent or malformed
// metrics yield nil rather than an error.
func parseFinalMetrics(stdout string) *model.AudioMetrics {
	var payload struct {
		FinalMetrics *model.AudioMetrics `json:"finalMetrics"`
		Metrics      *model.AudioMetrics `json:"metrics"`
	}
	if err := json.Unmarshal([]byte(stdout), &payload); err != nil {
		return nil
	}
	if payload.FinalMetrics != nil {
		return payload.FinalMetrics
	}
	return payload.Metrics
}
