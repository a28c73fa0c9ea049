package hardcopychrome

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/goliatone/go-hardcopy/hardcopy"
)

// DefaultWaitDelay bounds how long Wait blocks on renderer child processes
// holding stderr open after the renderer itself has exited or been killed.
const DefaultWaitDelay = 2 * time.Second

const maxStderrBytes = 16 * 1024

// ProcessEngine renders by invoking the headless browser binary once per
// call.
type ProcessEngine struct {
	Config  hardcopy.RendererConfig
	Timeout time.Duration
	Env     []string
	TempDir string
	Logger  hardcopy.Logger
}

// NewProcessEngine returns a process engine for cfg.
func NewProcessEngine(cfg hardcopy.RendererConfig) *ProcessEngine {
	return &ProcessEngine{Config: cfg}
}

// Render writes req's HTML to a scoped temp file when needed, runs the
// renderer and returns output rewound to the start.
func (e *ProcessEngine) Render(ctx context.Context, req hardcopy.Request, output *os.File) (hardcopy.Result, error) {
	if e == nil {
		return hardcopy.Result{}, hardcopy.NewError(hardcopy.KindInternal, "process engine is nil", nil)
	}
	req, err := req.Validate()
	if err != nil {
		return hardcopy.Result{}, err
	}
	if output == nil {
		return hardcopy.Result{}, hardcopy.NewError(hardcopy.KindValidation, "output file is required", nil)
	}
	binary := strings.TrimSpace(e.Config.BinaryPath)
	if binary == "" {
		return hardcopy.Result{}, hardcopy.NewError(hardcopy.KindConfiguration, "renderer binary path is not configured", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	inputPath, cleanup, err := materializeInput(req, e.TempDir)
	if err != nil {
		return hardcopy.Result{}, err
	}
	defer cleanup()

	argv := CommandArgs(binary, req.Format, output.Name(), inputPath, req.EffectiveOptions(e.Config.WindowSize))
	logger := e.logger()
	logger.Debugf("hardcopy: running %s %s", binary, strings.Join(argv[1:], " "))

	cmdCtx := ctx
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		cmdCtx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(cmdCtx, argv[0], argv[1:]...)
	cmd.WaitDelay = DefaultWaitDelay
	if len(e.Env) > 0 {
		cmd.Env = append(os.Environ(), e.Env...)
	}
	stderr := &boundedBuffer{max: maxStderrBytes}
	cmd.Stderr = stderr

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)
	if runErr != nil {
		hardcopy.DiscardOutput(output)
		err := processFailure(ctx, cmdCtx, binary, runErr, stderr.String())
		logger.Errorf("hardcopy: %s render failed after %s: %v", req.Format, elapsed.Round(time.Millisecond), err)
		return hardcopy.Result{}, err
	}

	size, err := hardcopy.FinishOutput(output, binary)
	if err != nil {
		hardcopy.DiscardOutput(output)
		return hardcopy.Result{}, err
	}
	logger.Infof("hardcopy: rendered %s (%d bytes) in %s", req.Format, size, elapsed.Round(time.Millisecond))

	return hardcopy.Result{
		File:     output,
		Format:   req.Format,
		Size:     size,
		Args:     argv,
		Duration: elapsed,
	}, nil
}

func (e *ProcessEngine) logger() hardcopy.Logger {
	if e.Logger == nil {
		return hardcopy.NopLogger{}
	}
	return e.Logger
}

// materializeInput returns the renderer input path. Raw HTML is written to a
// temp file that cleanup removes.
func materializeInput(req hardcopy.Request, dir string) (string, func(), error) {
	if req.HTML == nil {
		if _, err := os.Stat(req.InputPath); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", nil, hardcopy.NewError(hardcopy.KindNotFound, "render input file not found", err)
			}
			return "", nil, fmt.Errorf("stat input file: %w", err)
		}
		return req.InputPath, func() {}, nil
	}

	input, err := os.CreateTemp(dir, "hardcopy-*.html")
	if err != nil {
		return "", nil, fmt.Errorf("create input file: %w", err)
	}
	cleanup := func() {
		_ = input.Close()
		_ = os.Remove(input.Name())
	}
	if _, err := input.Write(req.HTML); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("write input file: %w", err)
	}
	if err := input.Sync(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("flush input file: %w", err)
	}
	if err := input.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("close input file: %w", err)
	}
	return input.Name(), cleanup, nil
}

func processFailure(parent, cmdCtx context.Context, binary string, runErr error, stderr string) error {
	perr := newProcessError(binary, stderr, runErr)

	if parentErr := parent.Err(); parentErr != nil {
		if errors.Is(parentErr, context.DeadlineExceeded) {
			return hardcopy.NewError(hardcopy.KindTimeout, "render deadline exceeded", errors.Join(parentErr, perr))
		}
		return hardcopy.NewError(hardcopy.KindCanceled, "render canceled", errors.Join(parentErr, perr))
	}
	if errors.Is(cmdCtx.Err(), context.DeadlineExceeded) {
		return hardcopy.NewError(hardcopy.KindTimeout, "renderer timed out", errors.Join(context.DeadlineExceeded, perr))
	}
	return hardcopy.NewError(hardcopy.KindRenderProcess, "renderer failed", perr)
}

// newProcessError maps an exec.Cmd.Run error, keeping the exit code or
// signal when the process ran.
func newProcessError(binary, stderr string, err error) *hardcopy.ProcessError {
	perr := &hardcopy.ProcessError{Binary: binary, ExitCode: -1, Stderr: stderr, Err: err}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		perr.ExitCode = exitErr.ExitCode()
		if perr.ExitCode < 0 && exitErr.ProcessState != nil {
			perr.Signal = exitErr.ProcessState.String()
		}
	}
	return perr
}

type boundedBuffer struct {
	buf bytes.Buffer
	max int
}

func (b *boundedBuffer) Write(p []byte) (int, error) {
	if remaining := b.max - b.buf.Len(); remaining > 0 {
		if len(p) > remaining {
			b.buf.Write(p[:remaining])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

func (b *boundedBuffer) String() string {
	return b.buf.String()
}
