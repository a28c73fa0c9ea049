package hardcopychrome

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/goliatone/go-hardcopy/hardcopy"
)

// CDPEngine renders through a shared headless Chromium driven over the
// DevTools protocol. The browser starts on first use and lives until Close.
type CDPEngine struct {
	Config   hardcopy.RendererConfig
	Headless bool
	Timeout  time.Duration
	Args     []string
	Logger   hardcopy.Logger

	initOnce      sync.Once
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// NewCDPEngine returns a headless CDP engine for cfg.
func NewCDPEngine(cfg hardcopy.RendererConfig) *CDPEngine {
	return &CDPEngine{Config: cfg, Headless: true}
}

// cdpPlan is the subset of renderer options the DevTools path understands.
type cdpPlan struct {
	viewport hardcopy.WindowSize
	budget   time.Duration
	ignored  []string
}

func planFromOptions(opts hardcopy.Options) (cdpPlan, error) {
	var plan cdpPlan
	for key, value := range opts {
		switch key {
		case hardcopy.OptionWindowSize:
			size, err := hardcopy.ParseWindowSize(value)
			if err != nil {
				return cdpPlan{}, err
			}
			plan.viewport = size
		case hardcopy.OptionVirtualTimeBudget:
			ms, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil || ms < 0 {
				return cdpPlan{}, hardcopy.NewError(hardcopy.KindValidation, fmt.Sprintf("invalid virtual time budget: %q", value), err)
			}
			plan.budget = time.Duration(ms) * time.Millisecond
		default:
			plan.ignored = append(plan.ignored, key)
		}
	}
	sort.Strings(plan.ignored)
	return plan, nil
}

// Render loads the request input in a fresh tab and captures it as a PDF
// or a viewport screenshot into output.
func (e *CDPEngine) Render(ctx context.Context, req hardcopy.Request, output *os.File) (hardcopy.Result, error) {
	if e == nil {
		return hardcopy.Result{}, hardcopy.NewError(hardcopy.KindInternal, "cdp engine is nil", nil)
	}
	req, err := req.Validate()
	if err != nil {
		return hardcopy.Result{}, err
	}
	if output == nil {
		return hardcopy.Result{}, hardcopy.NewError(hardcopy.KindValidation, "output file is required", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	plan, err := planFromOptions(req.EffectiveOptions(e.Config.WindowSize))
	if err != nil {
		return hardcopy.Result{}, err
	}
	logger := e.logger()
	if len(plan.ignored) > 0 {
		logger.Debugf("hardcopy: cdp engine ignores options %s", strings.Join(plan.ignored, ", "))
	}

	load, err := loadAction(req)
	if err != nil {
		return hardcopy.Result{}, err
	}

	if err := e.ensureBrowser(); err != nil {
		return hardcopy.Result{}, hardcopy.NewError(hardcopy.KindConfiguration, "chromium engine init failed", err)
	}

	tabCtx, cancel := chromedp.NewContext(e.browserCtx)
	defer cancel()

	execCtx, cancelReq := context.WithCancel(tabCtx)
	defer cancelReq()
	go func() {
		select {
		case <-ctx.Done():
			cancelReq()
		case <-execCtx.Done():
		}
	}()
	if e.Timeout > 0 {
		var cancelTimeout context.CancelFunc
		execCtx, cancelTimeout = context.WithTimeout(execCtx, e.Timeout)
		defer cancelTimeout()
	}

	var data []byte
	actions := []chromedp.Action{}
	if !plan.viewport.IsZero() {
		actions = append(actions, chromedp.EmulateViewport(int64(plan.viewport.Width), int64(plan.viewport.Height)))
	}
	actions = append(actions, load, chromedp.WaitReady("body", chromedp.ByQuery))
	if plan.budget > 0 {
		actions = append(actions, chromedp.Sleep(plan.budget))
	}
	if req.Format == hardcopy.FormatPNG {
		actions = append(actions, chromedp.CaptureScreenshot(&data))
	} else {
		actions = append(actions, chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			data = pdf
			return err
		}))
	}

	start := time.Now()
	if err := chromedp.Run(execCtx, actions...); err != nil {
		hardcopy.DiscardOutput(output)
		err = cdpFailure(ctx, execCtx, err)
		logger.Errorf("hardcopy: %s render failed after %s: %v", req.Format, time.Since(start).Round(time.Millisecond), err)
		return hardcopy.Result{}, err
	}
	elapsed := time.Since(start)

	hardcopy.DiscardOutput(output)
	if _, err := output.Write(data); err != nil {
		hardcopy.DiscardOutput(output)
		return hardcopy.Result{}, fmt.Errorf("write output file: %w", err)
	}
	size, err := hardcopy.FinishOutput(output, e.binaryName())
	if err != nil {
		hardcopy.DiscardOutput(output)
		return hardcopy.Result{}, err
	}
	logger.Infof("hardcopy: rendered %s (%d bytes) over cdp in %s", req.Format, size, elapsed.Round(time.Millisecond))

	return hardcopy.Result{
		File:     output,
		Format:   req.Format,
		Size:     size,
		Duration: elapsed,
	}, nil
}

// Close releases Chromium resources if they have been initialized.
func (e *CDPEngine) Close() error {
	if e == nil {
		return nil
	}
	if e.browserCancel != nil {
		e.browserCancel()
	}
	if e.allocCancel != nil {
		e.allocCancel()
	}
	return nil
}

func (e *CDPEngine) ensureBrowser() error {
	e.initOnce.Do(func() {
		options := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
		if path := strings.TrimSpace(e.Config.BinaryPath); path != "" {
			options = append(options, chromedp.ExecPath(path))
		}
		options = append(options, chromedp.Flag("headless", e.Headless))
		if size := e.Config.WindowSize; !size.IsZero() {
			options = append(options, chromedp.WindowSize(size.Width, size.Height))
		}
		options = append(options, allocatorFlags(e.Args)...)

		e.allocCtx, e.allocCancel = chromedp.NewExecAllocator(context.Background(), options...)
		e.browserCtx, e.browserCancel = chromedp.NewContext(e.allocCtx)
	})
	if e.allocCtx == nil || e.browserCtx == nil {
		return errors.New("chromium allocator unavailable")
	}
	return nil
}

func (e *CDPEngine) logger() hardcopy.Logger {
	if e.Logger == nil {
		return hardcopy.NopLogger{}
	}
	return e.Logger
}

func (e *CDPEngine) binaryName() string {
	if e.Config.BinaryPath != "" {
		return e.Config.BinaryPath
	}
	return "chromium"
}

func loadAction(req hardcopy.Request) (chromedp.Action, error) {
	if req.HTML == nil {
		if _, err := os.Stat(req.InputPath); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, hardcopy.NewError(hardcopy.KindNotFound, "render input file not found", err)
			}
			return nil, fmt.Errorf("stat input file: %w", err)
		}
		return chromedp.Navigate(FileURL(req.InputPath)), nil
	}
	html := string(req.HTML)
	return chromedp.Tasks{
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
	}, nil
}

func cdpFailure(parent, execCtx context.Context, err error) error {
	if parentErr := parent.Err(); parentErr != nil {
		if errors.Is(parentErr, context.DeadlineExceeded) {
			return hardcopy.NewError(hardcopy.KindTimeout, "render deadline exceeded", errors.Join(parentErr, err))
		}
		return hardcopy.NewError(hardcopy.KindCanceled, "render canceled", errors.Join(parentErr, err))
	}
	if errors.Is(execCtx.Err(), context.DeadlineExceeded) {
		return hardcopy.NewError(hardcopy.KindTimeout, "chromium render timed out", errors.Join(context.DeadlineExceeded, err))
	}
	return hardcopy.NewError(hardcopy.KindRenderProcess, "chromium render failed", err)
}

// allocatorFlags turns "--name=value" and "--name" strings into allocator
// flags.
func allocatorFlags(args []string) []chromedp.ExecAllocatorOption {
	options := make([]chromedp.ExecAllocatorOption, 0, len(args))
	for _, arg := range args {
		name, value, err := hardcopy.ParseOption(arg)
		if err != nil {
			continue
		}
		if value == "" && !strings.Contains(arg, "=") {
			options = append(options, chromedp.Flag(name, true))
			continue
		}
		options = append(options, chromedp.Flag(name, value))
	}
	return options
}
