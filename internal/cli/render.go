package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-hardcopy/command"
	"github.com/goliatone/go-hardcopy/config"
	"github.com/goliatone/go-hardcopy/hardcopy"
)

// renderOpts holds the render command flags.
type renderOpts struct {
	format     string        // pdf or png
	output     string        // output path, "-" for stdout
	windowSize string        // W,H or WxH
	options    []string      // pass-through renderer options, key[=value]
	engine     string        // process or cdp, overrides config
	timeout    time.Duration // overrides config when non-zero
	chrome     string        // renderer binary, overrides config
}

func newRenderCmd(d deps) *cobra.Command {
	opts := renderOpts{format: string(hardcopy.FormatPDF)}

	cmd := &cobra.Command{
		Use:   "render <input.html|->",
		Short: "Render an HTML file, or stdin, to PDF or PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, d, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: pdf or png")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, - for stdout")
	cmd.Flags().StringVar(&opts.windowSize, "window-size", "", "viewport size, e.g. 1920,1080")
	cmd.Flags().StringArrayVar(&opts.options, "opt", nil, "renderer option key[=value], repeatable")
	cmd.Flags().StringVar(&opts.engine, "engine", "", "renderer engine: process or cdp")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "render timeout")
	cmd.Flags().StringVar(&opts.chrome, "chrome", "", "path to the Chrome or Chromium binary")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runRender(cmd *cobra.Command, d deps, input string, opts renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	cfg := opts.apply(configFromContext(ctx))
	if err := cfg.Validate(); err != nil {
		return err
	}

	msg, err := opts.message(cmd, input)
	if err != nil {
		return err
	}
	if err := msg.Validate(); err != nil {
		return err
	}

	engine, release, err := d.newEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := release(); err != nil {
			logger.Warn("release engine", "err", err)
		}
	}()

	subs, err := command.RegisterHandlers(nil, engine, cfg.Renderer.TempDir)
	if err != nil {
		return err
	}
	defer func() {
		for _, sub := range subs {
			sub.Unsubscribe()
		}
	}()

	prog := newProgress(logger)
	outcome, err := dispatcher.DispatchWithResult[command.RenderDocument, command.RenderOutcome](ctx, msg)
	if err != nil {
		return err
	}
	target := outcome.OutputPath
	if target == "" {
		target = "stdout"
	}
	prog.done(fmt.Sprintf("Rendered %s to %s (%d bytes)", outcome.Format, target, outcome.Size))
	return nil
}

func (o renderOpts) apply(cfg config.Config) config.Config {
	if o.engine != "" {
		cfg.Renderer.Engine = strings.ToLower(strings.TrimSpace(o.engine))
	}
	if o.timeout > 0 {
		cfg.Renderer.Timeout = config.Duration{Duration: o.timeout}
	}
	if o.chrome != "" {
		cfg.Renderer.ChromePath = o.chrome
	}
	return cfg
}

func (o renderOpts) message(cmd *cobra.Command, input string) (command.RenderDocument, error) {
	msg := command.RenderDocument{Format: hardcopy.Format(o.format)}

	if input == "-" {
		html, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return command.RenderDocument{}, fmt.Errorf("read stdin: %w", err)
		}
		msg.HTML = html
	} else {
		msg.InputPath = input
	}

	if o.output == "-" {
		msg.Output = cmd.OutOrStdout()
	} else {
		msg.OutputPath = o.output
	}

	if o.windowSize != "" {
		size, err := hardcopy.ParseWindowSize(o.windowSize)
		if err != nil {
			return command.RenderDocument{}, err
		}
		msg.WindowSize = size
	}

	if len(o.options) > 0 {
		msg.Options = hardcopy.Options{}
		for _, raw := range o.options {
			name, value, err := hardcopy.ParseOption(raw)
			if err != nil {
				return command.RenderDocument{}, err
			}
			if msg.Options.Has(name) {
				return command.RenderDocument{}, hardcopy.NewError(hardcopy.KindValidation, fmt.Sprintf("duplicate renderer option %q", name), nil)
			}
			msg.Options[name] = value
		}
	}
	return msg, nil
}
