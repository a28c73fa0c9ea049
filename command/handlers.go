package command

import (
	"context"
	"fmt"
	"io"
	"os"

	gcmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-hardcopy/hardcopy"
)

// RenderDocumentHandler renders documents with an engine.
type RenderDocumentHandler struct {
	Engine  hardcopy.Engine
	TempDir string
}

func NewRenderDocumentHandler(engine hardcopy.Engine) *RenderDocumentHandler {
	return &RenderDocumentHandler{Engine: engine}
}

func (h *RenderDocumentHandler) Execute(ctx context.Context, msg RenderDocument) error {
	if h == nil || h.Engine == nil {
		return errors.New("render engine is required", errors.CategoryInternal).
			WithTextCode("ENGINE_REQUIRED")
	}
	if err := msg.Validate(); err != nil {
		return err
	}

	result, err := hardcopy.RenderToTemp(ctx, h.Engine, hardcopy.Request{
		Format:     msg.Format,
		HTML:       msg.HTML,
		InputPath:  msg.InputPath,
		Options:    msg.Options,
		WindowSize: msg.WindowSize,
	}, h.TempDir)
	if err != nil {
		return err
	}
	defer result.Close()

	if msg.Output != nil {
		if _, err := io.Copy(msg.Output, result.File); err != nil {
			return fmt.Errorf("write rendered document: %w", err)
		}
	} else if err := copyToPath(msg.OutputPath, result.File); err != nil {
		return err
	}

	outcome := RenderOutcome{
		Format:     result.Format,
		OutputPath: msg.OutputPath,
		Size:       result.Size,
		Duration:   result.Duration,
	}
	if msg.Result != nil {
		*msg.Result = outcome
	}
	if res := gcmd.ResultFromContext[RenderOutcome](ctx); res != nil {
		res.Store(outcome)
	}
	return nil
}

// copyToPath writes r to path, removing the partial file on failure.
func copyToPath(path string, r io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := io.Copy(dst, r); err != nil {
		_ = dst.Close()
		_ = os.Remove(path)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
