package command

import (
	"io"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-hardcopy/hardcopy"
)

// RenderDocument renders HTML bytes or an HTML file into Output or
// OutputPath.
type RenderDocument struct {
	Format     hardcopy.Format
	HTML       []byte
	InputPath  string
	Options    hardcopy.Options
	WindowSize hardcopy.WindowSize

	Output     io.Writer
	OutputPath string

	Result *RenderOutcome
}

// RenderOutcome reports a finished render.
type RenderOutcome struct {
	Format     hardcopy.Format `json:"format"`
	OutputPath string          `json:"output_path,omitempty"`
	Size       int64           `json:"size"`
	Duration   time.Duration   `json:"duration"`
}

func (RenderDocument) Type() string { return "hardcopy:render" }

func (msg RenderDocument) Validate() error {
	if strings.TrimSpace(string(msg.Format)) == "" {
		return errors.New("format is required", errors.CategoryValidation).
			WithTextCode("FORMAT_REQUIRED")
	}
	if !hardcopy.NormalizeFormat(msg.Format).Valid() {
		return errors.New("format must be pdf or png", errors.CategoryValidation).
			WithTextCode("FORMAT_UNSUPPORTED")
	}
	if (msg.HTML == nil) == (msg.InputPath == "") {
		return errors.New("exactly one of html or input path is required", errors.CategoryValidation).
			WithTextCode("INPUT_REQUIRED")
	}
	if (msg.Output == nil) == (msg.OutputPath == "") {
		return errors.New("exactly one of output or output path is required", errors.CategoryValidation).
			WithTextCode("OUTPUT_REQUIRED")
	}
	return nil
}
