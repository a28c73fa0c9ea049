package hardcopy

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Option names understood by the view layer and both engines.
const (
	OptionWindowSize        = "window-size"
	OptionVirtualTimeBudget = "virtual-time-budget"
)

var reservedOptions = map[string]struct{}{
	"print-to-pdf": {},
	"screenshot":   {},
}

// Options holds pass-through renderer flags keyed by name without leading
// dashes. An empty value renders as a bare flag.
type Options map[string]string

// Clone returns a copy of o. The copy is never nil.
func (o Options) Clone() Options {
	out := make(Options, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

// Has reports whether name is present.
func (o Options) Has(name string) bool {
	_, ok := o[normalizeOptionName(name)]
	return ok
}

// SetDefault sets name to value unless it is already present.
func (o Options) SetDefault(name, value string) {
	name = normalizeOptionName(name)
	if _, ok := o[name]; ok {
		return
	}
	o[name] = value
}

// Normalize strips leading dashes from keys and validates them.
func (o Options) Normalize() (Options, error) {
	out := make(Options, len(o))
	for rawKey, value := range o {
		key := normalizeOptionName(rawKey)
		if key == "" {
			return nil, NewError(KindValidation, "renderer option name is empty", nil)
		}
		if strings.ContainsAny(key, "= \t\r\n") {
			return nil, NewError(KindValidation, fmt.Sprintf("invalid renderer option name %q", rawKey), nil)
		}
		if _, reserved := reservedOptions[key]; reserved {
			return nil, NewError(KindValidation, fmt.Sprintf("renderer option %q is controlled by the output format", key), nil)
		}
		if _, dup := out[key]; dup {
			return nil, NewError(KindValidation, fmt.Sprintf("duplicate renderer option %q", key), nil)
		}
		out[key] = value
	}
	return out, nil
}

// Args renders options as --key or --key=value, sorted by key.
func (o Options) Args() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]string, 0, len(keys))
	for _, k := range keys {
		if v := o[k]; v != "" {
			args = append(args, "--"+k+"="+v)
			continue
		}
		args = append(args, "--"+k)
	}
	return args
}

// ParseOption parses "key=value" or "key" into a name and value.
func ParseOption(raw string) (string, string, error) {
	raw = strings.TrimSpace(raw)
	name, value, _ := strings.Cut(raw, "=")
	name = normalizeOptionName(name)
	if name == "" {
		return "", "", NewError(KindValidation, fmt.Sprintf("invalid renderer option %q", raw), nil)
	}
	return name, value, nil
}

func normalizeOptionName(name string) string {
	return strings.TrimLeft(strings.TrimSpace(name), "-")
}

// WindowSize is a viewport size in pixels.
type WindowSize struct {
	Width  int
	Height int
}

// DefaultWindowSize is used when no window size is configured.
var DefaultWindowSize = WindowSize{Width: 1280, Height: 720}

// IsZero reports whether either dimension is unset.
func (s WindowSize) IsZero() bool {
	return s.Width <= 0 || s.Height <= 0
}

// String renders the size in renderer flag form, "W,H".
func (s WindowSize) String() string {
	return strconv.Itoa(s.Width) + "," + strconv.Itoa(s.Height)
}

// ParseWindowSize accepts "W,H" or "WxH".
func ParseWindowSize(value string) (WindowSize, error) {
	value = strings.TrimSpace(value)
	sep := ","
	if !strings.Contains(value, sep) {
		sep = "x"
	}
	w, h, ok := strings.Cut(strings.ToLower(value), sep)
	if !ok {
		return WindowSize{}, NewError(KindValidation, fmt.Sprintf("invalid window size %q", value), nil)
	}
	width, err := strconv.Atoi(strings.TrimSpace(w))
	if err != nil {
		return WindowSize{}, NewError(KindValidation, fmt.Sprintf("invalid window width %q", w), err)
	}
	height, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return WindowSize{}, NewError(KindValidation, fmt.Sprintf("invalid window height %q", h), err)
	}
	size := WindowSize{Width: width, Height: height}
	if size.IsZero() {
		return WindowSize{}, NewError(KindValidation, fmt.Sprintf("window size must be positive, got %q", value), nil)
	}
	return size, nil
}
