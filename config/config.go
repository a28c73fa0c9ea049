// Package config holds the hardcopy command configuration: defaults, an
// optional TOML file and environment overrides, applied in that order.
package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/goliatone/go-hardcopy/hardcopy"
)

const (
	EngineProcess = "process"
	EngineCDP     = "cdp"
)

// Config is the top-level configuration.
type Config struct {
	Renderer RendererConfig `toml:"renderer"`
	Server   ServerConfig   `toml:"server"`
	View     ViewConfig     `toml:"view"`
}

// RendererConfig selects and locates the renderer.
type RendererConfig struct {
	Engine     string   `toml:"engine"`
	ChromePath string   `toml:"chrome_path"`
	WindowSize string   `toml:"window_size"`
	Timeout    Duration `toml:"timeout"`
	TempDir    string   `toml:"temp_dir"`
	Headless   bool     `toml:"headless"`
	Args       []string `toml:"args"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string `toml:"host"`
	Port    string `toml:"port"`
	AppName string `toml:"app_name"`
}

// ViewConfig holds defaults for the served views.
type ViewConfig struct {
	TemplateDir        string            `toml:"template_dir"`
	DownloadAttachment bool              `toml:"download_attachment"`
	VirtualTimeBudget  int               `toml:"virtual_time_budget"`
	MaxBufferBytes     int64             `toml:"max_buffer_bytes"`
	Options            map[string]string `toml:"options"`
}

// Duration decodes "30s" style strings, or a bare integer as seconds.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := parseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config with usable defaults.
func Defaults() Config {
	return Config{
		Renderer: RendererConfig{
			Engine:   EngineProcess,
			Timeout:  Duration{Duration: 60 * time.Second},
			Headless: true,
		},
		Server: ServerConfig{
			Host:    "localhost",
			Port:    "8080",
			AppName: "hardcopy",
		},
		View: ViewConfig{
			TemplateDir: "./templates",
		},
	}
}

// Load returns the defaults overlaid with the TOML file at path. An empty
// path returns the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, hardcopy.NewError(hardcopy.KindConfiguration, fmt.Sprintf("read config %s", path), err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		sort.Strings(keys)
		return Config{}, hardcopy.NewError(hardcopy.KindConfiguration, fmt.Sprintf("unknown config keys in %s: %s", path, strings.Join(keys, ", ")), nil)
	}
	return cfg, nil
}

// ApplyEnv applies environment overrides. lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(key string) (string, bool) {
		value, ok := lookup(key)
		value = strings.TrimSpace(value)
		return value, ok && value != ""
	}

	if v, ok := get("HARDCOPY_CHROME_PATH"); ok {
		c.Renderer.ChromePath = v
	}
	if v, ok := get("HARDCOPY_WINDOW_SIZE"); ok {
		c.Renderer.WindowSize = v
	}
	if v, ok := get("HARDCOPY_ENGINE"); ok {
		c.Renderer.Engine = strings.ToLower(v)
	}
	if v, ok := get("HARDCOPY_TIMEOUT"); ok {
		timeout, err := parseDuration(v)
		if err != nil {
			return envError("HARDCOPY_TIMEOUT", v, err)
		}
		c.Renderer.Timeout = Duration{Duration: timeout}
	}
	if v, ok := get("HARDCOPY_TEMP_DIR"); ok {
		c.Renderer.TempDir = v
	}
	if v, ok := get("HARDCOPY_TEMPLATE_DIR"); ok {
		c.View.TemplateDir = v
	}
	if v, ok := get("HARDCOPY_DOWNLOAD_ATTACHMENT"); ok {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return envError("HARDCOPY_DOWNLOAD_ATTACHMENT", v, err)
		}
		c.View.DownloadAttachment = parsed
	}
	if v, ok := get("HARDCOPY_VIRTUAL_TIME_BUDGET"); ok {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return envError("HARDCOPY_VIRTUAL_TIME_BUDGET", v, err)
		}
		c.View.VirtualTimeBudget = parsed
	}
	if v, ok := get("HOST"); ok {
		c.Server.Host = v
	}
	if v, ok := get("PORT"); ok {
		c.Server.Port = v
	}
	return nil
}

// ResolveOptions converts the renderer section into resolver overrides.
func (c Config) ResolveOptions() (hardcopy.ResolveOptions, error) {
	opts := hardcopy.ResolveOptions{BinaryPath: strings.TrimSpace(c.Renderer.ChromePath)}
	if strings.TrimSpace(c.Renderer.WindowSize) != "" {
		size, err := hardcopy.ParseWindowSize(c.Renderer.WindowSize)
		if err != nil {
			return hardcopy.ResolveOptions{}, err
		}
		opts.WindowSize = size
	}
	return opts, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.Renderer.Engine {
	case EngineProcess, EngineCDP:
	default:
		return hardcopy.NewError(hardcopy.KindConfiguration, fmt.Sprintf("unknown renderer engine %q", c.Renderer.Engine), nil)
	}
	if _, err := c.ResolveOptions(); err != nil {
		return err
	}
	if c.Renderer.Timeout.Duration < 0 {
		return hardcopy.NewError(hardcopy.KindConfiguration, "renderer timeout must not be negative", nil)
	}
	if c.View.VirtualTimeBudget < 0 {
		return hardcopy.NewError(hardcopy.KindConfiguration, "virtual time budget must not be negative", nil)
	}
	if c.View.MaxBufferBytes < 0 {
		return hardcopy.NewError(hardcopy.KindConfiguration, "max buffer bytes must not be negative", nil)
	}
	if _, err := hardcopy.Options(c.View.Options).Normalize(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Server.Port) == "" {
		return hardcopy.NewError(hardcopy.KindConfiguration, "server port is required", nil)
	}
	return nil
}

// Addr is the server listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func parseDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	return time.ParseDuration(value)
}

func envError(key, value string, err error) error {
	return hardcopy.NewError(hardcopy.KindConfiguration, fmt.Sprintf("invalid %s value %q", key, value), err)
}
