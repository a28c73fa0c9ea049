package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/goliatone/go-hardcopy/config"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{name: "info at info level", level: log.InfoLevel, logFunc: func(l *log.Logger) { l.Info("test") }, wantLog: true},
		{name: "debug at info level", level: log.InfoLevel, logFunc: func(l *log.Logger) { l.Debug("test") }, wantLog: false},
		{name: "debugf at debug level", level: log.DebugLevel, logFunc: func(l *log.Logger) { l.Debugf("test %d", 1) }, wantLog: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("render completed")
	if !bytes.Contains(buf.Bytes(), []byte("render completed")) {
		t.Errorf("progress output should contain message, got %q", buf.String())
	}
}

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	if loggerFromContext(ctx) == nil {
		t.Fatal("loggerFromContext should fall back to the default logger")
	}
	if configFromContext(ctx).Server.Port != config.Defaults().Server.Port {
		t.Fatal("configFromContext should fall back to defaults")
	}

	logger := newLogger(&bytes.Buffer{}, log.InfoLevel)
	cfg := config.Defaults()
	cfg.Server.Port = "1234"
	ctx = withConfig(withLogger(ctx, logger), cfg)
	if loggerFromContext(ctx) != logger {
		t.Error("loggerFromContext should return the attached logger")
	}
	if configFromContext(ctx).Server.Port != "1234" {
		t.Error("configFromContext should return the attached config")
	}
}
