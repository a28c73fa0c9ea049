package hardcopytemplate

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-hardcopy/hardcopy"
)

func writeTemplate(t *testing.T, dir, name, body string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write template: %v", err)
	}
}

func TestPongo2Executor_Execute(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "base.html", "<html><body>{% block content %}{% endblock %}</body></html>")
	writeTemplate(t, dir, "invoices/invoice.html", `{% extends "base.html" %}{% block content %}<h1>{{ title|upper }}</h1>{% for line in lines %}<p>{{ line }}</p>{% endfor %}{% endblock %}`)

	executor, err := NewPongo2Executor(dir)
	if err != nil {
		t.Fatalf("new executor: %v", err)
	}

	var buf bytes.Buffer
	err = executor.ExecuteTemplate(&buf, "invoices/invoice.html", map[string]any{
		"title": "invoice",
		"lines": []string{"a", "b"},
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	want := "<html><body><h1>INVOICE</h1><p>a</p><p>b</p></body></html>"
	if buf.String() != want {
		t.Fatalf("expected %q, got %q", want, buf.String())
	}
}

func TestPongo2Executor_NonMapData(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "report.html", "{{ data.Name }}")

	executor, err := NewPongo2Executor(dir)
	if err != nil {
		t.Fatalf("new executor: %v", err)
	}
	var buf bytes.Buffer
	if err := executor.ExecuteTemplate(&buf, "report.html", struct{ Name string }{Name: "weekly"}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if buf.String() != "weekly" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestPongo2Executor_Names(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "ok.html", "ok")
	executor, err := NewPongo2Executor(dir)
	if err != nil {
		t.Fatalf("new executor: %v", err)
	}

	if err := executor.ExecuteTemplate(io.Discard, "missing.html", nil); !hardcopy.IsKind(err, hardcopy.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	for _, name := range []string{"", "../secret.html", "/etc/passwd"} {
		if err := executor.ExecuteTemplate(io.Discard, name, nil); !hardcopy.IsKind(err, hardcopy.KindValidation) {
			t.Fatalf("%q: expected validation error, got %v", name, err)
		}
	}
}

func TestNewPongo2Executor_BadDir(t *testing.T) {
	if _, err := NewPongo2Executor(""); !hardcopy.IsKind(err, hardcopy.KindConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if _, err := NewPongo2Executor(filepath.Join(t.TempDir(), "nope")); !hardcopy.IsKind(err, hardcopy.KindConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestRender_Limits(t *testing.T) {
	tmpl := ExecutorFunc(func(w io.Writer, name string, data any) error {
		_, err := io.WriteString(w, strings.Repeat("x", 64))
		return err
	})

	out, err := Render(context.Background(), tmpl, "page.html", nil, 128)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(out) != 64 {
		t.Fatalf("expected 64 bytes, got %d", len(out))
	}

	if _, err := Render(context.Background(), tmpl, "page.html", nil, 16); !hardcopy.IsKind(err, hardcopy.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := Render(context.Background(), nil, "page.html", nil, 0); !hardcopy.IsKind(err, hardcopy.KindConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Render(ctx, tmpl, "page.html", nil, 0); err == nil {
		t.Fatalf("expected canceled context to stop render")
	}
}
