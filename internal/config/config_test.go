package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewDefaults(t *testing.T) {
	o, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if o.EscapeTimeout != 50*time.Millisecond {
		t.Errorf("EscapeTimeout = %v, want 50ms", o.EscapeTimeout)
	}
	if !o.Mouse || !o.BracketedPaste || !o.FocusReporting || !o.AltScreen {
		t.Errorf("input features not enabled by default: %+v", o)
	}
}

func TestNewWithOptions(t *testing.T) {
	o, err := New(
		WithEscapeTimeout(20*time.Millisecond),
		WithMouse(false),
		WithColorDepth(Depth256),
		WithTitle("demo"),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if o.EscapeTimeout != 20*time.Millisecond {
		t.Errorf("EscapeTimeout = %v, want 20ms", o.EscapeTimeout)
	}
	if o.Mouse {
		t.Error("Mouse = true, want false")
	}
	if o.ColorDepth != Depth256 {
		t.Errorf("ColorDepth = %q, want %q", o.ColorDepth, Depth256)
	}
	if o.Title != "demo" {
		t.Errorf("Title = %q, want %q", o.Title, "demo")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  Option
		wantErr bool
	}{
		{"valid defaults", func(o *Options) {}, false},
		{"zero timeout", WithEscapeTimeout(0), true},
		{"negative timeout", WithEscapeTimeout(-time.Second), true},
		{"bad depth", WithColorDepth("32"), true},
		{"depth 16", WithColorDepth(Depth16), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Default()
			tt.mutate(&o)
			err := o.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TERMFLOW_ESCAPE_TIMEOUT", "120ms")
	t.Setenv("TERMFLOW_MOUSE", "false")
	t.Setenv("TERMFLOW_COLOR_DEPTH", "256")

	o, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if o.EscapeTimeout != 120*time.Millisecond {
		t.Errorf("EscapeTimeout = %v, want 120ms", o.EscapeTimeout)
	}
	if o.Mouse {
		t.Error("Mouse = true, want env override to false")
	}
	if o.ColorDepth != Depth256 {
		t.Errorf("ColorDepth = %q, want %q", o.ColorDepth, Depth256)
	}
}

func TestEnvOverrideInvalid(t *testing.T) {
	t.Setenv("TERMFLOW_ESCAPE_TIMEOUT", "soon")
	if _, err := New(); err == nil {
		t.Error("New() with bad duration env: want error")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "termflow.json")
	data := `{"escape_timeout": 30000000, "mouse": false, "color_depth": "16", "title": "from-file"}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	o, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if o.EscapeTimeout != 30*time.Millisecond {
		t.Errorf("EscapeTimeout = %v, want 30ms", o.EscapeTimeout)
	}
	if o.Mouse {
		t.Error("Mouse = true, want false from file")
	}
	if o.Title != "from-file" {
		t.Errorf("Title = %q, want %q", o.Title, "from-file")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("LoadFile() on missing file: want error")
	}
}

func TestDetectColorDepth(t *testing.T) {
	tests := []struct {
		name      string
		colorterm string
		term      string
		want      string
	}{
		{"colorterm truecolor", "truecolor", "xterm", DepthTrueColor},
		{"colorterm 24bit", "24bit", "xterm", DepthTrueColor},
		{"term direct", "", "xterm-direct", DepthTrueColor},
		{"term 256color", "", "xterm-256color", Depth256},
		{"plain", "", "vt100", Depth16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("COLORTERM", tt.colorterm)
			t.Setenv("TERM", tt.term)
			if got := DetectColorDepth(); got != tt.want {
				t.Errorf("DetectColorDepth() = %q, want %q", got, tt.want)
			}
		})
	}
}
