// Package config holds the engine's tunable options: escape disambiguation
// timing, which terminal features to enable, color depth, and the output
// character set. Options are resolved once at startup into an immutable
// snapshot; nothing reads configuration on the hot path.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Depth names accepted by ColorDepth.
const (
	DepthTrueColor = "truecolor"
	Depth256       = "256"
	Depth16        = "16"
)

// Options is the resolved engine configuration.
type Options struct {
	// EscapeTimeout is how long a lone ESC byte may wait for a
	// continuation before it is delivered as the Escape key.
	EscapeTimeout time.Duration `json:"escape_timeout"`

	// Mouse enables mouse event reporting.
	Mouse bool `json:"mouse"`

	// BracketedPaste wraps pasted text in paste markers so it arrives
	// as one opaque event.
	BracketedPaste bool `json:"bracketed_paste"`

	// FocusReporting enables focus gained/lost events.
	FocusReporting bool `json:"focus_reporting"`

	// AltScreen switches to the alternate screen buffer for the
	// session's lifetime.
	AltScreen bool `json:"alt_screen"`

	// HideCursor hides the text cursor while the session runs.
	HideCursor bool `json:"hide_cursor"`

	// ColorDepth selects the SGR color resolution: "truecolor", "256"
	// or "16".
	ColorDepth string `json:"color_depth"`

	// Charset names the output character encoding. Empty means UTF-8;
	// anything else is looked up in the encoding registry.
	Charset string `json:"charset"`

	// Title, when set, is written as the terminal window title at
	// session start.
	Title string `json:"title"`
}

// Default returns the options a plain interactive session wants: full
// input reporting, alternate screen, and color depth detected from the
// environment.
func Default() Options {
	return Options{
		EscapeTimeout:  50 * time.Millisecond,
		Mouse:          true,
		BracketedPaste: true,
		FocusReporting: true,
		AltScreen:      true,
		HideCursor:     false,
		ColorDepth:     DetectColorDepth(),
	}
}

// Option mutates an Options value during construction.
type Option func(*Options)

// New builds options from Default plus the given overrides, then applies
// environment overrides.
func New(opts ...Option) (Options, error) {
	o := Default()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.fromEnv(); err != nil {
		return Options{}, err
	}
	if err := o.Validate(); err != nil {
		return Options{}, err
	}
	return o, nil
}

// WithEscapeTimeout sets the escape disambiguation timeout.
func WithEscapeTimeout(d time.Duration) Option {
	return func(o *Options) { o.EscapeTimeout = d }
}

// WithMouse enables or disables mouse reporting.
func WithMouse(on bool) Option {
	return func(o *Options) { o.Mouse = on }
}

// WithBracketedPaste enables or disables bracketed paste.
func WithBracketedPaste(on bool) Option {
	return func(o *Options) { o.BracketedPaste = on }
}

// WithFocusReporting enables or disables focus reporting.
func WithFocusReporting(on bool) Option {
	return func(o *Options) { o.FocusReporting = on }
}

// WithAltScreen enables or disables the alternate screen buffer.
func WithAltScreen(on bool) Option {
	return func(o *Options) { o.AltScreen = on }
}

// WithHiddenCursor hides the cursor for the session's lifetime.
func WithHiddenCursor(on bool) Option {
	return func(o *Options) { o.HideCursor = on }
}

// WithColorDepth sets the SGR color resolution.
func WithColorDepth(depth string) Option {
	return func(o *Options) { o.ColorDepth = depth }
}

// WithCharset sets the output character encoding by name.
func WithCharset(name string) Option {
	return func(o *Options) { o.Charset = name }
}

// WithTitle sets the terminal window title.
func WithTitle(title string) Option {
	return func(o *Options) { o.Title = title }
}

// Validate rejects option values the engine cannot honor.
func (o Options) Validate() error {
	if o.EscapeTimeout <= 0 {
		return fmt.Errorf("escape timeout must be positive, got %v", o.EscapeTimeout)
	}
	switch o.ColorDepth {
	case DepthTrueColor, Depth256, Depth16:
	default:
		return fmt.Errorf("unknown color depth %q", o.ColorDepth)
	}
	return nil
}

// fromEnv applies TERMFLOW_* environment overrides.
func (o *Options) fromEnv() error {
	if v := os.Getenv("TERMFLOW_ESCAPE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TERMFLOW_ESCAPE_TIMEOUT: %w", err)
		}
		o.EscapeTimeout = d
	}
	for _, f := range []struct {
		env string
		dst *bool
	}{
		{"TERMFLOW_MOUSE", &o.Mouse},
		{"TERMFLOW_BRACKETED_PASTE", &o.BracketedPaste},
		{"TERMFLOW_FOCUS_REPORTING", &o.FocusReporting},
		{"TERMFLOW_ALT_SCREEN", &o.AltScreen},
		{"TERMFLOW_HIDE_CURSOR", &o.HideCursor},
	} {
		if v := os.Getenv(f.env); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", f.env, err)
			}
			*f.dst = b
		}
	}
	if v := os.Getenv("TERMFLOW_COLOR_DEPTH"); v != "" {
		o.ColorDepth = v
	}
	if v := os.Getenv("TERMFLOW_CHARSET"); v != "" {
		o.Charset = v
	}
	return nil
}

// LoadFile reads options from a JSON file and applies environment
// overrides on top.
func LoadFile(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("reading config: %w", err)
	}
	o := Default()
	if err := json.Unmarshal(data, &o); err != nil {
		return Options{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := o.fromEnv(); err != nil {
		return Options{}, err
	}
	if err := o.Validate(); err != nil {
		return Options{}, fmt.Errorf("config %s: %w", path, err)
	}
	return o, nil
}

// DetectColorDepth infers the supported color resolution from COLORTERM
// and TERM, the way most terminal applications do.
func DetectColorDepth() string {
	colorterm := os.Getenv("COLORTERM")
	if colorterm == "truecolor" || colorterm == "24bit" {
		return DepthTrueColor
	}
	term := os.Getenv("TERM")
	if strings.Contains(term, "direct") {
		return DepthTrueColor
	}
	if strings.Contains(term, "256color") {
		return Depth256
	}
	return Depth16
}
