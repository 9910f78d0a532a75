// Package main is an interactive probe for the terminal engine: it opens a
// session, prints every decoded event to the screen, and exercises the
// device status requests. Press q or Ctrl+C to exit.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dshills/termflow/internal/config"
	"github.com/dshills/termflow/internal/event"
	"github.com/dshills/termflow/internal/render"
	"github.com/dshills/termflow/internal/session"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		showVersion = flag.Bool("version", false, "print version and exit")
		configPath  = flag.String("config", "", "path to a JSON config file")
		escTimeout  = flag.Duration("escape-timeout", 0, "escape disambiguation timeout")
		noMouse     = flag.Bool("no-mouse", false, "disable mouse reporting")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("termflow-events %s (%s)\n", version, commit)
		return 0
	}

	opts, err := buildOptions(*configPath, *escTimeout, *noMouse)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	opts.Title = "termflow events"
	s, err := session.Open(func(o *config.Options) { *o = opts })
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open terminal: %v\n", err)
		return 1
	}
	defer s.Stop()

	if err := probe(s); err != nil {
		s.Stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func buildOptions(path string, escTimeout time.Duration, noMouse bool) (config.Options, error) {
	var (
		opts config.Options
		err  error
	)
	if path != "" {
		opts, err = config.LoadFile(path)
	} else {
		opts, err = config.New()
	}
	if err != nil {
		return config.Options{}, err
	}
	if escTimeout > 0 {
		opts.EscapeTimeout = escTimeout
	}
	if noMouse {
		opts.Mouse = false
	}
	return opts, opts.Validate()
}

// probe runs the event loop: each decoded event is appended to a scrolling
// log on the session's grid until q or Ctrl+C arrives.
func probe(s *session.Session) error {
	header := render.DefaultStyle().Bold()
	body := render.DefaultStyle()

	_, rows := s.Size()
	s.Grid().SetContent(0, 0, "termflow event probe (q or Ctrl+C quits)", header)

	// Fire the status requests; the answers show up as events.
	s.RequestCursorPosition()
	s.RequestDeviceAttributes()
	s.RequestBackgroundColor()

	line := 2
	for {
		ev, err := s.NextEvent(context.Background())
		if err != nil {
			if errors.Is(err, session.ErrStopped) {
				return nil
			}
			return err
		}

		if quitKey(ev) {
			return nil
		}
		if re, ok := ev.(event.ResizeEvent); ok {
			rows = re.Rows
			line = 2
			s.Grid().SetContent(0, 0, "termflow event probe (q or Ctrl+C quits)", header)
		}

		if line >= rows {
			s.Grid().Clear()
			s.Grid().SetContent(0, 0, "termflow event probe (q or Ctrl+C quits)", header)
			line = 2
		}
		s.Grid().SetContent(0, line, ev.String(), body)
		line++

		if err := s.Flush(); err != nil {
			return err
		}
	}
}

// quitKey reports whether ev is q or Ctrl+C.
func quitKey(ev event.Event) bool {
	ke, ok := ev.(event.KeyEvent)
	if !ok {
		return false
	}
	if ke.IsRune() && ke.Rune == 'q' && ke.Mod == 0 {
		return true
	}
	return ke.IsRune() && ke.Rune == 'c' && ke.Mod.Has(event.ModCtrl)
}
