package input

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dshills/termflow/internal/event"
)

// reportTimeout bounds how long a device status request stays outstanding.
// Terminals answer these within a round trip; an unanswered request must not
// capture an unrelated sequence arriving much later.
const reportTimeout = 100 * time.Millisecond

var (
	cursorReportRe = regexp.MustCompile(`^\x1b\[(\d+);(\d+)R$`)
	colorReportRe  = regexp.MustCompile(`^\x1b\]1([01]);rgb:([0-9a-f]{4})/([0-9a-f]{4})/([0-9a-f]{4})(?:\x1b\\|\x07)$`)
	deviceAttrsRe  = regexp.MustCompile(`^\x1b\[\?([0-9;]+)c$`)
	geometryRe     = regexp.MustCompile(`^\x1b\[([46]);(\d+);(\d+)t$`)
)

// reportMatcher tracks outstanding device status requests so their responses
// can be told apart from identically-shaped key sequences (CSI 1;2R is both
// a cursor report and F3 with a modifier).
type reportMatcher struct {
	pending []time.Time
	now     func() time.Time
}

func newReportMatcher() *reportMatcher {
	return &reportMatcher{now: time.Now}
}

// expect records one outstanding request.
func (m *reportMatcher) expect() {
	m.pending = append(m.pending, m.now())
}

// outstanding prunes expired requests and reports whether any remain.
func (m *reportMatcher) outstanding() bool {
	now := m.now()
	for len(m.pending) > 0 && now.Sub(m.pending[0]) >= reportTimeout {
		m.pending = m.pending[1:]
	}
	return len(m.pending) > 0
}

// match tries to decode seq as a device status response, consuming one
// outstanding request on success.
func (m *reportMatcher) match(seq []byte) (event.Event, bool) {
	s := string(seq)

	if g := cursorReportRe.FindStringSubmatch(s); g != nil {
		row, _ := strconv.Atoi(g[1])
		col, _ := strconv.Atoi(g[2])
		m.consume()
		return event.CursorReportEvent{X: col - 1, Y: row - 1}, true
	}

	if g := colorReportRe.FindStringSubmatch(s); g != nil {
		r, _ := strconv.ParseUint(g[2][:2], 16, 8)
		gc, _ := strconv.ParseUint(g[3][:2], 16, 8)
		b, _ := strconv.ParseUint(g[4][:2], 16, 8)
		m.consume()
		return event.ColorReportEvent{
			Foreground: g[1] == "0",
			R:          uint8(r),
			G:          uint8(gc),
			B:          uint8(b),
		}, true
	}

	if g := deviceAttrsRe.FindStringSubmatch(s); g != nil {
		parts := strings.Split(g[1], ";")
		attrs := make([]int, 0, len(parts))
		for _, p := range parts {
			n, err := strconv.Atoi(p)
			if err != nil {
				return nil, false
			}
			attrs = append(attrs, n)
		}
		m.consume()
		return event.DeviceAttrsEvent{Attrs: attrs}, true
	}

	if g := geometryRe.FindStringSubmatch(s); g != nil {
		h, _ := strconv.Atoi(g[2])
		w, _ := strconv.Atoi(g[3])
		m.consume()
		return event.GeometryEvent{Cell: g[1] == "6", Width: w, Height: h}, true
	}

	return nil, false
}

func (m *reportMatcher) consume() {
	m.pending = m.pending[1:]
}
