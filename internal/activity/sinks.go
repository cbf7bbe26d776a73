package activity

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// ConsoleSink prints entries as colored lines.
type ConsoleSink struct {
	mu     sync.Mutex
	w      io.Writer
	colors map[Kind]*color.Color
}

// NewConsoleSink writes to w. Color is disabled automatically when w is
// not a terminal (fatih/color checks NO_COLOR and the tty).
func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{
		w: w,
		colors: map[Kind]*color.Color{
			KindInfo:       color.New(color.FgCyan),
			KindSuccess:    color.New(color.FgGreen),
			KindError:      color.New(color.FgRed, color.Bold),
			KindProcessing: color.New(color.FgYellow),
			KindWarning:    color.New(color.FgMagenta),
		},
	}
}

// Write prints e.
func (c *ConsoleSink) Write(e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	col, ok := c.colors[e.Kind]
	if !ok {
		fmt.Fprintln(c.w, e.String())
		return
	}
	col.Fprintln(c.w, e.String())
}

// ZerologSink mirrors entries into a structured logger so file logs carry
// the same history as the screen.
type ZerologSink struct {
	l zerolog.Logger
}

// NewZerologSink logs through l.
func NewZerologSink(l zerolog.Logger) *ZerologSink {
	return &ZerologSink{l: l}
}

// Write logs e at a level matching its kind.
func (z *ZerologSink) Write(e Entry) {
	var ev *zerolog.Event
	switch e.Kind {
	case KindError:
		ev = z.l.Error()
	case KindWarning:
		ev = z.l.Warn()
	case KindProcessing:
		ev = z.l.Debug()
	default:
		ev = z.l.Info()
	}
	ev.Str("kind", string(e.Kind)).Str("entry", e.ID.String()).Msg(e.Message)
}
