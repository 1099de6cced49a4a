// Package progress renders a transient stderr indicator for the slow
// phases of a run: polling the bus during discovery and waiting for a
// device to come out of standby. The indicator erases itself when
// finished so it never ends up interleaved with the result output.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

const barWidth = 30

// Bar is a fixed-total progress indicator. The zero value is not
// usable; construct with NewBar.
type Bar struct {
	total      int
	current    int
	start      time.Time
	lastRender time.Time
	width      int
	out        io.Writer
	enabled    bool
	label      string
}

// NewBar returns an indicator for total steps, writing to stderr so it
// does not interfere with result output on stdout.
func NewBar(total int, label string) *Bar {
	return &Bar{
		total:   total,
		start:   time.Now(),
		out:     os.Stderr,
		enabled: true,
		label:   label,
	}
}

// Disable turns rendering off, for quiet or non-terminal runs.
func (b *Bar) Disable() { b.enabled = false }

// Increment advances the indicator by one step.
func (b *Bar) Increment() {
	b.current++
	b.render()
}

// Set moves the indicator to step n.
func (b *Bar) Set(n int) {
	b.current = n
	b.render()
}

// Finish erases the indicator line.
func (b *Bar) Finish() {
	if !b.enabled || b.width == 0 {
		return
	}
	fmt.Fprintf(b.out, "\r%s\r", strings.Repeat(" ", b.width))
}

func (b *Bar) render() {
	if !b.enabled {
		return
	}

	// Throttle so a fast loop does not spam the terminal.
	now := time.Now()
	if now.Sub(b.lastRender) < 100*time.Millisecond && b.current < b.total {
		return
	}
	b.lastRender = now

	var percent float64
	if b.total > 0 {
		percent = float64(b.current) / float64(b.total) * 100
	}
	filled := int(barWidth * percent / 100)
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("=", filled) + strings.Repeat("-", barWidth-filled)

	line := fmt.Sprintf("\r%s [%s] %d/%d (%s)",
		b.label, bar, b.current, b.total, formatDuration(time.Since(b.start)))
	if n := len(line); n > b.width {
		b.width = n
	}
	fmt.Fprint(b.out, line)
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
}
