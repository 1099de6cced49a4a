package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestNewBar(t *testing.T) {
	b := NewBar(15, "Polling")
	if b.total != 15 {
		t.Errorf("total = %d, want 15", b.total)
	}
	if b.current != 0 {
		t.Errorf("current = %d, want 0", b.current)
	}
	if !b.enabled {
		t.Error("should be enabled by default")
	}
	if b.label != "Polling" {
		t.Errorf("label = %q, want %q", b.label, "Polling")
	}
}

func TestBarDisable(t *testing.T) {
	b := NewBar(10, "test")
	var buf bytes.Buffer
	b.out = &buf

	b.Disable()
	b.lastRender = time.Time{} // force render
	b.Set(5)
	if buf.Len() > 0 {
		t.Error("disabled bar should not produce output")
	}
	b.Finish()
	if buf.Len() > 0 {
		t.Error("disabled bar should not produce output on Finish")
	}
}

func TestBarRender(t *testing.T) {
	b := NewBar(10, "Polling")
	var buf bytes.Buffer
	b.out = &buf
	b.lastRender = time.Time{} // force render

	b.Increment()
	if b.current != 1 {
		t.Errorf("current = %d, want 1", b.current)
	}
	out := buf.String()
	if !strings.Contains(out, "Polling") {
		t.Errorf("render should contain label, got %q", out)
	}
	if !strings.Contains(out, "1/10") {
		t.Errorf("render should contain step count, got %q", out)
	}
}

func TestBarFullAtTotal(t *testing.T) {
	b := NewBar(4, "")
	var buf bytes.Buffer
	b.out = &buf

	// A bar at its total renders unthrottled and completely filled.
	b.Set(4)
	out := buf.String()
	if !strings.Contains(out, strings.Repeat("=", barWidth)) {
		t.Errorf("bar should be full at total, got %q", out)
	}
}

func TestBarFinishErasesLine(t *testing.T) {
	b := NewBar(10, "wake")
	var buf bytes.Buffer
	b.out = &buf
	b.lastRender = time.Time{}

	b.Increment()
	width := b.width
	if width == 0 {
		t.Fatal("render should record the line width")
	}

	buf.Reset()
	b.Finish()
	out := buf.String()
	if !strings.HasPrefix(out, "\r") || !strings.HasSuffix(out, "\r") {
		t.Errorf("Finish should return the cursor, got %q", out)
	}
	if !strings.Contains(out, strings.Repeat(" ", width)) {
		t.Errorf("Finish should blank the rendered width, got %q", out)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Millisecond, "500ms"},
		{1500 * time.Millisecond, "1.5s"},
		{90 * time.Second, "1m30s"},
	}
	for _, tc := range cases {
		if got := formatDuration(tc.d); got != tc.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}
