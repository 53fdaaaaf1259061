package hal

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func drain(ch <-chan PointerEvent) []PointerEvent {
	var out []PointerEvent
	for {
		select {
		case ev := <-ch:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestPointerUpdate(t *testing.T) {
	p := newHostPointer()

	p.update(10, 10, 100, 100, false, 0)
	p.update(10, 10, 100, 100, false, 0)
	p.update(10, 10, 100, 100, true, 0)
	p.update(12, 10, 100, 100, true, 0)
	p.update(12, 10, 100, 100, false, 0)
	p.update(12, 10, 100, 100, false, 1)
	p.update(-1, 10, 100, 100, false, 0)
	p.update(-2, 10, 100, 100, false, 0)

	got := drain(p.Events())
	want := []PointerKind{PointerMove, PointerDown, PointerMove, PointerUp, PointerWheel, PointerLeave}
	if len(got) != len(want) {
		t.Fatalf("events = %+v, want kinds %v", got, want)
	}
	for i, k := range want {
		if got[i].Kind != k {
			t.Fatalf("event %d kind = %d, want %d", i, got[i].Kind, k)
		}
	}
	if got[2].X != 12 || got[4].Wheel != 1 {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestPointerDropsWhenFull(t *testing.T) {
	p := newHostPointer()
	for i := 0; i < 200; i++ {
		p.update(i%50, 1, 100, 100, false, 0)
	}
	if n := len(drain(p.Events())); n != 64 {
		t.Fatalf("queued %d events, want 64", n)
	}
}

func TestFramebufferResize(t *testing.T) {
	fb := newHostFramebuffer(4, 2)
	if fb.StrideBytes() != 8 || len(fb.Buffer()) != 16 {
		t.Fatalf("stride=%d len=%d", fb.StrideBytes(), len(fb.Buffer()))
	}
	if fb.resize(4, 2) {
		t.Fatal("same size reported as changed")
	}
	if !fb.resize(3, 3) {
		t.Fatal("resize not reported")
	}
	if fb.Width() != 3 || fb.Height() != 3 || len(fb.Buffer()) != 18 {
		t.Fatalf("after resize: %dx%d len=%d", fb.Width(), fb.Height(), len(fb.Buffer()))
	}
	fb.resize(0, -5)
	if fb.Width() != 1 || fb.Height() != 1 {
		t.Fatalf("degenerate size not clamped: %dx%d", fb.Width(), fb.Height())
	}
}

func TestFramebufferToRGBA(t *testing.T) {
	fb := newHostFramebuffer(2, 1)
	fb.ClearRGB(0xFF, 0, 0xFF)
	dst := make([]byte, 8)
	fb.toRGBA(dst)
	want := []byte{0xFF, 0, 0xFF, 0xFF, 0xFF, 0, 0xFF, 0xFF}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst = %v, want %v", dst, want)
		}
	}
}

func TestHostTimeNeverGoesBack(t *testing.T) {
	start := time.Unix(100, 0)
	c := newHostTime(start)
	c.set(start.Add(-time.Second))
	if !c.Now().Equal(start) {
		t.Fatalf("clock moved back to %v", c.Now())
	}
	c.step(time.Second)
	if !c.Now().Equal(start.Add(time.Second)) {
		t.Fatalf("step: %v", c.Now())
	}
}

func TestRunHeadlessStopsAfterTicks(t *testing.T) {
	cfg := HeadlessConfig{
		Hz:           1000,
		Ticks:        5,
		ScreenWidth:  1920,
		ScreenHeight: 1080,
		Script: map[uint64][]PointerEvent{
			2: {{Kind: PointerMove, X: 3, Y: 4}},
		},
	}

	var (
		steps int
		moves int
		first time.Time
		last  time.Time
	)
	err := RunHeadless(context.Background(), cfg, zerolog.Nop(), func(h HAL) (func() error, error) {
		if w, ht := h.Screen().Size(); w != 1920 || ht != 1080 {
			t.Errorf("screen = %dx%d", w, ht)
		}
		if _, err := h.Audio().Open(44100); !errors.Is(err, ErrNotImplemented) {
			t.Errorf("audio open err = %v", err)
		}
		return func() error {
			steps++
			now := h.Clock().Now()
			if first.IsZero() {
				first = now
			}
			last = now
			moves += len(drain(h.Input().Pointer().Events()))
			return nil
		}, nil
	})
	if err != nil {
		t.Fatalf("RunHeadless: %v", err)
	}
	if steps != 5 || moves != 1 {
		t.Fatalf("steps=%d moves=%d", steps, moves)
	}
	if got := last.Sub(first); got != 4*time.Millisecond {
		t.Fatalf("clock advanced %v over 5 ticks", got)
	}
}

func TestRunHeadlessPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	err := RunHeadless(context.Background(), HeadlessConfig{Hz: 1000}, zerolog.Nop(), func(HAL) (func() error, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}

	err = RunHeadless(context.Background(), HeadlessConfig{Hz: 1000}, zerolog.Nop(), func(HAL) (func() error, error) {
		return func() error { return boom }, nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("step err = %v", err)
	}
}

func TestRecordingBrowser(t *testing.T) {
	b := &RecordingBrowser{Log: zerolog.Nop()}
	if err := b.Open(OpenRequest{URL: "http://x", Features: "width=1"}); err != nil {
		t.Fatal(err)
	}
	reqs := b.Requests()
	if len(reqs) != 1 || reqs[0].URL != "http://x" {
		t.Fatalf("requests = %+v", reqs)
	}
}

func TestSystemBrowserLogsGeometry(t *testing.T) {
	var logs bytes.Buffer
	var opened []string
	b := systemBrowser{
		log:  zerolog.New(&logs).Level(zerolog.DebugLevel),
		open: func(url string) error { opened = append(opened, url); return nil },
	}
	req := OpenRequest{URL: "http://x", Width: 1536, Height: 864, Top: 108, Left: 192, Features: "width=1536"}
	if err := b.Open(req); err != nil {
		t.Fatal(err)
	}
	if len(opened) != 1 || opened[0] != "http://x" {
		t.Fatalf("opened = %v", opened)
	}
	for _, want := range []string{`"width":1536`, `"height":864`, `"top":108`, `"left":192`} {
		if !strings.Contains(logs.String(), want) {
			t.Fatalf("log %s lacks %s", logs.String(), want)
		}
	}

	b.open = func(string) error { return errors.New("no browser") }
	if err := b.Open(req); err == nil {
		t.Fatal("expected open error")
	}
}
