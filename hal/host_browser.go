package hal

import (
	"io"
	"sync"

	"github.com/pkg/browser"
	"github.com/rs/zerolog"
)

// systemBrowser opens URLs with the desktop's default browser. The browser
// decides where its window goes, so the requested geometry is only logged.
type systemBrowser struct {
	log  zerolog.Logger
	open func(url string) error
}

func newSystemBrowser(log zerolog.Logger) systemBrowser {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	return systemBrowser{log: log, open: browser.OpenURL}
}

func (b systemBrowser) Open(req OpenRequest) error {
	b.log.Debug().
		Str("url", req.URL).
		Int("width", req.Width).
		Int("height", req.Height).
		Int("top", req.Top).
		Int("left", req.Left).
		Str("features", req.Features).
		Msg("opening browser; window geometry is not applied")
	return b.open(req.URL)
}

// RecordingBrowser keeps every request instead of opening it.
type RecordingBrowser struct {
	Log zerolog.Logger

	mu       sync.Mutex
	requests []OpenRequest
}

func (b *RecordingBrowser) Open(req OpenRequest) error {
	b.mu.Lock()
	b.requests = append(b.requests, req)
	b.mu.Unlock()
	b.Log.Info().Str("url", req.URL).Str("features", req.Features).Msg("navigation requested")
	return nil
}

// Requests returns a copy of the recorded requests.
func (b *RecordingBrowser) Requests() []OpenRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]OpenRequest(nil), b.requests...)
}
