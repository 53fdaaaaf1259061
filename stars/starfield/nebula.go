package starfield

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"constellations/stars/quarkgl"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const maxTextureBytes = 16 << 20

// nebulaTag is the user data of the nebula sprite. It carries no site.
type nebulaTag struct{}

// NewNebula returns the backdrop billboard for a decoded texture.
func NewNebula(tex image.Image) *quarkgl.Sprite {
	return &quarkgl.Sprite{
		Position: quarkgl.V3(-40, 20, -70),
		Width:    100,
		Height:   100,
		Texture:  tex,
		Tint:     quarkgl.RGB(0xFF, 0xFF, 0xFF),
		Opacity:  0.6,
		UserData: nebulaTag{},
	}
}

// LoadTexture reads and decodes an image from a file path or an http(s) URL.
func LoadTexture(ctx context.Context, client *http.Client, source string) (image.Image, error) {
	if source == "" {
		return nil, fmt.Errorf("starfield: empty texture source")
	}
	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		data, err = fetch(ctx, client, source)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("starfield: read %s: %w", source, err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("starfield: decode %s: %w", source, err)
	}
	return img, nil
}

func fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxTextureBytes))
}

// LoadAsync decodes the texture in a goroutine. The channel yields at most
// one image and is then closed; failures are logged and yield nothing.
func LoadAsync(ctx context.Context, client *http.Client, source string, log zerolog.Logger) <-chan image.Image {
	out := make(chan image.Image, 1)
	go func() {
		defer close(out)
		img, err := LoadTexture(ctx, client, source)
		if err != nil {
			log.Warn().Err(err).Str("source", source).Msg("nebula unavailable")
			return
		}
		log.Debug().Str("source", source).Msg("nebula loaded")
		out <- img
	}()
	return out
}

// WatchTexture reloads a local texture file whenever it is written and sends
// the decoded image. The channel is closed when ctx ends.
func WatchTexture(ctx context.Context, path string, log zerolog.Logger) (<-chan image.Image, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("starfield: watch: %w", err)
	}
	// Editors replace files, so watch the directory.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("starfield: watch %s: %w", path, err)
	}

	out := make(chan image.Image, 1)
	go func() {
		defer close(out)
		defer fsw.Close()

		const debounce = 100 * time.Millisecond
		var (
			timer  *time.Timer
			reload <-chan time.Time
		)
		want := filepath.Clean(path)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-fsw.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != want || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.NewTimer(debounce)
				reload = timer.C
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Msg("texture watcher")
			case <-reload:
				reload = nil
				img, err := LoadTexture(ctx, nil, path)
				if err != nil {
					log.Warn().Err(err).Str("source", path).Msg("nebula reload failed")
					continue
				}
				select {
				case out <- img:
				default:
					// Drop the stale image so the newest one wins.
					select {
					case <-out:
					default:
					}
					out <- img
				}
			}
		}
	}()
	return out, nil
}
