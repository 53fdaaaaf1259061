package starfield

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"constellations/stars/catalog"
	"constellations/stars/interact"
	"constellations/stars/quarkgl"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSites() []catalog.Site {
	return []catalog.Site{
		{Name: "A", URL: "https://a.example", Description: "first"},
		{Name: "B", URL: "https://b.example", Description: "second"},
		{Name: "C", URL: "https://c.example", Description: "third"},
	}
}

func noSparkles() Options {
	o := DefaultOptions()
	o.SparkleCount = 0
	return o
}

func TestOneMarkerPerSite(t *testing.T) {
	sites, err := catalog.Default()
	require.NoError(t, err)

	f, err := New(sites, rand.New(rand.NewSource(7)), DefaultOptions())
	require.NoError(t, err)
	require.Len(t, f.Markers, len(sites))
	assert.Equal(t, len(sites), f.Scene.MeshCount())

	seen := map[string]bool{}
	ids := map[string]bool{}
	for _, m := range f.Markers {
		site, ok := m.Record()
		require.True(t, ok)
		assert.False(t, seen[site.Name], "duplicate record %q", site.Name)
		seen[site.Name] = true
		assert.Equal(t, m.ID.String(), m.Key())
		ids[m.Key()] = true

		for _, v := range []float32{m.Position.X, m.Position.Y, m.Position.Z} {
			assert.GreaterOrEqual(t, v, float32(-30))
			assert.LessOrEqual(t, v, float32(30))
		}
		assert.Equal(t, float32(1), m.Scale())
	}
	assert.Len(t, seen, len(sites))
	assert.Len(t, ids, len(sites))
}

func TestCenterRayHitsMarkerAtOrigin(t *testing.T) {
	f, err := New(testSites()[:1], rand.New(rand.NewSource(1)), noSparkles())
	require.NoError(t, err)
	m := f.Markers[0]
	m.Position = quarkgl.V3(0, 0, 0)
	m.SetScale(1)
	f.SetAspect(960, 640)

	hits := f.CastRay(f.Ray(0, 0))
	require.Len(t, hits, 1)
	assert.InDelta(t, 28, hits[0].Distance, 1e-3)

	sel, ok := hits[0].Object.(interact.Selectable)
	require.True(t, ok)
	site, ok := sel.Record()
	require.True(t, ok)
	assert.Equal(t, "A", site.Name)
}

func TestScaledMarkerIsHitEarlier(t *testing.T) {
	f, err := New(testSites()[:1], rand.New(rand.NewSource(1)), noSparkles())
	require.NoError(t, err)
	m := f.Markers[0]
	m.Position = quarkgl.V3(0, 0, 0)
	m.SetScale(1.5)

	hits := f.CastRay(f.Ray(0, 0))
	require.Len(t, hits, 1)
	assert.InDelta(t, 27, hits[0].Distance, 1e-3)
}

func TestMissReturnsNoHits(t *testing.T) {
	f, err := New(testSites()[:1], rand.New(rand.NewSource(1)), noSparkles())
	require.NoError(t, err)
	m := f.Markers[0]
	m.Position = quarkgl.V3(0, 0, 0)
	m.SetScale(1)

	assert.Empty(t, f.CastRay(f.Ray(0.9, 0.9)))
}

func TestSparklesCarryNoSite(t *testing.T) {
	f, err := New(nil, rand.New(rand.NewSource(1)), DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, f.Sparkles)
	assert.Len(t, f.Sparkles.Positions, 1000)
	for _, p := range f.Sparkles.Positions {
		assert.LessOrEqual(t, p.X, float32(250))
		assert.GreaterOrEqual(t, p.X, float32(-250))
	}
	_, ok := f.Sparkles.UserData.(interact.Selectable)
	assert.False(t, ok)
}

func TestTwinkle(t *testing.T) {
	p := NewSparkles(rand.New(rand.NewSource(1)), 1, 10)
	Twinkle(p, 0)
	assert.InDelta(t, 0.6, p.Opacity, 1e-6)
	Twinkle(p, 785*time.Millisecond)
	assert.InDelta(t, 0.8, p.Opacity, 1e-3)
	Twinkle(nil, time.Second)
}

func TestSetAspectIgnoresEmptySurface(t *testing.T) {
	f, err := New(nil, rand.New(rand.NewSource(1)), noSparkles())
	require.NoError(t, err)
	f.SetAspect(1920, 1080)
	assert.InDelta(t, 1920.0/1080.0, f.Aspect(), 1e-6)
	f.SetAspect(0, 100)
	assert.InDelta(t, 1920.0/1080.0, f.Aspect(), 1e-6)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}
	img.Set(0, 0, color.NRGBA{R: 0xFF, A: 0xFF})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestLoadTextureFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nebula.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t), 0o644))

	img, err := LoadTexture(context.Background(), nil, path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 4), img.Bounds())
}

func TestLoadTextureFromHTTP(t *testing.T) {
	body := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/nebula.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	img, err := LoadTexture(context.Background(), srv.Client(), srv.URL+"/nebula.png")
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())

	_, err = LoadTexture(context.Background(), srv.Client(), srv.URL+"/missing.png")
	assert.Error(t, err)
}

func TestLoadAsyncFailureYieldsNothing(t *testing.T) {
	ch := LoadAsync(context.Background(), nil, filepath.Join(t.TempDir(), "absent.png"), zerolog.Nop())
	img, ok := <-ch
	assert.False(t, ok)
	assert.Nil(t, img)
}

func TestShowNebula(t *testing.T) {
	f, err := New(nil, rand.New(rand.NewSource(1)), noSparkles())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nebula.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t), 0o644))
	img, ok := <-LoadAsync(context.Background(), nil, path, zerolog.Nop())
	require.True(t, ok)

	f.ShowNebula(img)
	f.ShowNebula(img)
	assert.Equal(t, 1, f.Scene.SpriteCount())
	assert.InDelta(t, 0.6, f.Nebula.Opacity, 1e-6)
	_, selectable := f.Nebula.UserData.(interact.Selectable)
	assert.False(t, selectable)
}

func writeSolidPNG(t *testing.T, path string, r uint8) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.Set(x, y, color.NRGBA{R: r, A: 0xFF})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	tmp := path + ".tmp"
	require.NoError(t, os.WriteFile(tmp, buf.Bytes(), 0o644))
	require.NoError(t, os.Rename(tmp, path))
}

func redOf(img image.Image) uint8 {
	r, _, _, _ := img.At(0, 0).RGBA()
	return uint8(r >> 8)
}

// awaitRed waits for an image whose red channel is want.
func awaitRed(t *testing.T, ch <-chan image.Image, want uint8) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case img, ok := <-ch:
			require.True(t, ok, "watch channel closed")
			if redOf(img) == want {
				return
			}
		case <-deadline:
			t.Fatalf("no reload with red=%d", want)
		}
	}
}

func TestWatchTextureReloadsRewrittenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nebula.png")
	writeSolidPNG(t, path, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := WatchTexture(ctx, path, zerolog.Nop())
	require.NoError(t, err)

	writeSolidPNG(t, path, 200)
	awaitRed(t, ch, 200)

	// A burst of writes settles on the last one.
	for _, r := range []uint8{10, 20, 30} {
		writeSolidPNG(t, path, r)
	}
	awaitRed(t, ch, 30)

	cancel()
	select {
	case _, ok := <-ch:
		for ok {
			_, ok = <-ch
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watch channel not closed after cancel")
	}
}

func TestWatchTextureIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nebula.png")
	writeSolidPNG(t, path, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := WatchTexture(ctx, path, zerolog.Nop())
	require.NoError(t, err)

	writeSolidPNG(t, filepath.Join(dir, "other.png"), 99)
	select {
	case img := <-ch:
		t.Fatalf("unexpected reload, red=%d", redOf(img))
	case <-time.After(400 * time.Millisecond):
	}
}

func TestWatchTextureMissingDirectory(t *testing.T) {
	_, err := WatchTexture(context.Background(), filepath.Join(t.TempDir(), "gone", "nebula.png"), zerolog.Nop())
	assert.Error(t, err)
}
