package interact

import (
	"errors"
	"testing"
	"time"

	"constellations/stars/catalog"
	"constellations/stars/quarkgl"
	"constellations/stars/sched"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStar struct {
	site  catalog.Site
	scale float32
}

func (s *fakeStar) Key() string                  { return "star-" + s.site.Name }
func (s *fakeStar) Record() (catalog.Site, bool) { return s.site, true }
func (s *fakeStar) SetScale(v float32)           { s.scale = v }

// fakeCaster returns the hits registered for an exact NDC point.
type fakeCaster struct {
	hits map[[2]float32][]Hit
}

func (f *fakeCaster) Ray(nx, ny float32) (quarkgl.Vec3, quarkgl.Vec3) {
	return quarkgl.V3(nx, ny, 0), quarkgl.V3(0, 0, -1)
}

func (f *fakeCaster) CastRay(origin, _ quarkgl.Vec3) []Hit {
	return f.hits[[2]float32{origin.X, origin.Y}]
}

type fakeOverlay struct {
	tooltip     string
	tooltipX    int
	tooltipY    int
	tooltipOn   bool
	info        *catalog.Site
	infoUpdates int
	muted       bool
}

func (o *fakeOverlay) ShowTooltip(x, y int, text string) {
	o.tooltipX, o.tooltipY, o.tooltip, o.tooltipOn = x, y, text, true
}
func (o *fakeOverlay) HideTooltip() { o.tooltipOn = false }
func (o *fakeOverlay) ShowInfo(site catalog.Site) {
	o.info = &site
	o.infoUpdates++
}
func (o *fakeOverlay) SetMuted(m bool) { o.muted = m }

type fakeSound struct{ plays int }

func (s *fakeSound) Play() bool { s.plays++; return true }

type navCall struct {
	url string
	vp  Viewport
}

type fakeNav struct {
	calls []navCall
	err   error
}

func (n *fakeNav) Navigate(url string, vp Viewport) error {
	n.calls = append(n.calls, navCall{url, vp})
	return n.err
}

type fixedScreen struct{ w, h int }

func (s fixedScreen) Size() (int, int) { return s.w, s.h }

type fakeMute struct {
	muted bool
	err   error
}

func (m *fakeMute) Muted() bool { return m.muted }
func (m *fakeMute) Toggle() (bool, error) {
	m.muted = !m.muted
	return m.muted, m.err
}

type countingMetrics struct {
	hovers, selections, toggles, navErrors int
	lastMarker                             string
}

func (m *countingMetrics) Hovered(string)          { m.hovers++ }
func (m *countingMetrics) Selected(_, marker string) {
	m.selections++
	m.lastMarker = marker
}
func (m *countingMetrics) MuteToggled(bool)        { m.toggles++ }
func (m *countingMetrics) NavigationFailed(string) { m.navErrors++ }

type rig struct {
	c       *Controller
	caster  *fakeCaster
	overlay *fakeOverlay
	sound   *fakeSound
	nav     *fakeNav
	mute    *fakeMute
	metrics *countingMetrics
	sched   *sched.Scheduler
	start   time.Time
}

func newRig() *rig {
	r := &rig{
		caster:  &fakeCaster{hits: map[[2]float32][]Hit{}},
		overlay: &fakeOverlay{},
		sound:   &fakeSound{},
		nav:     &fakeNav{},
		mute:    &fakeMute{},
		metrics: &countingMetrics{},
		start:   time.Unix(1000, 0),
	}
	r.sched = sched.NewScheduler(r.start)
	r.c = New(Config{
		Caster:    r.caster,
		Overlay:   r.overlay,
		Sound:     r.sound,
		Navigator: r.nav,
		Screen:    fixedScreen{1920, 1080},
		Mute:      r.mute,
		Scheduler: r.sched,
		Metrics:   r.metrics,
		Log:       zerolog.Nop(),
	})
	return r
}

// 100x100 surface: pixel (50,50) is NDC (0,0), pixel (0,0) is (-1,1).
func (r *rig) place(x, y int, hits ...Hit) {
	nx, ny := pointerNDC(x, y, 100, 100)
	r.caster.hits[[2]float32{nx, ny}] = hits
}

func (r *rig) move(x, y int) { r.c.PointerMove(x, y, 100, 100) }

func TestPointerNDC(t *testing.T) {
	nx, ny := pointerNDC(50, 50, 100, 100)
	assert.Equal(t, float32(0), nx)
	assert.Equal(t, float32(0), ny)
	nx, ny = pointerNDC(0, 0, 100, 100)
	assert.Equal(t, float32(-1), nx)
	assert.Equal(t, float32(1), ny)
	nx, ny = pointerNDC(100, 100, 100, 100)
	assert.Equal(t, float32(1), nx)
	assert.Equal(t, float32(-1), ny)
}

func TestOneRecordScenario(t *testing.T) {
	r := newRig()
	star := &fakeStar{site: catalog.Site{Name: "X", URL: "http://x", Description: "d"}, scale: 1}
	r.place(50, 50, Hit{Object: star, Distance: 28})

	r.move(50, 50)
	assert.Equal(t, Hovering, r.c.State())
	assert.True(t, r.overlay.tooltipOn)
	assert.Equal(t, "You will be transported to...\nX", r.overlay.tooltip)
	assert.Equal(t, 65, r.overlay.tooltipX)
	assert.Equal(t, 65, r.overlay.tooltipY)

	require.True(t, r.c.Click())
	assert.Equal(t, Selected, r.c.State())
	require.NotNil(t, r.overlay.info)
	assert.Equal(t, "X", r.overlay.info.Name)
	assert.Equal(t, "d", r.overlay.info.Description)
	assert.Equal(t, "http://x", r.overlay.info.URL)
	assert.Equal(t, float32(1.5), star.scale)
	assert.Equal(t, 1, r.sound.plays)

	require.Len(t, r.nav.calls, 1)
	assert.Equal(t, "http://x", r.nav.calls[0].url)
	assert.Equal(t, Viewport{Width: 1536, Height: 864, Top: 108, Left: 192}, r.nav.calls[0].vp)

	r.c.Advance(r.start.Add(499 * time.Millisecond))
	assert.Equal(t, float32(1.5), star.scale)
	r.c.Advance(r.start.Add(500 * time.Millisecond))
	assert.Equal(t, float32(1), star.scale)
	assert.Equal(t, Hovering, r.c.State())
}

func TestMoveWithNoHitIsIdleFromAnyState(t *testing.T) {
	r := newRig()
	star := &fakeStar{site: catalog.Site{Name: "X", URL: "http://x"}, scale: 1}
	r.place(50, 50, Hit{Object: star, Distance: 28})

	r.move(0, 0)
	assert.Equal(t, Idle, r.c.State())
	assert.False(t, r.overlay.tooltipOn)

	r.move(50, 50)
	r.move(0, 0)
	assert.Equal(t, Idle, r.c.State())
	assert.False(t, r.overlay.tooltipOn)

	r.move(50, 50)
	r.c.Click()
	require.Equal(t, Selected, r.c.State())
	r.move(0, 0)
	assert.Equal(t, Idle, r.c.State())
	assert.False(t, r.overlay.tooltipOn)

	// The revert still restores the scale and keeps Idle.
	r.c.Advance(r.start.Add(time.Second))
	assert.Equal(t, float32(1), star.scale)
	assert.Equal(t, Idle, r.c.State())
}

func TestClickWhileIdleDoesNothing(t *testing.T) {
	r := newRig()
	assert.False(t, r.c.Click())
	assert.Equal(t, Idle, r.c.State())
	assert.Nil(t, r.overlay.info)
	assert.Zero(t, r.sound.plays)
	assert.Empty(t, r.nav.calls)
	assert.Zero(t, r.sched.Len())
}

func TestNearestHitDecides(t *testing.T) {
	r := newRig()
	near := &fakeStar{site: catalog.Site{Name: "near", URL: "http://near"}}
	far := &fakeStar{site: catalog.Site{Name: "far", URL: "http://far"}}
	r.place(50, 50, Hit{Object: far, Distance: 40}, Hit{Object: near, Distance: 20})

	r.move(50, 50)
	site, ok := r.c.Hovered()
	require.True(t, ok)
	assert.Equal(t, "near", site.Name)
}

func TestNonStarInFrontHidesStar(t *testing.T) {
	r := newRig()
	star := &fakeStar{site: catalog.Site{Name: "X", URL: "http://x"}}
	r.place(50, 50, Hit{Object: "sparkles", Distance: 10}, Hit{Object: star, Distance: 28})

	r.move(50, 50)
	assert.Equal(t, Idle, r.c.State())
	assert.False(t, r.overlay.tooltipOn)

	r.place(50, 50, Hit{Object: star, Distance: 28}, Hit{Object: "sparkles", Distance: 60})
	r.move(50, 50)
	assert.Equal(t, Hovering, r.c.State())
}

func TestRapidReselectionCancelsPendingRevert(t *testing.T) {
	r := newRig()
	a := &fakeStar{site: catalog.Site{Name: "A", URL: "http://a"}, scale: 1}
	b := &fakeStar{site: catalog.Site{Name: "B", URL: "http://b"}, scale: 1}
	r.place(10, 10, Hit{Object: a, Distance: 5})
	r.place(90, 90, Hit{Object: b, Distance: 5})

	r.move(10, 10)
	r.c.Click()
	r.c.Advance(r.start.Add(300 * time.Millisecond))

	r.move(90, 90)
	r.c.Click()
	assert.Equal(t, float32(1), a.scale)
	assert.Equal(t, float32(1.5), b.scale)
	assert.Equal(t, 1, r.sched.Len())
	assert.False(t, r.sched.Pending(a.Key()))
	assert.True(t, r.sched.Pending(b.Key()))

	// A's original deadline passes without touching B.
	r.c.Advance(r.start.Add(500 * time.Millisecond))
	assert.Equal(t, float32(1.5), b.scale)

	r.c.Advance(r.start.Add(800 * time.Millisecond))
	assert.Equal(t, float32(1), b.scale)
	assert.Zero(t, r.sched.Len())
	assert.Equal(t, "B", r.overlay.info.Name)
	assert.Equal(t, 2, r.overlay.infoUpdates)
}

func TestReselectingSameStarRestartsRevert(t *testing.T) {
	r := newRig()
	a := &fakeStar{site: catalog.Site{Name: "A", URL: "http://a"}, scale: 1}
	r.place(50, 50, Hit{Object: a, Distance: 5})

	r.move(50, 50)
	r.c.Click()
	r.c.Advance(r.start.Add(400 * time.Millisecond))
	r.c.Click()

	r.c.Advance(r.start.Add(600 * time.Millisecond))
	assert.Equal(t, float32(1.5), a.scale)
	assert.Equal(t, Selected, r.c.State())

	r.c.Advance(r.start.Add(900 * time.Millisecond))
	assert.Equal(t, float32(1), a.scale)
	assert.Equal(t, Hovering, r.c.State())
	assert.Equal(t, 2, r.sound.plays)
	assert.Len(t, r.nav.calls, 2)
}

func TestNavigationFailureIsLoggedOnly(t *testing.T) {
	r := newRig()
	r.nav.err = errors.New("no browser")
	a := &fakeStar{site: catalog.Site{Name: "A", URL: "http://a"}, scale: 1}
	r.place(50, 50, Hit{Object: a, Distance: 5})

	r.move(50, 50)
	r.c.Click()
	assert.Equal(t, Selected, r.c.State())
	assert.Equal(t, 1, r.metrics.navErrors)
	assert.Equal(t, 1, r.metrics.selections)
}

func TestHoverCountedOncePerTarget(t *testing.T) {
	r := newRig()
	a := &fakeStar{site: catalog.Site{Name: "A", URL: "http://a"}}
	r.place(50, 50, Hit{Object: a, Distance: 5})
	r.place(51, 50, Hit{Object: a, Distance: 5})

	r.move(50, 50)
	r.move(51, 50)
	assert.Equal(t, 1, r.metrics.hovers)
	assert.Equal(t, 66, r.overlay.tooltipX)
}

func TestToggleMuteTwiceRestoresLabel(t *testing.T) {
	r := newRig()
	assert.True(t, r.c.ToggleMute())
	assert.True(t, r.overlay.muted)
	assert.False(t, r.c.ToggleMute())
	assert.False(t, r.overlay.muted)
	assert.False(t, r.mute.muted)
	assert.Equal(t, 2, r.metrics.toggles)
}

func TestToggleMuteWriteFailureStillFlips(t *testing.T) {
	r := newRig()
	r.mute.err = errors.New("disk gone")
	assert.True(t, r.c.ToggleMute())
	assert.True(t, r.overlay.muted)
}

func TestPopupViewport(t *testing.T) {
	vp := PopupViewport(1920, 1080)
	assert.Equal(t, Viewport{Width: 1536, Height: 864, Top: 108, Left: 192}, vp)
	assert.Equal(t, "width=1536,height=864,top=108,left=192,resizable=yes,scrollbars=yes", vp.Features())

	vp = PopupViewport(1001, 501)
	assert.Equal(t, 800, vp.Width)
	assert.Equal(t, 400, vp.Height)
	assert.Equal(t, 100, vp.Left)
	assert.Equal(t, 50, vp.Top)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "hovering", Hovering.String())
	assert.Equal(t, "selected", Selected.String())
}

func TestSelectionKeysRevertAndMetricsByMarker(t *testing.T) {
	r := newRig()
	a := &fakeStar{site: catalog.Site{Name: "A", URL: "http://a"}, scale: 1}
	r.place(50, 50, Hit{Object: a, Distance: 5})

	r.move(50, 50)
	require.True(t, r.c.Click())
	assert.Equal(t, "star-A", r.metrics.lastMarker)
	assert.True(t, r.sched.Pending("star-A"))
	assert.False(t, r.sched.Pending(a))
}
