// Package overlay is the 2D user interface drawn over the star field: the
// heading, the mute button, the site info panel and the hover tooltip.
//
// State changes are applied immediately; Draw renders whatever the state is
// at the time of the call.
package overlay

import (
	"image/color"
	"strings"

	"constellations/stars/catalog"
	"constellations/stars/quarkgl"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

const (
	Title    = "You have entered the Creative Constellations!"
	Subtitle = "Choose a star and see where it leads"

	LabelMuted   = "Sound Off"
	LabelUnmuted = "Mute Sound"
	LinkLabel    = "Visit Site"

	margin     = 20
	padding    = 8
	lineHeight = 13
	baseline   = 10
	infoWidth  = 280
	buttonGap  = 6
)

var (
	colorText    = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	colorDim     = color.RGBA{R: 0xB0, G: 0xB8, B: 0xD0, A: 0xFF}
	colorLink    = color.RGBA{R: 0x7F, G: 0xC8, B: 0xFF, A: 0xFF}
	colorPanel   = color.RGBA{R: 0x08, G: 0x0C, B: 0x1C, A: 0xB0}
	colorBorder  = color.RGBA{R: 0x50, G: 0x60, B: 0x90, A: 0xFF}
	colorTooltip = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xC0}
	colorButton  = color.RGBA{R: 0x00, G: 0xCC, B: 0xFF, A: 0xFF}
	colorOnLight = color.RGBA{A: 0xFF}
)

// Control identifies a clickable overlay element.
type Control uint8

const (
	None Control = iota
	MuteButton
	VisitLink
)

// Rect is a screen rectangle.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Contains(x, y int) bool {
	return x >= r.X && y >= r.Y && x < r.X+r.W && y < r.Y+r.H
}

// Overlay holds the UI state and its layout for the current surface size.
type Overlay struct {
	font tinyfont.Fonter

	muted bool

	info        catalog.Site
	infoVisible bool
	infoLines   []string

	tooltip        string
	tooltipX       int
	tooltipY       int
	tooltipVisible bool

	w, h    int
	mute    Rect
	panel   Rect
	link    Rect
	heading Rect
}

// New returns an overlay whose mute button reflects muted.
func New(muted bool) *Overlay {
	return &Overlay{font: &proggy.TinySZ8pt7b, muted: muted}
}

// SetMuted relabels the mute button.
func (o *Overlay) SetMuted(muted bool) {
	o.muted = muted
	o.layout()
}

func (o *Overlay) MuteLabel() string {
	if o.muted {
		return LabelMuted
	}
	return LabelUnmuted
}

// ShowInfo fills the info panel with site and makes it visible.
// It stays visible for the rest of the session.
func (o *Overlay) ShowInfo(site catalog.Site) {
	o.info = site
	o.infoVisible = true
	o.layout()
}

// Info returns the site shown in the info panel.
func (o *Overlay) Info() (catalog.Site, bool) {
	return o.info, o.infoVisible
}

func (o *Overlay) ShowTooltip(x, y int, text string) {
	o.tooltip = text
	o.tooltipX = x
	o.tooltipY = y
	o.tooltipVisible = true
}

func (o *Overlay) HideTooltip() { o.tooltipVisible = false }

// Tooltip returns the tooltip text and position.
func (o *Overlay) Tooltip() (text string, x, y int, visible bool) {
	return o.tooltip, o.tooltipX, o.tooltipY, o.tooltipVisible
}

// Resize lays the panels out for a w×h surface.
func (o *Overlay) Resize(w, h int) {
	o.w, o.h = w, h
	o.layout()
}

// HitTest returns the control under (x, y).
func (o *Overlay) HitTest(x, y int) Control {
	if o.mute.Contains(x, y) {
		return MuteButton
	}
	if o.infoVisible && o.link.Contains(x, y) {
		return VisitLink
	}
	return None
}

// MuteRect and LinkRect return the current control bounds.
func (o *Overlay) MuteRect() Rect { return o.mute }
func (o *Overlay) LinkRect() Rect { return o.link }

func (o *Overlay) textWidth(s string) int {
	_, outbox := tinyfont.LineWidth(o.font, s)
	return int(outbox)
}

func (o *Overlay) layout() {
	tw := o.textWidth(Title)
	if sw := o.textWidth(Subtitle); sw > tw {
		tw = sw
	}
	o.heading = Rect{X: margin, Y: margin, W: tw + 2*padding, H: 2*lineHeight + 2*padding}

	// The mute button hangs under the heading; the info panel takes the
	// top-right corner.
	bw := o.textWidth(o.MuteLabel()) + 2*padding
	o.mute = Rect{X: margin, Y: o.heading.Y + o.heading.H + buttonGap, W: bw, H: lineHeight + 2*padding}

	if !o.infoVisible {
		o.panel, o.link = Rect{}, Rect{}
		return
	}
	pw := infoWidth
	if o.w > 0 && pw > o.w-2*margin {
		pw = o.w - 2*margin
	}
	o.infoLines = wrap(o.info.Description, func(s string) int { return o.textWidth(s) }, pw-2*padding)
	lines := 1 + len(o.infoLines) + 2
	ph := lines*lineHeight + 2*padding
	o.panel = Rect{X: o.w - margin - pw, Y: margin, W: pw, H: ph}
	o.link = Rect{
		X: o.panel.X + padding,
		Y: o.panel.Y + padding + (lines-1)*lineHeight,
		W: o.textWidth(LinkLabel),
		H: lineHeight,
	}
}

// Draw renders the overlay onto t.
func (o *Overlay) Draw(t quarkgl.Target) {
	if w, h := t.Size(); w != o.w || h != o.h {
		o.Resize(w, h)
	}
	d := display{t: t}

	o.drawBox(d, o.heading)
	o.text(d, o.heading.X+padding, o.heading.Y+padding, Title, colorText)
	o.text(d, o.heading.X+padding, o.heading.Y+padding+lineHeight, Subtitle, colorDim)

	_ = d.FillRectangle(int16(o.mute.X), int16(o.mute.Y), int16(o.mute.W), int16(o.mute.H), colorButton)
	o.text(d, o.mute.X+padding, o.mute.Y+padding, o.MuteLabel(), colorOnLight)

	if o.infoVisible {
		o.drawBox(d, o.panel)
		x := o.panel.X + padding
		y := o.panel.Y + padding
		o.text(d, x, y, o.info.Name, colorText)
		for i, line := range o.infoLines {
			o.text(d, x, y+(i+1)*lineHeight, line, colorDim)
		}
		o.text(d, o.link.X, o.link.Y, LinkLabel, colorLink)
		_ = d.FillRectangle(int16(o.link.X), int16(o.link.Y+baseline+1), int16(o.link.W), 1, colorLink)
	}

	if o.tooltipVisible {
		lines := strings.Split(o.tooltip, "\n")
		tw := 0
		for _, l := range lines {
			if w := o.textWidth(l); w > tw {
				tw = w
			}
		}
		r := Rect{X: o.tooltipX, Y: o.tooltipY, W: tw + 2*padding, H: len(lines)*lineHeight + 2*padding}
		_ = d.FillRectangle(int16(r.X), int16(r.Y), int16(r.W), int16(r.H), colorTooltip)
		for i, l := range lines {
			o.text(d, r.X+padding, r.Y+padding+i*lineHeight, l, colorText)
		}
	}
}

func (o *Overlay) drawBox(d display, r Rect) {
	if r.W <= 0 || r.H <= 0 {
		return
	}
	_ = d.FillRectangle(int16(r.X), int16(r.Y), int16(r.W), int16(r.H), colorPanel)
	d.StrokeRectangle(int16(r.X), int16(r.Y), int16(r.W), int16(r.H), colorBorder)
}

// text draws one line with its top edge at y.
func (o *Overlay) text(d display, x, y int, s string, c color.RGBA) {
	tinyfont.WriteLine(d, o.font, int16(x), int16(y+baseline), s, c)
}

// wrap breaks s into lines no wider than max.
func wrap(s string, width func(string) int, max int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	var (
		lines []string
		cur   string
	)
	for _, w := range words {
		next := w
		if cur != "" {
			next = cur + " " + w
		}
		if cur != "" && width(next) > max {
			lines = append(lines, cur)
			cur = w
			continue
		}
		cur = next
	}
	return append(lines, cur)
}
