package app

import (
	"fmt"
	"image/color"
	"runtime/debug"
	"strings"
	"unicode/utf8"

	"constellations/hal"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// guard wraps step so a panic is logged and leaves a crash screen in the
// framebuffer instead of tearing the window down. Later steps do nothing.
func (a *App) guard(step func() error) func() error {
	return func() (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			stack := debug.Stack()
			a.crashed = true
			a.log.Error().Interface("panic", r).Bytes("stack", stack).Msg("frame panicked")
			if a.fb != nil {
				drawCrash(a.fb, r, stack)
			}
			err = nil
		}()
		return step()
	}
}

const (
	crashLineHeight = 12
	crashBaseline   = 9
)

func drawCrash(fb hal.Framebuffer, value any, stack []byte) {
	fb.ClearRGB(255, 255, 255)

	font := &proggy.TinySZ8pt7b
	_, outboxWidth := tinyfont.LineWidth(font, "0")
	fontWidth := int(outboxWidth)
	if fontWidth <= 0 {
		_ = fb.Present()
		return
	}

	lines := []string{
		"Constellations crashed:",
		fmt.Sprintf("panic: %v", value),
		"stack:",
	}
	for _, line := range strings.Split(string(stack), "\n") {
		if line != "" {
			lines = append(lines, strings.ReplaceAll(line, "\t", "  "))
		}
	}

	d := crashDisplay{fb: fb}
	fg := color.RGBA{A: 255}
	cols := fb.Width() / fontWidth
	if cols <= 0 {
		cols = 1
	}

	y := 0
	for _, line := range lines {
		for len(line) > 0 {
			if y+crashLineHeight > fb.Height() {
				_ = fb.Present()
				return
			}
			chunk, rest := takeRunes(line, cols)
			tinyfont.WriteLine(d, font, 2, int16(y+crashBaseline), chunk, fg)
			y += crashLineHeight
			line = strings.TrimLeft(rest, " ")
		}
	}
	_ = fb.Present()
}

type crashDisplay struct {
	fb hal.Framebuffer
}

func (d crashDisplay) Size() (x, y int16) {
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d crashDisplay) SetPixel(x, y int16, c color.RGBA) {
	if d.fb.Format() != hal.PixelFormatRGB565 {
		return
	}
	buf := d.fb.Buffer()
	ix, iy := int(x), int(y)
	if ix < 0 || ix >= d.fb.Width() || iy < 0 || iy >= d.fb.Height() {
		return
	}
	pixel := uint16((uint16(c.R>>3)&0x1F)<<11 | (uint16(c.G>>2)&0x3F)<<5 | (uint16(c.B>>3) & 0x1F))
	off := iy*d.fb.StrideBytes() + ix*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func (d crashDisplay) Display() error { return nil }

func takeRunes(s string, n int) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if len(s) <= n {
		return s, ""
	}
	i, count := 0, 0
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		count++
	}
	if i >= len(s) {
		return s, ""
	}
	return s[:i], s[i:]
}
