package interact

import "fmt"

// Viewport is the size and placement of a popup window in screen pixels.
type Viewport struct {
	Width  int
	Height int
	Top    int
	Left   int
}

// PopupViewport returns a window 80% of the screen size, centered.
func PopupViewport(screenW, screenH int) Viewport {
	w := screenW * 8 / 10
	h := screenH * 8 / 10
	return Viewport{
		Width:  w,
		Height: h,
		Top:    (screenH - h) / 2,
		Left:   (screenW - w) / 2,
	}
}

// Features renders the viewport as a window features string.
func (v Viewport) Features() string {
	return fmt.Sprintf("width=%d,height=%d,top=%d,left=%d,resizable=yes,scrollbars=yes",
		v.Width, v.Height, v.Top, v.Left)
}
