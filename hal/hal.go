// Package hal is the only contact point between the star field and the host:
// window framebuffer, pointer and keyboard input, audio output, the system
// browser and the screen size.
package hal

import (
	"errors"
	"io"
	"time"
)

var ErrNotImplemented = errors.New("not implemented")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
//
// Its size follows the window; callers compare Width and Height between
// frames to notice a resize.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// KeyCode is a minimal key identifier.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyEscape
)

// KeyEvent is a keyboard event. Text input arrives with Code KeyUnknown and
// the typed Rune.
type KeyEvent struct {
	Code  KeyCode
	Press bool
	Rune  rune
}

// Keyboard provides key events (best-effort on each platform).
type Keyboard interface {
	Events() <-chan KeyEvent
}

// PointerKind tells what happened to the pointer.
type PointerKind uint8

const (
	PointerMove PointerKind = iota + 1
	PointerDown
	PointerUp
	PointerWheel
	PointerLeave
)

// PointerEvent is a mouse or touch event in framebuffer pixels.
type PointerEvent struct {
	Kind  PointerKind
	X, Y  int
	Wheel float64 // PointerWheel only, positive away from the user
}

// Pointer provides pointer events.
type Pointer interface {
	Events() <-chan PointerEvent
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Input provides access to input devices (if available).
type Input interface {
	Keyboard() Keyboard
	Pointer() Pointer
}

// AudioOutput plays 16-bit little-endian stereo streams.
type AudioOutput interface {
	SampleRate() int
	Play(pcm io.Reader) error
}

// Audio opens the platform audio output. Open may be called at most once
// with a given sample rate.
type Audio interface {
	Open(sampleRate int) (AudioOutput, error)
}

// OpenRequest asks the host to show a URL in a new window. Features is the
// window features string derived from the placement fields.
type OpenRequest struct {
	URL      string
	Width    int
	Height   int
	Top      int
	Left     int
	Features string
}

// Browser opens URLs outside the application.
type Browser interface {
	Open(req OpenRequest) error
}

// Screen reports the size of the display the window lives on.
type Screen interface {
	Size() (w, h int)
}

// Clock reports the time of the current frame.
type Clock interface {
	Now() time.Time
}

// HAL bundles the host devices.
type HAL interface {
	Display() Display
	Input() Input
	Audio() Audio
	Browser() Browser
	Screen() Screen
	Clock() Clock
}
