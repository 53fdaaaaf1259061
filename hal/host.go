package hal

import (
	"time"

	"github.com/rs/zerolog"
)

type hostHAL struct {
	log     zerolog.Logger
	fb      *hostFramebuffer
	kbd     *hostKeyboard
	ptr     *hostPointer
	t       *hostTime
	aud     Audio
	browser Browser
	screen  Screen
}

func newHost(width, height int, log zerolog.Logger) *hostHAL {
	return &hostHAL{
		log: log,
		fb:  newHostFramebuffer(width, height),
		kbd: newHostKeyboard(),
		ptr: newHostPointer(),
		t:   newHostTime(time.Now()),
	}
}

func (h *hostHAL) Display() Display { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Input() Input     { return hostInput{kbd: h.kbd, ptr: h.ptr} }
func (h *hostHAL) Audio() Audio     { return h.aud }
func (h *hostHAL) Browser() Browser { return h.browser }
func (h *hostHAL) Screen() Screen   { return h.screen }
func (h *hostHAL) Clock() Clock     { return h.t }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostInput struct {
	kbd *hostKeyboard
	ptr *hostPointer
}

func (in hostInput) Keyboard() Keyboard { return in.kbd }
func (in hostInput) Pointer() Pointer   { return in.ptr }

// FixedScreen reports a configured screen size.
type FixedScreen struct {
	W, H int
}

func (s FixedScreen) Size() (int, int) { return s.W, s.H }

// nullAudio is used where no audio device exists.
type nullAudio struct{}

func (nullAudio) Open(int) (AudioOutput, error) { return nil, ErrNotImplemented }
