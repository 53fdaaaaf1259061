package sound

import (
	"errors"
	"fmt"
	"io"
	"math/rand"

	"github.com/rs/zerolog"
)

// ErrUnavailable is returned when the platform audio output cannot be used.
var ErrUnavailable = errors.New("sound: audio output unavailable")

// Output plays a 16-bit little-endian stereo stream once.
type Output interface {
	SampleRate() int
	Play(pcm io.Reader) error
}

// Opener creates the platform output. It is called at most once, on Resume.
type Opener func() (Output, error)

// Muter reports whether sound is switched off.
type Muter interface {
	Muted() bool
}

// State is the engine lifecycle.
type State uint8

const (
	Suspended State = iota
	Running
	Unavailable
)

func (s State) String() string {
	switch s {
	case Suspended:
		return "suspended"
	case Running:
		return "running"
	case Unavailable:
		return "unavailable"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Engine plays the selection chime.
//
// It starts Suspended and does not touch the platform until Resume is called
// from a user interaction.
type Engine struct {
	open  Opener
	mute  Muter
	rng   *rand.Rand
	log   zerolog.Logger
	out   Output
	state State
}

func NewEngine(open Opener, mute Muter, rng *rand.Rand, log zerolog.Logger) *Engine {
	return &Engine{open: open, mute: mute, rng: rng, log: log}
}

// State returns the current lifecycle state.
func (e *Engine) State() State { return e.state }

// Resume brings a suspended engine to Running. If the output cannot be opened
// the engine becomes Unavailable for the rest of the process.
func (e *Engine) Resume() {
	if e.state != Suspended {
		return
	}
	if e.open == nil {
		e.unavailable(ErrUnavailable)
		return
	}
	out, err := e.open()
	if err != nil || out == nil {
		if err == nil {
			err = ErrUnavailable
		}
		e.unavailable(err)
		return
	}
	e.out = out
	e.state = Running
	e.log.Debug().Int("sample_rate", out.SampleRate()).Msg("audio resumed")
}

func (e *Engine) unavailable(err error) {
	e.state = Unavailable
	e.log.Warn().Err(err).Msg("audio disabled")
}

// Play synthesizes and plays one chime. It reports whether a tone was built;
// muted or non-running engines build nothing.
func (e *Engine) Play() bool {
	if e.mute != nil && e.mute.Muted() {
		return false
	}
	if e.state != Running {
		e.log.Debug().Stringer("state", e.state).Msg("chime skipped")
		return false
	}
	tone := NewTone(e.rng)
	if err := e.out.Play(tone.Reader(e.out.SampleRate())); err != nil {
		e.log.Warn().Err(err).Msg("playing chime")
		return false
	}
	return true
}
