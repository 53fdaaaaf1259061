//go:build cgo

package hal

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// hostAudio exposes audio output on desktop via Ebiten's audio package.
type hostAudio struct {
	mu  sync.Mutex
	ctx *audio.Context
}

func newHostAudio() *hostAudio { return &hostAudio{} }

func (a *hostAudio) Open(sampleRate int) (AudioOutput, error) {
	if sampleRate <= 0 {
		return nil, errors.New("host audio: invalid sample rate")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.ctx == nil {
		if cur := audio.CurrentContext(); cur != nil {
			a.ctx = cur
		} else {
			a.ctx = audio.NewContext(sampleRate)
		}
	}
	if a.ctx.SampleRate() != sampleRate {
		return nil, fmt.Errorf("host audio: ebiten audio context sample rate is fixed at %d", a.ctx.SampleRate())
	}
	return &hostAudioOutput{ctx: a.ctx}, nil
}

type hostAudioOutput struct {
	mu      sync.Mutex
	ctx     *audio.Context
	players []*audio.Player
}

func (o *hostAudioOutput) SampleRate() int { return o.ctx.SampleRate() }

// Play starts pcm and returns at once. Finished players are released on the
// next call.
func (o *hostAudioOutput) Play(pcm io.Reader) error {
	p, err := o.ctx.NewPlayer(pcm)
	if err != nil {
		return fmt.Errorf("host audio: %w", err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	live := o.players[:0]
	for _, old := range o.players {
		if old.IsPlaying() {
			live = append(live, old)
			continue
		}
		_ = old.Close()
	}
	o.players = append(live, p)
	p.Play()
	return nil
}
