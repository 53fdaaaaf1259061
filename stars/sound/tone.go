// Package sound synthesizes the selection chime and gates its playback.
package sound

import (
	"encoding/binary"
	"io"
	"math"
	"math/rand"
	"time"
)

const (
	minFrequency  = 400.0
	frequencyBand = 300.0
	startGain     = 0.2
	floorGain     = 0.001
	toneLength    = 2 * time.Second
)

// Tone is a sine wave with an exponential decay envelope.
type Tone struct {
	Frequency float64 // Hz
	Gain      float64 // initial amplitude, 0..1
	Floor     float64 // amplitude reached at Duration
	Duration  time.Duration
}

// NewTone returns the selection chime with a random pitch in [400, 700) Hz.
func NewTone(rng *rand.Rand) Tone {
	return Tone{
		Frequency: minFrequency + rng.Float64()*frequencyBand,
		Gain:      startGain,
		Floor:     floorGain,
		Duration:  toneLength,
	}
}

// Envelope returns the amplitude at offset at.
func (t Tone) Envelope(at time.Duration) float64 {
	if at < 0 || at >= t.Duration || t.Duration <= 0 {
		return 0
	}
	if t.Floor <= 0 || t.Gain <= 0 {
		return t.Gain
	}
	frac := at.Seconds() / t.Duration.Seconds()
	return t.Gain * math.Pow(t.Floor/t.Gain, frac)
}

// Frames returns the number of sample frames at sampleRate.
func (t Tone) Frames(sampleRate int) int {
	return int(t.Duration.Seconds() * float64(sampleRate))
}

// Sample returns frame i at sampleRate in [-1, 1].
func (t Tone) Sample(i, sampleRate int) float64 {
	sec := float64(i) / float64(sampleRate)
	at := time.Duration(sec * float64(time.Second))
	return math.Sin(2*math.Pi*t.Frequency*sec) * t.Envelope(at)
}

// PCM16 renders the tone as mono signed 16-bit samples.
func (t Tone) PCM16(sampleRate int) []int16 {
	out := make([]int16, t.Frames(sampleRate))
	for i := range out {
		out[i] = int16(t.Sample(i, sampleRate) * math.MaxInt16)
	}
	return out
}

// Reader streams the tone as 16-bit little-endian stereo, then io.EOF.
func (t Tone) Reader(sampleRate int) io.Reader {
	return &toneReader{pcm: t.PCM16(sampleRate)}
}

type toneReader struct {
	pcm []int16
	pos int
}

func (r *toneReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.pcm) {
		return 0, io.EOF
	}
	n := 0
	for n+3 < len(p) && r.pos < len(r.pcm) {
		s := uint16(r.pcm[r.pos])
		binary.LittleEndian.PutUint16(p[n:], s)
		binary.LittleEndian.PutUint16(p[n+2:], s)
		n += 4
		r.pos++
	}
	return n, nil
}
