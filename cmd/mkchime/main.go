// Command mkchime renders the star selection chime to a WAV file.
package main

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"time"

	"constellations/stars/sound"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
}

type options struct {
	out        string
	sampleRate int
	frequency  float64
	seed       int64
	duration   time.Duration
}

func rootCmd() *cobra.Command {
	var o options
	cmd := &cobra.Command{
		Use:          "mkchime --out chime.wav",
		Short:        "Render the selection chime as 16-bit mono PCM",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			tone, err := o.tone()
			if err != nil {
				return err
			}
			if err := writeFile(o.out, tone, o.sampleRate); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %.1f Hz, %s at %d Hz\n", o.out, tone.Frequency, tone.Duration, o.sampleRate)
			return nil
		},
	}
	cmd.Flags().StringVarP(&o.out, "out", "o", "", "Output .wav file")
	cmd.Flags().IntVar(&o.sampleRate, "rate", 44100, "Sample rate in Hz")
	cmd.Flags().Float64Var(&o.frequency, "freq", 0, "Pitch in Hz (0 = random chime pitch)")
	cmd.Flags().Int64Var(&o.seed, "seed", 0, "Random seed for the pitch (0 = clock)")
	cmd.Flags().DurationVar(&o.duration, "duration", 0, "Override the chime length")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func (o options) tone() (sound.Tone, error) {
	if o.sampleRate <= 0 || o.sampleRate > 192000 {
		return sound.Tone{}, fmt.Errorf("rate out of range: %d", o.sampleRate)
	}
	seed := o.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	t := sound.NewTone(rand.New(rand.NewSource(seed)))
	if o.frequency < 0 || o.frequency >= float64(o.sampleRate)/2 {
		return sound.Tone{}, fmt.Errorf("freq out of range: %g", o.frequency)
	}
	if o.frequency > 0 {
		t.Frequency = o.frequency
	}
	if o.duration < 0 {
		return sound.Tone{}, fmt.Errorf("negative duration: %s", o.duration)
	}
	if o.duration > 0 {
		t.Duration = o.duration
	}
	return t, nil
}

func writeFile(path string, t sound.Tone, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := writeWAV(bw, t.PCM16(sampleRate), uint32(sampleRate)); err != nil {
		_ = f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func writeWAV(w io.Writer, pcm []int16, sampleRate uint32) error {
	if len(pcm)*2 > math.MaxUint32-36 {
		return fmt.Errorf("wav: %d samples do not fit", len(pcm))
	}
	if err := writeWAVHeader(w, sampleRate, 1, 16, uint32(len(pcm)*2)); err != nil {
		return err
	}
	var tmp [2]byte
	for _, s := range pcm {
		binary.LittleEndian.PutUint16(tmp[:], uint16(s))
		if _, err := w.Write(tmp[:]); err != nil {
			return err
		}
	}
	return nil
}

func writeWAVHeader(w io.Writer, sampleRate uint32, channels uint16, bits uint16, dataBytes uint32) error {
	blockAlign := channels * (bits / 8)
	byteRate := sampleRate * uint32(blockAlign)
	riffSize := 4 + (8 + 16) + (8 + dataBytes)

	var hdr [44]byte
	copy(hdr[0:4], "RIFF")
	binary.LittleEndian.PutUint32(hdr[4:8], riffSize)
	copy(hdr[8:12], "WAVE")

	copy(hdr[12:16], "fmt ")
	binary.LittleEndian.PutUint32(hdr[16:20], 16)
	binary.LittleEndian.PutUint16(hdr[20:22], 1)
	binary.LittleEndian.PutUint16(hdr[22:24], channels)
	binary.LittleEndian.PutUint32(hdr[24:28], sampleRate)
	binary.LittleEndian.PutUint32(hdr[28:32], byteRate)
	binary.LittleEndian.PutUint16(hdr[32:34], blockAlign)
	binary.LittleEndian.PutUint16(hdr[34:36], bits)

	copy(hdr[36:40], "data")
	binary.LittleEndian.PutUint32(hdr[40:44], dataBytes)

	_, err := w.Write(hdr[:])
	return err
}
