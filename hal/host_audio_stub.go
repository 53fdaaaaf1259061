//go:build !cgo

package hal

// hostAudio is a stub when CGO/window backends are unavailable.
type hostAudio struct{ nullAudio }

func newHostAudio() *hostAudio { return &hostAudio{} }
