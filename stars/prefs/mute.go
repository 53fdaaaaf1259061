package prefs

import (
	"errors"
	"strconv"

	"github.com/rs/zerolog"
)

// MuteKey is the store key of the mute preference.
const MuteKey = "isMuted"

// MuteFlag is the persisted "sound off" switch.
//
// The in-memory value is authoritative for the running process: a failed write
// is logged and returned, but the toggle still takes effect.
type MuteFlag struct {
	store Store
	log   zerolog.Logger
	muted bool
}

// LoadMuteFlag reads the flag from store. Only the literal "true" means muted;
// a missing key or a read error means not muted.
func LoadMuteFlag(store Store, log zerolog.Logger) *MuteFlag {
	f := &MuteFlag{store: store, log: log}
	v, err := store.Get(MuteKey)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		log.Warn().Err(err).Msg("reading mute preference, assuming sound on")
	default:
		f.muted = v == "true"
	}
	return f
}

// Muted reports the current value.
func (f *MuteFlag) Muted() bool { return f.muted }

// Toggle flips the flag, persists it and returns the new value.
func (f *MuteFlag) Toggle() (bool, error) {
	f.muted = !f.muted
	if err := f.store.Set(MuteKey, strconv.FormatBool(f.muted)); err != nil {
		f.log.Error().Err(err).Bool("muted", f.muted).Msg("persisting mute preference")
		return f.muted, err
	}
	f.log.Debug().Bool("muted", f.muted).Msg("mute preference saved")
	return f.muted, nil
}
