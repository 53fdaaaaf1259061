// Package telemetry records interaction counters with OpenTelemetry.
//
// Instruments come from the global meter provider, which is a no-op unless
// an SDK is installed by the host program.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "constellations/internal/telemetry"

// Recorder holds the interaction counters.
type Recorder struct {
	hover     metric.Int64Counter
	selection metric.Int64Counter
	mute      metric.Int64Counter
	navErrors metric.Int64Counter
}

// New creates the counters on the global meter.
func New() (*Recorder, error) {
	return NewWithMeter(otel.Meter(instrumentationName))
}

func NewWithMeter(m metric.Meter) (*Recorder, error) {
	var (
		r   Recorder
		err error
	)
	r.hover, err = m.Int64Counter(
		"constellations.hover",
		metric.WithDescription("Stars that came under the pointer"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating hover counter: %w", err)
	}
	r.selection, err = m.Int64Counter(
		"constellations.selections",
		metric.WithDescription("Stars selected"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating selection counter: %w", err)
	}
	r.mute, err = m.Int64Counter(
		"constellations.mute_toggles",
		metric.WithDescription("Mute flag toggles"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating mute counter: %w", err)
	}
	r.navErrors, err = m.Int64Counter(
		"constellations.navigation_errors",
		metric.WithDescription("Failed attempts to open a site"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating navigation error counter: %w", err)
	}
	return &r, nil
}

func (r *Recorder) Hovered(site string) {
	r.hover.Add(context.Background(), 1, metric.WithAttributes(attribute.String("site", site)))
}

func (r *Recorder) Selected(site, marker string) {
	r.selection.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("site", site),
		attribute.String("marker", marker),
	))
}

func (r *Recorder) MuteToggled(muted bool) {
	r.mute.Add(context.Background(), 1, metric.WithAttributes(attribute.Bool("muted", muted)))
}

func (r *Recorder) NavigationFailed(url string) {
	r.navErrors.Add(context.Background(), 1, metric.WithAttributes(attribute.String("url", url)))
}
