package simulation

import (
	"context"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/teaching-prom/internal/metrics"
	"github.com/mauv0809/teaching-prom/internal/waveform"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

// SimulateSeasonalCount increments the rhythm counter by the positive part of
// a noisy ten minute sine wave sampled at now. It returns the raw wave value
// and the increment.
func (s *Simulator) SimulateSeasonalCount(now time.Time) (float64, float64, error) {
	amplitude := s.sampler.IntRange(SeasonalMinAmplitude, SeasonalMaxAmplitude)
	w := waveform.Wave{
		Amplitude: float64(amplitude),
		Frequency: SeasonalFrequency,
	}
	v := w.At(float64(now.UnixNano()) / float64(time.Second))
	inc := math.Max(v, 0) * SeasonalScale

	err := s.metrics.AddRhythm(prometheus.Labels{
		metrics.LabelComponent: SeasonalComponent,
		metrics.LabelAction:    SeasonalAction,
	}, inc)
	log.Debug("Increment by", "value", v, "increment", inc)
	return v, inc, err
}

func (s *Simulator) runSeasonal(ctx context.Context) error {
	rl := rate.NewLimiter(rate.Limit(s.samplingRate), 1)
	for {
		if err := rl.Wait(ctx); err != nil {
			break
		}
		if _, _, err := s.SimulateSeasonalCount(s.now()); err != nil {
			log.Error("Failed to increment rhythm counter", "error", err)
		}
	}
	log.Debug("Seasonal loop stopped")
	return nil
}
