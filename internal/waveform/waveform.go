package waveform

import "math"

// Wave describes a sinusoid. Frequency is in Hertz and PhaseShift in radians.
type Wave struct {
	Amplitude     float64
	Frequency     float64
	PhaseShift    float64
	VerticalShift float64
}

// Default returns a unit sine wave with a one second period.
func Default() Wave {
	return Wave{Amplitude: 1, Frequency: 1}
}

// At returns the value of the wave at time t.
func (w Wave) At(t float64) float64 {
	return w.Amplitude*math.Sin(2*math.Pi*w.Frequency*t+w.PhaseShift) + w.VerticalShift
}
