package neuron

import "gonum.org/v1/gonum/stat"

// meanInterSpikeInterval returns the mean gap between consecutive
// spike steps, or 0 when fewer than two spikes occurred.
func meanInterSpikeInterval(spikeSteps []int) float64 {
	if len(spikeSteps) < 2 {
		return 0
	}
	intervals := make([]float64, len(spikeSteps)-1)
	for i := 1; i < len(spikeSteps); i++ {
		intervals[i-1] = float64(spikeSteps[i] - spikeSteps[i-1])
	}
	return stat.Mean(intervals, nil)
}
