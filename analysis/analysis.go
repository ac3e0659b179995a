// Package analysis computes statistics over simulation trajectories:
// per-species population totals, peaks, and steady-state detection.
package analysis

import (
	"math"
	"sort"

	"github.com/rdme-xyz/go-rdme/trajectory"
)

// Default steady-state parameters used by Report.
const (
	defaultRelTol         = 0.01
	defaultWindowDuration = 10.0
)

// SeriesStats summarizes one per-timepoint series.
type SeriesStats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Final  float64 `json:"final"`
}

// Peak is a local maximum in a series.
type Peak struct {
	Species    string  `json:"species,omitempty"`
	Time       float64 `json:"time"`
	Value      float64 `json:"value"`
	Prominence float64 `json:"prominence"`
}

// SteadyState reports whether and when a series settled.
type SteadyState struct {
	Reached   bool    `json:"reached"`
	Index     int     `json:"index"`
	Time      float64 `json:"time,omitempty"`
	Tolerance float64 `json:"tolerance"`
}

// Report is the assembled analysis of every species in a trajectory.
type Report struct {
	Model       string                 `json:"model,omitempty"`
	Statistics  map[string]SeriesStats `json:"statistics"`
	Peaks       []Peak                 `json:"peaks,omitempty"`
	SteadyState map[string]SteadyState `json:"steady_state,omitempty"`
}

// Analyzer computes insights from one trajectory.
type Analyzer struct {
	result *trajectory.Result
}

// NewAnalyzer creates an analyzer over a trajectory.
func NewAnalyzer(r *trajectory.Result) *Analyzer {
	return &Analyzer{result: r}
}

// Totals returns the total population of one species at every
// timepoint, summed over all voxels.
func (a *Analyzer) Totals(species string) ([]float64, error) {
	m, err := a.result.GetSpecies(species, "all", false)
	if err != nil {
		return nil, err
	}
	totals := make([]float64, m.Rows)
	for i := 0; i < m.Rows; i++ {
		sum := 0.0
		for _, v := range m.Row(i) {
			sum += v
		}
		totals[i] = sum
	}
	return totals, nil
}

// Stats summarizes the per-timepoint totals of one species.
func (a *Analyzer) Stats(species string) (SeriesStats, error) {
	totals, err := a.Totals(species)
	if err != nil {
		return SeriesStats{}, err
	}
	return computeStats(totals), nil
}

// Report runs the full analysis for every species the attached model
// lists.
func (a *Analyzer) Report() (*Report, error) {
	if a.result.Model == nil {
		return nil, trajectory.ErrNoModel
	}
	tspan, err := a.result.Timespan()
	if err != nil {
		return nil, err
	}

	report := &Report{
		Model:       a.result.Model.Name,
		Statistics:  make(map[string]SeriesStats),
		SteadyState: make(map[string]SteadyState),
	}
	for _, name := range a.result.Model.SpeciesNames() {
		totals, err := a.Totals(name)
		if err != nil {
			return nil, err
		}
		report.Statistics[name] = computeStats(totals)
		for _, p := range FindPeaks(tspan, totals, 0) {
			p.Species = name
			report.Peaks = append(report.Peaks, p)
		}
		report.SteadyState[name] = DetectSteadyState(tspan, totals, defaultRelTol, defaultWindowDuration)
	}
	return report, nil
}

// FindPeaks detects local maxima with at least the given prominence
// (height above the larger of the surrounding minima).
func FindPeaks(time, data []float64, minProminence float64) []Peak {
	if len(data) < 3 {
		return nil
	}

	var peaks []Peak
	for i := 1; i < len(data)-1; i++ {
		if data[i] > data[i-1] && data[i] > data[i+1] {
			leftMin := data[i-1]
			rightMin := data[i+1]
			for j := i - 2; j >= 0; j-- {
				if data[j] < leftMin {
					leftMin = data[j]
				}
			}
			for j := i + 2; j < len(data); j++ {
				if data[j] < rightMin {
					rightMin = data[j]
				}
			}
			prominence := data[i] - math.Max(leftMin, rightMin)
			if prominence < minProminence {
				continue
			}
			peaks = append(peaks, Peak{
				Time:       time[i],
				Value:      data[i],
				Prominence: prominence,
			})
		}
	}
	return peaks
}

// DetectSteadyState finds the first timepoint after which the
// relative step-to-step change over a trailing window stays within
// relTol. Index is -1 when the series never settles.
func DetectSteadyState(time, data []float64, relTol, windowDuration float64) SteadyState {
	ss := SteadyState{Reached: false, Index: -1, Tolerance: relTol}
	if len(time) < 2 || len(data) != len(time) {
		return ss
	}

	dt := time[1] - time[0]
	if dt <= 0 {
		return ss
	}
	windowSize := int(windowDuration / dt)
	if windowSize < 2 {
		windowSize = 2
	}
	if windowSize > len(time)/2 {
		windowSize = len(time) / 2
	}

	for i := windowSize; i < len(data); i++ {
		maxChange := 0.0
		for j := i - windowSize; j < i; j++ {
			if data[j] != 0 {
				change := math.Abs((data[j+1] - data[j]) / data[j])
				maxChange = math.Max(maxChange, change)
			}
		}
		if maxChange < relTol {
			ss.Reached = true
			ss.Index = i
			ss.Time = time[i]
			return ss
		}
	}
	return ss
}

// computeStats calculates a statistical summary of one series.
func computeStats(data []float64) SeriesStats {
	if len(data) == 0 {
		return SeriesStats{}
	}

	min := data[0]
	max := data[0]
	sum := 0.0
	for _, v := range data {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}
	mean := sum / float64(len(data))

	sumSq := 0.0
	for _, v := range data {
		diff := v - mean
		sumSq += diff * diff
	}
	std := math.Sqrt(sumSq / float64(len(data)))

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	var median float64
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		median = (sorted[mid-1] + sorted[mid]) / 2
	} else {
		median = sorted[mid]
	}

	return SeriesStats{
		Min:    min,
		Max:    max,
		Mean:   mean,
		Median: median,
		Std:    std,
		Final:  data[len(data)-1],
	}
}
