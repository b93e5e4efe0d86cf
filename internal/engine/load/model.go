package load

import (
	"sort"
	"time"
)

const (
	acuteWindowDays   = 7
	chronicWindowDays = 28

	// spikeWindowDays / spikeRelativeChange: a ratio rise of 30% or more
	// within any trailing 3-day window is flagged independently of the
	// absolute zone, since rapid relative change is itself a risk signal.
	spikeWindowDays     = 3
	spikeRelativeChange = 0.30
)

// EWMA smoothing factors, standard 2/(N+1) form.
var (
	acuteAlpha   = 2.0 / float64(acuteWindowDays+1)
	chronicAlpha = 2.0 / float64(chronicWindowDays+1)
)

// RiskZone classifies the acute:chronic ratio.
type RiskZone string

const (
	RiskDetraining RiskZone = "detraining" // ratio < 0.8
	RiskOptimal    RiskZone = "optimal"    // 0.8 - 1.3
	RiskCaution    RiskZone = "caution"    // 1.3 - 1.5, high injury risk
	RiskDanger     RiskZone = "danger"     // > 1.5
)

// Sample is one day's training load for an athlete. The series is an
// append-only ledger; a same-day resubmission overwrites that day's entry
// (last writer wins), it never duplicates it.
type Sample struct {
	AthleteID string    `json:"athleteId"`
	Day       time.Time `json:"day"`
	Load      float64   `json:"load"` // daily stress-score units
}

// State is the derived load snapshot. It is recomputed on demand from the
// sample series and never stored as an independent source of truth.
type State struct {
	Acute         float64  `json:"acute"`
	Chronic       float64  `json:"chronic"`
	Ratio         float64  `json:"ratio"`
	Zone          RiskZone `json:"zone"`
	Spike         bool     `json:"spike"`
	LowConfidence bool     `json:"lowConfidence"`
	Days          int      `json:"days"` // calendar days covered by the series
}

// ComputeState recomputes acute and chronic EWMAs from the full retained
// series. Days without a sample count as zero load so that decay advances
// over calendar time. The chronic average deliberately excludes the most
// recent acute window, so that a short-term jump moves the ratio instead
// of dragging its own baseline up with it.
//
// Sparse data never raises an error: a series shorter than the chronic
// window is computed over whatever is available and marked low confidence.
func ComputeState(samples []Sample) State {
	if len(samples) == 0 {
		return State{Zone: RiskDetraining, LowConfidence: true}
	}

	daily := dailySeries(samples)
	days := len(daily)

	acute := ewma(daily, acuteAlpha)

	chronicSeries := daily
	if days > acuteWindowDays {
		chronicSeries = daily[:days-acuteWindowDays]
	}
	chronic := ewma(chronicSeries, chronicAlpha)

	ratio := 0.0
	if chronic > 0 {
		ratio = acute / chronic
	}

	return State{
		Acute:         acute,
		Chronic:       chronic,
		Ratio:         ratio,
		Zone:          Classify(ratio),
		Spike:         detectSpike(daily),
		LowConfidence: days < chronicWindowDays,
		Days:          days,
	}
}

// Classify maps an acute:chronic ratio onto its risk zone.
func Classify(ratio float64) RiskZone {
	switch {
	case ratio < 0.8:
		return RiskDetraining
	case ratio <= 1.3:
		return RiskOptimal
	case ratio <= 1.5:
		return RiskCaution
	default:
		return RiskDanger
	}
}

// detectSpike checks whether the ratio rose by spikeRelativeChange or more
// between the last day and any of the spikeWindowDays days before it.
func detectSpike(daily []float64) bool {
	ratios := ratioSeries(daily)
	n := len(ratios)
	if n < 2 {
		return false
	}

	current := ratios[n-1]
	for back := 1; back <= spikeWindowDays && n-1-back >= 0; back++ {
		prev := ratios[n-1-back]
		if prev <= 0 {
			continue
		}
		if (current-prev)/prev >= spikeRelativeChange {
			return true
		}
	}
	return false
}

// ratioSeries computes the day-by-day acute:chronic ratio over the daily
// series, applying the same chronic lag as ComputeState.
func ratioSeries(daily []float64) []float64 {
	ratios := make([]float64, len(daily))

	acute := daily[0]
	chronics := make([]float64, len(daily))
	chronic := daily[0]
	for i, v := range daily {
		if i > 0 {
			chronic += chronicAlpha * (v - chronic)
			acute += acuteAlpha * (v - acute)
		}
		chronics[i] = chronic

		lagged := chronics[0]
		if i >= acuteWindowDays {
			lagged = chronics[i-acuteWindowDays]
		}
		if lagged > 0 {
			ratios[i] = acute / lagged
		}
	}
	return ratios
}

func ewma(series []float64, alpha float64) float64 {
	if len(series) == 0 {
		return 0
	}
	avg := series[0]
	for _, v := range series[1:] {
		avg += alpha * (v - avg)
	}
	return avg
}

// dailySeries expands the samples into one value per calendar day between
// the first and last recorded day, sorted ascending, with missing days as
// zero load. Duplicate days keep the later entry.
func dailySeries(samples []Sample) []float64 {
	byDay := make(map[time.Time]float64, len(samples))
	var first, last time.Time
	for _, s := range samples {
		day := s.Day.UTC().Truncate(24 * time.Hour)
		byDay[day] = s.Load
		if first.IsZero() || day.Before(first) {
			first = day
		}
		if last.IsZero() || day.After(last) {
			last = day
		}
	}

	var daily []float64
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		daily = append(daily, byDay[d])
	}
	return daily
}

// SortSamples orders a sample slice by day ascending, in place.
func SortSamples(samples []Sample) {
	sort.Slice(samples, func(i, j int) bool {
		return samples[i].Day.Before(samples[j].Day)
	})
}
