package domain

import "gonum.org/v1/gonum/stat"

// AddAnomalies computes the monthly climatological baseline and appends the
// climatology_mean, temp_anomaly, and anomaly_category columns.
//
// The baseline for calendar month M (1-12, independent of year) is the mean
// of temp_mean across every day of the series falling in month M, over all
// years present. A single year of data degrades gracefully to that year's
// mean. Days with missing temp_mean contribute nothing to their month's
// baseline and receive a missing anomaly. The baseline is computed over the
// requested range, not an external reference period.
func AddAnomalies(s Series) Series {
	byMonth := make(map[int][]float64, 12)
	for _, d := range s {
		if d.TempMean != nil {
			m := int(d.Date.Month())
			byMonth[m] = append(byMonth[m], *d.TempMean)
		}
	}

	baseline := make(map[int]float64, len(byMonth))
	for m, values := range byMonth {
		baseline[m] = stat.Mean(values, nil)
	}

	out := s.Clone()
	for i := range out {
		d := &out[i]
		base, ok := baseline[int(d.Date.Month())]
		if !ok {
			continue
		}
		d.ClimatologyMean = Float(base)
		if d.TempMean == nil {
			continue
		}
		anomaly := *d.TempMean - base
		d.TempAnomaly = Float(anomaly)
		d.AnomalyCategory = anomalyCategory(anomaly)
	}
	return out
}

// anomalyCategory buckets an anomaly in degrees Celsius into the five
// user-facing labels. Break points are right-closed: an anomaly of exactly
// -2 is Very Cold and exactly +2 is Warm.
func anomalyCategory(a float64) string {
	switch {
	case a <= -2:
		return "Very Cold"
	case a <= -1:
		return "Cold"
	case a <= 1:
		return "Normal"
	case a <= 2:
		return "Warm"
	default:
		return "Very Warm"
	}
}
