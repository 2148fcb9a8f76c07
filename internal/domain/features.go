package domain

import "time"

// AddFeatures appends the basic derived columns: temp_mean, temp_range, and
// the calendar columns (year, month, day of year, season). If either
// temperature input is missing for a day, both derived temperatures are
// missing for that day; there is no partial derivation. Rows are never added:
// gaps in the date sequence stay gaps.
func AddFeatures(s Series) Series {
	out := s.Clone()
	for i := range out {
		d := &out[i]
		if d.TempMax != nil && d.TempMin != nil {
			d.TempMean = Float((*d.TempMax + *d.TempMin) / 2)
			d.TempRange = Float(*d.TempMax - *d.TempMin)
		}
		d.Year = d.Date.Year()
		d.Month = int(d.Date.Month())
		d.DayOfYear = d.Date.YearDay()
		d.Season = seasonOf(d.Date.Month())
	}
	return out
}

// seasonOf maps a calendar month to its meteorological season in the
// northern hemisphere.
func seasonOf(m time.Month) string {
	switch m {
	case time.December, time.January, time.February:
		return "Winter"
	case time.March, time.April, time.May:
		return "Spring"
	case time.June, time.July, time.August:
		return "Summer"
	default:
		return "Fall"
	}
}
