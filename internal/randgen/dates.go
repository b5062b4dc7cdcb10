package randgen

import "time"

// DateBetween returns a uniform whole day in the inclusive range
// [start, end]. Both bounds are expected to be midnight-normalized.
func (s *Source) DateBetween(start, end time.Time) time.Time {
	days := int(end.Sub(start).Hours()/24) + 1
	return start.AddDate(0, 0, int(s.Float64()*float64(days)))
}

// TimeOnDate returns a business-hours timestamp (08:00-18:00) on the
// given day.
func (s *Source) TimeOnDate(date time.Time) time.Time {
	hour := 8 + int(s.Float64()*10)
	min := int(s.Float64() * 60)
	sec := int(s.Float64() * 60)
	return time.Date(date.Year(), date.Month(), date.Day(), hour, min, sec, 0, time.UTC)
}
