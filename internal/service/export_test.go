package service

import "time"

// SetClock replaces the trip service clock. Test hook only.
func (s *TripService) SetClock(now func() time.Time) {
	s.now = now
}
