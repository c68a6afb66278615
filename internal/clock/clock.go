// Package clock provides an injectable time source so timing capture and
// age evaluation are deterministic under test.
package clock

import "time"

// Clock supplies the current time. NowMs feeds start/finish capture; Today
// feeds age-on-date eligibility checks.
type Clock interface {
	Now() time.Time
	NowMs() int64
	Today() time.Time
}

// System is the wall clock.
type System struct{}

func (System) Now() time.Time { return time.Now() }

func (System) NowMs() int64 { return time.Now().UnixMilli() }

func (System) Today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Frozen always reports the same instant.
type Frozen struct {
	Instant time.Time
}

func (f Frozen) Now() time.Time { return f.Instant }

func (f Frozen) NowMs() int64 { return f.Instant.UnixMilli() }

func (f Frozen) Today() time.Time {
	return time.Date(f.Instant.Year(), f.Instant.Month(), f.Instant.Day(), 0, 0, 0, 0, time.UTC)
}
