package application

import "time"

// Clock interface supaya gampang ditest
type Clock interface {
	Now() time.Time
}

// SystemClock implementasi default, pakai time.Now(). Satisfies the
// Clock interface of every component package, asset timestamps and
// corpus snapshot age all come from here.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
