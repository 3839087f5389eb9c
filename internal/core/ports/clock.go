package ports

import "time"

// Clock supplies the current time. Run directory naming depends on it.
//
//go:generate mockgen -source=clock.go -destination=mocks/mock_clock.go -package=mocks
type Clock interface {
	Now() time.Time
}
