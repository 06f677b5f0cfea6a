package entity

import (
	"time"
)

type Movie struct {
	Base
	Title             string     `db:"title"`
	DurationInMinutes int        `db:"duration_in_minutes"`
	ReleaseDate       time.Time  `db:"release_date"`
	EndDate           *time.Time `db:"end_date"`
}
