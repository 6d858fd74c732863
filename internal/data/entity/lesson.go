package entity

import "time"

// Lesson is one row of the "courses" inventory collection.
type Lesson struct {
	ID        int64     `db:"id"`
	Subject   string    `db:"subject"`
	Location  string    `db:"location"`
	Price     float64   `db:"price"`
	Spaces    int       `db:"spaces"` // never negative, enforced by CHECK and the reserve guard
	Image     string    `db:"image"`
	UpdatedAt time.Time `db:"updated_at"`
}

// LessonPatch holds the fields of a partial update; nil means "leave as is".
type LessonPatch struct {
	Subject  *string
	Location *string
	Price    *float64
	Spaces   *int
	Image    *string
}

func (p LessonPatch) IsEmpty() bool {
	return p.Subject == nil && p.Location == nil && p.Price == nil && p.Spaces == nil && p.Image == nil
}
