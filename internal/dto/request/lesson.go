package request

// LessonUpdateRequest is a partial update; absent fields stay unchanged.
// id may be echoed back by clients but must match the path id.
type LessonUpdateRequest struct {
	ID       *int64   `json:"id,omitempty"`
	Subject  *string  `json:"subject,omitempty"`
	Location *string  `json:"location,omitempty"`
	Price    *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Spaces   *int     `json:"spaces,omitempty" validate:"omitempty,gte=0,max=2147483647"`
	Image    *string  `json:"image,omitempty"`
}

// LessonSeed is one entry of the seed document {"Courses": [...]}.
type LessonSeed struct {
	ID       int64   `json:"id" validate:"gt=0"`
	Subject  string  `json:"subject" validate:"required"`
	Location string  `json:"location" validate:"required"`
	Price    float64 `json:"price" validate:"gte=0"`
	Spaces   int     `json:"spaces" validate:"gte=0,max=2147483647"`
	Image    string  `json:"image,omitempty"`
}

type SeedDocument struct {
	Courses []LessonSeed `json:"Courses" validate:"required,min=1,dive"`
}
