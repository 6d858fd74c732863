package response

import "course-booking/internal/data/entity"

type LessonResponse struct {
	ID       int64   `json:"id"`
	Subject  string  `json:"subject"`
	Location string  `json:"location"`
	Price    float64 `json:"price"`
	Spaces   int     `json:"spaces"`
	Image    string  `json:"image,omitempty"`
}

func LessonToResponse(lesson *entity.Lesson) LessonResponse {
	return LessonResponse{
		ID:       lesson.ID,
		Subject:  lesson.Subject,
		Location: lesson.Location,
		Price:    lesson.Price,
		Spaces:   lesson.Spaces,
		Image:    lesson.Image,
	}
}

func LessonsToResponse(lessons []*entity.Lesson) []LessonResponse {
	resp := make([]LessonResponse, len(lessons))
	for i, lesson := range lessons {
		resp[i] = LessonToResponse(lesson)
	}
	return resp
}
