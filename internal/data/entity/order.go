package entity

// OrderItem references a lesson and how many spaces were booked on it.
type OrderItem struct {
	LessonID int64 `json:"id"`
	Quantity int   `json:"quantity"`
}

// Order is immutable once inserted.
type Order struct {
	BaseSimple
	CustomerName  string      `db:"customer_name"`
	CustomerPhone string      `db:"customer_phone"`
	Items         []OrderItem `db:"items"` // stored as JSONB
}
