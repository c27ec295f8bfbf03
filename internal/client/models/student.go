package models

// Student is a student score record. StudentNumber is the school-issued
// number; ID is the backend identity.
type Student struct {
	ID            int64   `json:"id"`
	StudentNumber string  `json:"studentId"`
	Name          string  `json:"studentName"`
	School        string  `json:"school"`
	ClassName     string  `json:"className"`
	Chinese       float64 `json:"chinese"`
	Math          float64 `json:"math"`
	English       float64 `json:"english"`
	Physics       float64 `json:"physics"`
	Chemistry     float64 `json:"chemistry"`
}

func (s Student) GetID() int64 { return s.ID }

// StudentInput carries the editable fields of a student record, used for
// both add and update.
type StudentInput struct {
	StudentNumber string  `json:"studentId"`
	Name          string  `json:"studentName"`
	School        string  `json:"school"`
	ClassName     string  `json:"className"`
	Chinese       float64 `json:"chinese"`
	Math          float64 `json:"math"`
	English       float64 `json:"english"`
	Physics       float64 `json:"physics"`
	Chemistry     float64 `json:"chemistry"`
}

// Apply returns a record with id and every field taken from in.
func (in StudentInput) Apply(id int64) Student {
	return Student{
		ID:            id,
		StudentNumber: in.StudentNumber,
		Name:          in.Name,
		School:        in.School,
		ClassName:     in.ClassName,
		Chinese:       in.Chinese,
		Math:          in.Math,
		English:       in.English,
		Physics:       in.Physics,
		Chemistry:     in.Chemistry,
	}
}

// Total is the sum of the five subject scores.
func (s Student) Total() float64 {
	return s.Chinese + s.Math + s.English + s.Physics + s.Chemistry
}
