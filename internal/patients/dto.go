package patients

const (
	MinAge = 0
	MaxAge = 120
)

// Genders accepted on patient records.
var Genders = []string{"Male", "Female", "Other"}

// AddInput registers a patient. An empty ID is generated.
type AddInput struct {
	ID     string
	Name   string
	Age    int
	Gender string
}

// UpdateInput carries the demographic fields to change.
type UpdateInput struct {
	Name   *string
	Age    *int
	Gender *string
}

func (u UpdateInput) empty() bool {
	return u.Name == nil && u.Age == nil && u.Gender == nil
}
