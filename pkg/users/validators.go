package users

type CreateUserPayload struct {
	Email string `json:"email" validate:"required,email,max=200"`
	Name  string `json:"name,omitempty" validate:"omitempty,max=200"`
}
