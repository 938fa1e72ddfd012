package books

type CreateBookPayload struct {
	Title           string   `json:"title" validate:"required,max=300"`
	Author          string   `json:"author" validate:"required,max=200"`
	Genre           string   `json:"genre" validate:"required,max=100"`
	PublicationDate string   `json:"publicationDate" validate:"required,date,ne="`
	Reviews         []string `json:"reviews,omitempty" validate:"omitempty,dive,max=2000"`
}

type UpdateBookPayload struct {
	Title           *string `json:"title,omitempty" validate:"omitempty,max=300"`
	Author          *string `json:"author,omitempty" validate:"omitempty,max=200"`
	Genre           *string `json:"genre,omitempty" validate:"omitempty,max=100"`
	PublicationDate *string `json:"publicationDate,omitempty" validate:"omitempty,date"`
}

type AddReviewPayload struct {
	Review string `json:"review" validate:"required,max=2000"`
}
