package readinglist

type AddToListPayload struct {
	UID    string `json:"uid" validate:"required,max=100"`
	BookID string `json:"bookId" validate:"required,max=100"`
}

type ListMembershipsQuery struct {
	List string `query:"list" json:"list" validate:"required"`
	UID  string `query:"uid" json:"uid" validate:"required,max=100"`
}
