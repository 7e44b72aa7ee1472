package request

type CreateReview struct {
	ProductID string `json:"product_id" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Title     string `json:"title" validate:"max=200"`
	Comment   string `json:"comment" validate:"required,max=1000"`
}

type UpdateReview struct {
	Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Title   *string `json:"title" validate:"omitempty,max=200"`
	Comment *string `json:"comment" validate:"omitempty,min=1,max=1000"`
}

type VoteReview struct {
	Helpful *bool `json:"helpful" validate:"required"`
}

type ReportReview struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type ReplyReview struct {
	Text string `json:"text" validate:"required,max=1000"`
}
