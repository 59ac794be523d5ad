package reviews

import "time"

type Review struct {
	Id        string    `json:"id"`
	MovieId   string    `json:"movieId"`
	UserId    string    `json:"userId"`
	Username  string    `json:"username"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type NewReviewRequest struct {
	Rating  int    `json:"rating" validate:"gte=1,lte=10"`
	Comment string `json:"comment" validate:"notblank,max=1000"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating,omitempty" validate:"omitempty,gte=1,lte=10"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,notblank,max=1000"`
}
