package request

type SubmitRatingRequest struct {
	StoreID string `json:"store_id" validate:"required,uuid"`
	Value   int    `json:"value" validate:"rating"`
}

type UpdateRatingRequest struct {
	Value int `json:"value" validate:"rating"`
}
