package request

type CreateStoreRequest struct {
	Name    string `json:"name" validate:"personname"`
	Email   string `json:"email" validate:"emailaddr,max=255"`
	Address string `json:"address" validate:"address"`
	OwnerID string `json:"owner_id" validate:"required,uuid"`
}

type ListStoresRequest struct {
	PaginatedRequest
	Name    string `json:"name" validate:"max=60"`
	Address string `json:"address" validate:"max=400"`
	Sort    string `json:"sort" validate:"omitempty,oneof=name address avg_rating"`
	Order   string `json:"order" validate:"omitempty,oneof=asc desc"`
}
