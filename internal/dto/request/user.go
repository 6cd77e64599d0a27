package request

type CreateUserRequest struct {
	Name     string `json:"name" validate:"personname"`
	Email    string `json:"email" validate:"emailaddr,max=255"`
	Address  string `json:"address" validate:"address"`
	Password string `json:"password" validate:"password"`
	Role     string `json:"role" validate:"required,oneof=ADMIN USER STORE_OWNER"`
}

type ListUsersRequest struct {
	PaginatedRequest
	Name    string `json:"name" validate:"max=60"`
	Email   string `json:"email" validate:"max=255"`
	Address string `json:"address" validate:"max=400"`
	Role    string `json:"role" validate:"omitempty,oneof=ADMIN USER STORE_OWNER"`
	Sort    string `json:"sort" validate:"omitempty,oneof=name email address role"`
	Order   string `json:"order" validate:"omitempty,oneof=asc desc"`
}
