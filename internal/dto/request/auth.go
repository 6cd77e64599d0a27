package request

type RegisterRequest struct {
	Name     string `json:"name" validate:"personname"`
	Email    string `json:"email" validate:"emailaddr,max=255"`
	Address  string `json:"address" validate:"address"`
	Password string `json:"password" validate:"password"`
}

// LoginRequest only checks presence: a wrong password must look the same
// as an unknown email.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"password"`
}
