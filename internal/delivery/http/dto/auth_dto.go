package dto

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse represents the registration response
type RegisterResponse struct {
	Message string      `json:"message"`
	User    *UserOutput `json:"user"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    *UserOutput `json:"user"`
}

// VerifyTokenResponse echoes the decoded token claims
type VerifyTokenResponse struct {
	Message string      `json:"message"`
	User    interface{} `json:"user"`
}
