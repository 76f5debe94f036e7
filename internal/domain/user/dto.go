package user

// UserResponse represents user data in API responses
type UserResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Department string `json:"department"`
	Role       string `json:"role"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
}

// ToResponse converts a User entity to UserResponse.
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		Department: u.Department,
		Role:       string(u.Role),
		Status:     string(u.Status),
		CreatedAt:  u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
