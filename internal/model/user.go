// internal/model/user.go
package model

// Role represents the role of a registered card holder
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// IsValid checks whether the role is one of the known values
func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	default:
		return false
	}
}

// RegisteredUser represents a card holder known to the registry
type RegisteredUser struct {
	CardID  string `json:"card_id"`
	Role    Role   `json:"role"`
	Name    string `json:"name"`
	RollNo  string `json:"roll_no,omitempty"`
	Subject string `json:"subject,omitempty"`
}
