package domain

import "time"

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// Account is owned by the wider account store. This service reads accounts
// to resolve a student id and only ever writes the `verified` flag.
type Account struct {
	AccountID string    `json:"id" dynamodbav:"account_id"`
	StudentID string    `json:"student_id" dynamodbav:"student_id"`
	Email     string    `json:"email" dynamodbav:"email"`
	Role      string    `json:"role" dynamodbav:"role"`
	IsActive  bool      `json:"is_active" dynamodbav:"is_active"`
	Verified  bool      `json:"verified" dynamodbav:"verified"`
	FullName  string    `json:"full_name" dynamodbav:"full_name"`
	Program   string    `json:"program" dynamodbav:"program"`
	ClassYear string    `json:"class_year" dynamodbav:"class_year"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}

// NeedsProfileSetup reports whether the student still has to complete
// onboarding after their first login.
func (a *Account) NeedsProfileSetup() bool {
	return a.FullName == "" || a.Program == "" || a.ClassYear == ""
}
