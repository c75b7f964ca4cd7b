package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is a user's permission level within their tenant
type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleUser   Role = "User"
	RoleViewer Role = "Viewer"
)

// roleCodes maps the numeric codes accepted by the API to roles
var roleCodes = []Role{RoleAdmin, RoleUser, RoleViewer}

// RoleFromCode converts the API's numeric role (0 Admin, 1 User, 2 Viewer)
func RoleFromCode(code int) (Role, bool) {
	if code < 0 || code >= len(roleCodes) {
		return "", false
	}
	return roleCodes[code], true
}

// User is a staff member of a tenant. The bearer credential is stored only as
// its SHA-256 digest.
type User struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	TenantID     uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:ux_users_tenant_email,priority:1" json:"tenantId"`
	Email        string    `gorm:"size:200;not null;uniqueIndex:ux_users_tenant_email,priority:2" json:"email"`
	FullName     string    `gorm:"size:200;not null" json:"fullName"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         Role      `gorm:"size:20;not null" json:"role"`
	APITokenHash string    `gorm:"size:64;not null;uniqueIndex:ux_users_api_token" json:"-"`
	CreatedAt    time.Time `gorm:"not null" json:"createdAt"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// CreateUserRequest is the body of POST /api/v1/users
type CreateUserRequest struct {
	Email     string      `json:"email" validate:"required,max=200,email"`
	FullName  string      `json:"fullName" validate:"required,max=200"`
	Password  string      `json:"password" validate:"required,min=8"`
	Role      *int        `json:"role" validate:"required,role"`
	BranchIDs []uuid.UUID `json:"branchIds"`
}

func (r *CreateUserRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
	r.FullName = strings.TrimSpace(r.FullName)
}

func (CreateUserRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"email.required":    "Email is required",
		"email.max":         "Email must not exceed 200 characters",
		"email.email":       "Email must be a valid email address",
		"fullName.required": "Full name is required",
		"fullName.max":      "Full name must not exceed 200 characters",
		"password.required": "Password is required",
		"password.min":      "Password must be at least 8 characters",
		"role.required":     "Role is required",
		"role.role":         roleMessage,
	}
}

const roleMessage = "Role must be 0 (Admin), 1 (User), or 2 (Viewer)"

// AssignRoleRequest is the body of PUT /api/v1/users/:id/role
type AssignRoleRequest struct {
	Role *int `json:"role" validate:"required,role"`
}

func (AssignRoleRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"role.required": "Role is required",
		"role.role":     roleMessage,
	}
}

// AssociateBranchesRequest is the body of PUT /api/v1/users/:id/branches. The
// list replaces the user's current branch set; an empty list clears it.
type AssociateBranchesRequest struct {
	BranchIDs []uuid.UUID `json:"branchIds" validate:"required"`
}

func (AssociateBranchesRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"branchIds.required": "Branch IDs are required",
	}
}

// UserResponse is the public representation of a user. APIToken is only
// populated in the response to a create.
type UserResponse struct {
	ID        uuid.UUID   `json:"id"`
	Email     string      `json:"email"`
	FullName  string      `json:"fullName"`
	Role      Role        `json:"role"`
	APIToken  *string     `json:"apiToken,omitempty"`
	BranchIDs []uuid.UUID `json:"branchIds"`
	CreatedAt time.Time   `json:"createdAt"`
}

func NewUserResponse(u User, branchIDs []uuid.UUID) UserResponse {
	if branchIDs == nil {
		branchIDs = []uuid.UUID{}
	}
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		BranchIDs: branchIDs,
		CreatedAt: u.CreatedAt,
	}
}
