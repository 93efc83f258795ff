package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

type User struct {
	bun.BaseModel `bun:"table:user"`
	ID            string    `bun:"id,pk" json:"id"`
	Username      string    `bun:"username" json:"username"`
	FullName      string    `bun:"full_name" json:"full_name"`
	Role          string    `bun:"role,default:'student'" json:"role"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at" json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserFromAuth carries the identity decoded from a bearer token; only the
// Authn middleware produces it.
type UserFromAuth struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}
