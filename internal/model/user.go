package model

import "time"

type User struct {
	ID            string     `json:"id" db:"id"`
	Name          string     `json:"name" db:"name"`
	Email         string     `json:"email" db:"email"`
	PasswordHash  string     `json:"-" db:"password_hash"`
	Phone         string     `json:"phone" db:"phone"`
	Address       string     `json:"address" db:"address"`
	Role          string     `json:"role" db:"role"`
	Active        bool       `json:"active" db:"active"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
	City          string     `json:"city" db:"city"`
	Country       string     `json:"country" db:"country"`
	Latitude      *float64   `json:"latitude,omitempty" db:"latitude"`
	Longitude     *float64   `json:"longitude,omitempty" db:"longitude"`
	Language      string     `json:"language" db:"language"`
	LoyaltyPoints int        `json:"loyalty_points" db:"loyalty_points"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserStats holds user counts for the admin views.
type UserStats struct {
	Total        int `json:"total"`
	Active       int `json:"active"`
	Admins       int `json:"admins"`
	NewThisMonth int `json:"new_this_month"`
}

type JWTClaims struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Exp   int64  `json:"exp"`
	Iat   int64  `json:"iat"`
	Iss   string `json:"iss"`
}

// IsAdmin reports whether the token was issued to an admin.
func (c *JWTClaims) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}
