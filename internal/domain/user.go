package domain

import (
	"context"
	"time"
)

// User is the subset of the network's user record this service reads.
type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	FullName       string    `json:"full_name"`
	HashedPassword string    `json:"-"`
	IsAlumni       bool      `json:"is_alumni"`
	Bio            *string   `json:"bio"`
	ProfilePic     *string   `json:"profile_pic"`
	CreatedAt      time.Time `json:"created_at"`
}

// UserDirectory resolves user records. Lookups that match nothing return ErrUserNotFound.
type UserDirectory interface {
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByIDs(ctx context.Context, ids []int64) ([]User, error)
}
