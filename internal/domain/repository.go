package domain

import "context"

// UserRepository defines persistence for registered users.
type UserRepository interface {
	Create(ctx context.Context, user *User) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, limit int) ([]User, error)
	Stats(ctx context.Context) (*UserStats, error)
}
