package models

import "time"

// Role is the part a member plays on a shopping list.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
)

// ShoppingList is a list of products shared between its members.
type ShoppingList struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Membership associates a user with a shopping list.
type Membership struct {
	ListID   string    `json:"list_id"`
	UserID   string    `json:"user_id"`
	Role     Role      `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// ShareInvitation is the payload carried by a share code. It is never stored.
type ShareInvitation struct {
	ListID   string
	IssuedAt time.Time
	Nonce    string
}

// Age reports how long ago the invitation was issued relative to now.
func (i ShareInvitation) Age(now time.Time) time.Duration {
	return now.Sub(i.IssuedAt)
}
