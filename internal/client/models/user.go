package models

// User is an account as listed by the user directory. The password is
// write-only and never kept locally.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

func (u User) GetID() int64 { return u.ID }

// UserUpdate is the field set sent by a user update.
type UserUpdate struct {
	Username string
	Password string
	Email    string
}

// Apply returns u with the update's visible fields.
func (upd UserUpdate) Apply(u User) User {
	u.Username = upd.Username
	u.Email = upd.Email
	return u
}
