package domain

import (
	"fmt"
	"time"
)

// ErrUserIDEmpty is returned when a user ID is zero. It wraps
// ErrValidation like the other entity field errors.
var ErrUserIDEmpty = fmt.Errorf("%w: user ID cannot be empty", ErrValidation)

// User is a learner identified by the chat platform's numeric user ID.
// Identity verification happens upstream; by the time a User reaches this
// code its ID is trusted. Profile fields mirror what the platform reports
// and are refreshed on every authenticated request.
type User struct {
	ID        int64     `json:"id"`
	Username  *string   `json:"username,omitempty"`
	FirstName *string   `json:"first_name,omitempty"`
	LastName  *string   `json:"last_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUser creates a User with the given platform ID and profile fields.
func NewUser(id int64, username, firstName, lastName *string) (*User, error) {
	user := &User{
		ID:        id,
		Username:  username,
		FirstName: firstName,
		LastName:  lastName,
		CreatedAt: time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == 0 {
		return ErrUserIDEmpty
	}
	return nil
}
