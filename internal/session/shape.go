package session

import (
	"time"

	"github.com/iMedia24/workplacify/internal/auth"
)

// View is the session object returned to callers of the session route.
type View struct {
	User    ViewUser  `json:"user"`
	Expires time.Time `json:"expires"`
}

type ViewUser struct {
	ID    string  `json:"id,omitempty"`
	Name  string  `json:"name,omitempty"`
	Email string  `json:"email,omitempty"`
	Image *string `json:"image,omitempty"`
}

// NewView builds the base view from the stored session and user record.
// It does not carry the user id; Shape adds it.
func NewView(s Session, user auth.User) View {
	return View{
		User: ViewUser{
			Name:  user.Name,
			Email: user.Email,
			Image: user.Image,
		},
		Expires: s.ExpiresAt,
	}
}

// Shape returns view with User.ID always set from user, overwriting
// whatever the view held. The input is not modified.
func Shape(view View, user auth.User) View {
	view.User.ID = user.ID
	return view
}
