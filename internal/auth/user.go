package auth

// User is the local user record an identity is linked to.
type User struct {
	ID            string
	Name          string
	Email         string
	EmailVerified bool
	Image         *string
}
