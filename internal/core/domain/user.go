package domain

// UserRecord is a provisioned account as held by a credential store.
// PasswordDigest never leaves the service layer; use Public to hand the user
// across any boundary.
type UserRecord struct {
	Username       string `yaml:"username"`
	Email          string `yaml:"email"`
	FullName       string `yaml:"full_name"`
	Disabled       bool   `yaml:"disabled"`
	PasswordDigest string `yaml:"hashed_password"`
}

// AuthenticatedUser is the digest-free projection of a UserRecord.
type AuthenticatedUser struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"full_name,omitempty"`
	Disabled bool   `json:"disabled"`
}

// Public returns the projection of r that is safe to return to callers.
func (r *UserRecord) Public() *AuthenticatedUser {
	return &AuthenticatedUser{
		Username: r.Username,
		Email:    r.Email,
		FullName: r.FullName,
		Disabled: r.Disabled,
	}
}
