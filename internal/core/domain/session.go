package domain

// Identity is what an identity provider returns for valid credentials.
type Identity struct {
	// UserID is the provider's opaque user identifier. It is the partition
	// key for every document, chunk and message.
	UserID string

	// Email is the address the user authenticated with.
	Email string

	// IDToken is the provider's session token, when it issues one.
	IDToken string
}

// Session is the user a command acts on behalf of.
// It is passed explicitly into services; nothing in the core holds a current user.
type Session struct {
	UserID string
	Email  string
}

// IsAuthenticated returns true if the session names a user.
func (s Session) IsAuthenticated() bool {
	return s.UserID != ""
}
