package models

import "strings"

// Identity is the caller as described by the identity provider's token.
type Identity struct {
	ExternalID string `json:"sub"`
	Email      string `json:"email,omitempty"`
	Username   string `json:"username,omitempty"`
	Picture    string `json:"picture,omitempty"`
}

// DisplayName falls back to the local part of the email address when the
// provider did not supply a username.
func (i *Identity) DisplayName() string {
	if name := strings.TrimSpace(i.Username); name != "" {
		return name
	}
	if local, _, ok := strings.Cut(i.Email, "@"); ok && local != "" {
		return local
	}
	return i.ExternalID
}
