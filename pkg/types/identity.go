package types

import "strings"

// Identity is the read-only record the identity provider hands us for a
// signed-in customer. A zero UID means no identity is present.
type Identity struct {
	UID         string `json:"uid"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// Present reports whether the identity carries a usable uid.
func (i Identity) Present() bool {
	return strings.TrimSpace(i.UID) != ""
}
