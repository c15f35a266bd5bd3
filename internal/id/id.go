package id

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// Session generates a UUID v4 identifying one beacon session.
// Format: xxxxxxxx-xxxx-4xxx-yxxx-xxxxxxxxxxxx
func Session() string {
	return uuid.NewString()
}

// IsSession reports whether s is a well-formed session identifier.
func IsSession(s string) bool {
	u, err := uuid.Parse(s)
	return err == nil && u.Version() == 4 && len(s) == 36
}

// Short generates a short random hex ID (16 characters).
func Short() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
