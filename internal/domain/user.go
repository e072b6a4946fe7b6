package domain

import "github.com/google/uuid"

// User is the identity of a co-owner as issued by the external identity
// provider. The engine never creates or mutates users; it only reads them to
// attach a full identity to settlement results.
type User struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}
