package domain

import "github.com/google/uuid"

// ClientID identifies an API client. It is the subject of its bearer token.
type ClientID uuid.UUID
