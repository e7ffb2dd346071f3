package models

import "github.com/google/uuid"

// DefaultSuffix is the marker appended to sandbox recipient addresses so
// outbound mail never reaches a real mailbox.
const DefaultSuffix = ".test"

// Policy captures the sanitization exemptions, injected at construction so
// the sanitizer never reads ambient configuration.
//
// Whitelist is kept as the raw configured string: membership is checked by
// lowercased substring containment, an exact port of the original check and
// a known false-positive risk (an address embedded in a longer whitelisted
// address is also exempted).
type Policy struct {
	Whitelist      string
	ExemptGroupIDs []string
	Suffix         string
}

// User is a directory record resolved by email for the group-exemption rule.
type User struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}
