package domain

import "time"

// Identity is the stable key for a chat participant, supplied by the
// transport layer. The core never generates identities itself.
type Identity string

// Record binds an identity to its validated timezone.
type Record struct {
	Identity  Identity
	TZ        string    // canonical IANA name, validated before storage
	UpdatedAt time.Time // UTC
}

// NamedZone is one entry in a chat's timezone display list.
type NamedZone struct {
	Name string
	TZ   string
}

// MaxChatZones limits how many display zones a single chat may configure.
const MaxChatZones = 5
