package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// RoomID names a chat room
type RoomID string

// PresenceRecord tracks a player's liveness and display data.
// A record is live iff now - LastSeen <= the registry TTL; the registry
// removes expired records lazily on every read path.
type PresenceRecord struct {
	PlayerID PlayerID
	Name     string
	LastSeen time.Time
	// ConnectionRef is the transport connection that last refreshed this
	// record. Diagnostics only, never dereferenced for ownership.
	ConnectionRef string
	Power         *int
	League        *string
	Profile       Profile
}

// Clone returns a deep copy so callers never share mutable state
func (r *PresenceRecord) Clone() *PresenceRecord {
	out := *r
	if r.Power != nil {
		p := *r.Power
		out.Power = &p
	}
	if r.League != nil {
		l := *r.League
		out.League = &l
	}
	out.Profile = r.Profile.Clone()
	return &out
}
