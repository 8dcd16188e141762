package repositories

import "github.com/zaindgr8/inbound-call-agent/domain/entities"

// SessionRegistry maps call SIDs to live call sessions. Sessions are
// inserted on first use and deleted when the call's connection closes.
type SessionRegistry interface {
	// GetOrCreate returns the session for callSID, creating one with an
	// empty transcript and unset stream SID if none exists.
	GetOrCreate(callSID string) *entities.CallSession
	// Get returns the session for callSID, or nil.
	Get(callSID string) *entities.CallSession
	// Delete removes the session for callSID.
	Delete(callSID string)
	// Len reports the number of live sessions.
	Len() int
}
