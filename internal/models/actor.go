package models

import "github.com/google/uuid"

// Actor is who confirms a match: a user, or the auto-matcher.
type Actor struct {
	userID *uuid.UUID
}

func UserActor(id uuid.UUID) Actor {
	return Actor{userID: &id}
}

func SystemActor() Actor {
	return Actor{}
}

func (a Actor) IsSystem() bool {
	return a.userID == nil
}

// MatchType derives the record's match type from who acted.
func (a Actor) MatchType() MatchType {
	if a.IsSystem() {
		return MatchAuto
	}
	return MatchManual
}

// String is what gets persisted in the record's MatchedBy column.
func (a Actor) String() string {
	if a.IsSystem() {
		return "system"
	}
	return a.userID.String()
}
