package biz

import (
	"context"
	"errors"
)

// ErrDirectoryUnavailable reports that the user directory could not serve a
// lookup or upsert. Login attempts that hit it are terminal; nothing is
// retried.
var ErrDirectoryUnavailable = errors.New("user directory unavailable")

// User is a local account created from a provider login. SubjectID is the
// provider's stable identifier and never changes after creation; the other
// profile fields track the provider's latest values on every login.
type User struct {
	ID        int64
	SubjectID string
	Email     string
	Name      string
	AvatarURL string
}

// UserRepo is the user directory: a keyed store from provider subject id to
// local user record. Upsert semantics only, never delete.
type UserRepo interface {
	// FindBySubject returns the user for a subject id, or nil when absent.
	FindBySubject(ctx context.Context, subjectID string) (*User, error)

	// Upsert creates the user on first login and overwrites the mutable
	// profile fields (email, name, avatar) on every later one.
	Upsert(ctx context.Context, subjectID, email, name, avatarURL string) (*User, error)

	Close() error
}
