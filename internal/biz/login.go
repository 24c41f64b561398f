package biz

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"auth-backend/internal/auth"
	"auth-backend/internal/provider"
)

// LoginUsecase runs the second half of the authorization-code flow:
// code → token → profile → local user → session credential.
type LoginUsecase struct {
	provider provider.Provider
	users    UserRepo
	codec    *auth.Codec
	timeout  time.Duration
}

// NewLoginUsecase creates a LoginUsecase. timeout bounds the outbound
// provider calls of a single login attempt.
func NewLoginUsecase(p provider.Provider, users UserRepo, codec *auth.Codec, timeout time.Duration) *LoginUsecase {
	return &LoginUsecase{
		provider: p,
		users:    users,
		codec:    codec,
		timeout:  timeout,
	}
}

// AuthCodeURL builds the provider consent URL for the given state.
func (uc *LoginUsecase) AuthCodeURL(state string) string {
	return uc.provider.AuthCodeURL(state)
}

// Complete exchanges the authorization code, fetches the profile, upserts
// the local user record, and issues a session credential for it. The first
// failing step aborts the attempt. Profile validation happens inside
// FetchProfile, so no record is created for an incomplete profile.
func (uc *LoginUsecase) Complete(ctx context.Context, code string) (*User, string, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	token, err := uc.provider.Exchange(ctx, code)
	if err != nil {
		return nil, "", err
	}

	profile, err := uc.provider.FetchProfile(ctx, token)
	if err != nil {
		return nil, "", err
	}

	user, err := uc.users.Upsert(ctx, profile.SubjectID, profile.Email, profile.Name, profile.AvatarURL)
	if err != nil {
		return nil, "", err
	}

	credential, err := uc.codec.Issue(strconv.FormatInt(user.ID, 10), user.Email, user.Name)
	if err != nil {
		return nil, "", fmt.Errorf("issue credential: %w", err)
	}
	return user, credential, nil
}
