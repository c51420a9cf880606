package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/adminconsole/admin-console/internal/db/controller/user"
	"github.com/adminconsole/admin-console/internal/db/models"
	"github.com/adminconsole/admin-console/internal/identity"
)

// Recorder receives the activity entry written for a newly registered user.
type Recorder interface {
	Dispatch(ctx context.Context, action models.ActionType, title, description string, details any)
}

// Service turns verified ID tokens into local users.
type Service struct {
	db          *gorm.DB
	verifier    TokenVerifier
	adminEmails map[string]struct{}
	recorder    Recorder
}

// NewService creates a new auth service. A nil verifier disables authentication.
func NewService(db *gorm.DB, verifier TokenVerifier, adminEmails []string, recorder Recorder) *Service {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		admins[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}

	return &Service{
		db:          db,
		verifier:    verifier,
		adminEmails: admins,
		recorder:    recorder,
	}
}

// Enabled reports whether requests must carry a token.
func (s *Service) Enabled() bool {
	return s != nil && s.verifier != nil
}

// Authenticate verifies rawToken and returns the matching local user.
func (s *Service) Authenticate(ctx context.Context, rawToken string) (*models.User, error) {
	if rawToken == "" {
		return nil, ErrNoToken
	}

	claims, err := s.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	role := models.RoleUser
	if _, ok := s.adminEmails[strings.ToLower(claims.Email)]; ok {
		role = models.RoleAdmin
	}

	u, created, err := user.UpsertExternal(s.db.WithContext(ctx), claims.Subject, claims.Email, claims.Name, role)
	if err != nil {
		return nil, fmt.Errorf("failed to provision user: %w", err)
	}

	if !u.Active {
		return nil, ErrUserAccountDisabled
	}

	if created {
		log.Info().Str("email", u.Email).Str("role", string(u.Role)).Msg("registered new user")

		if s.recorder != nil {
			s.recorder.Dispatch(identity.WithUser(ctx, Identity(u)), models.ActionUserRegistered,
				"User registered", fmt.Sprintf("%s signed in for the first time", u.Email),
				map[string]any{"email": u.Email, "role": u.Role})
		}
	}

	return u, nil
}

// Identity converts a user row into the identity carried by request contexts.
func Identity(u *models.User) identity.User {
	name := u.FullName
	if name == "" {
		name = u.Email
	}

	return identity.User{ID: u.ID, Email: u.Email, DisplayName: name}
}
