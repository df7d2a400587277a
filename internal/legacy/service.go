package legacy

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/adminkit/portal-core/storage/db"
	"github.com/google/uuid"
)

// Credentials are the configured legacy admin credentials.
type Credentials struct {
	Username string
	Password string
}

// Service authenticates legacy credentials and keeps the matching local
// user row current.
type Service struct {
	queries     *db.Queries
	credentials Credentials
}

func NewService(queries *db.Queries, credentials Credentials) *Service {
	return &Service{queries: queries, credentials: credentials}
}

// Authenticate verifies the credential pair and returns the session user
// data, upserting the local user row on success.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*UserData, error) {
	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.credentials.Username)) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.credentials.Password)) == 1
	if !usernameOK || !passwordOK {
		return nil, fmt.Errorf("invalid credentials")
	}

	user, err := s.queries.UpsertUserByUsername(ctx, db.UpsertUserByUsernameParams{
		ID:       uuid.New().String(),
		Username: username,
		Email:    "",
		FullName: username,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	return &UserData{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
	}, nil
}
