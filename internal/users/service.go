package users

import (
	"context"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"pragati/internal/auth"
	"pragati/internal/docstore"
	dErrors "pragati/pkg/domain-errors"
	"pragati/pkg/domain"
	"pragati/pkg/requestcontext"
)

// Service handles registration, login and account lookup.
type Service struct {
	store  docstore.Collection[*User]
	issuer *auth.TokenIssuer
	log    *slog.Logger
}

// NewService wires the user service.
func NewService(store docstore.Collection[*User], issuer *auth.TokenIssuer, log *slog.Logger) *Service {
	return &Service{store: store, issuer: issuer, log: log.With("module", "users")}
}

// Register creates an account. New accounts default to the citizen role;
// admin roles are granted by editing the record, not by self-registration.
func (s *Service) Register(ctx context.Context, u *User, password string) (*User, error) {
	if len(password) < 8 {
		return nil, dErrors.Validation("validation failed", map[string]string{"password": "must be at least 8 characters"})
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "hash password")
	}

	now := requestcontext.Now(ctx).UTC()
	u.ID = domain.NewRecordID()
	u.CreatedAt = now
	u.UpdatedAt = now
	u.PasswordHash = string(hash)
	u.Active = true
	if u.Role == "" {
		u.Role = auth.RoleCitizen
	}

	if err := s.store.Insert(ctx, u); err != nil {
		if dErrors.HasCode(err, dErrors.CodeConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "Username already taken")
		}
		return nil, err
	}
	s.log.InfoContext(ctx, "user registered", "username", u.Username, "role", u.Role)
	return u, nil
}

// Login verifies credentials and mints a token. Unknown usernames and wrong
// passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (string, *User, error) {
	invalid := dErrors.New(dErrors.CodeUnauthorized, "Invalid username or password")

	u, err := s.store.GetByRef(ctx, username)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return "", nil, invalid
		}
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", nil, invalid
	}
	if !u.Active {
		return "", nil, dErrors.New(dErrors.CodeForbidden, "Account is deactivated. Contact administrator.")
	}

	token, err := s.issuer.Issue(userIDOf(u), u.Role, requestcontext.Now(ctx))
	if err != nil {
		return "", nil, dErrors.Wrap(err, dErrors.CodeInternal, "issue token")
	}
	return token, u, nil
}

// Me returns the account behind the authenticated context.
func (s *Service) Me(ctx context.Context) (*User, error) {
	id := requestcontext.UserID(ctx)
	if id.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "No token provided. Authorization required.")
	}
	return s.store.Get(ctx, recordIDOf(id))
}

// List returns a page of accounts, optionally filtered by role or district.
func (s *Service) List(ctx context.Context, q docstore.Query) (docstore.Page[*User], error) {
	return s.store.List(ctx, q)
}

// SetActive toggles an account. The identifier is an account UUID or a
// username. Deactivated accounts keep their records but cannot log in.
func (s *Service) SetActive(ctx context.Context, idOrName string, active bool) (*User, error) {
	var u *User
	var err error
	if id, perr := domain.ParseRecordID(idOrName); perr == nil {
		u, err = s.store.Get(ctx, id)
	} else {
		u, err = s.store.GetByRef(ctx, idOrName)
	}
	if err != nil {
		return nil, err
	}

	if u.Active != active {
		u.Active = active
		u.UpdatedAt = requestcontext.Now(ctx).UTC()
		if err := s.store.Update(ctx, u); err != nil {
			return nil, err
		}
		s.log.InfoContext(ctx, "user active flag changed", "username", u.Username, "active", active)
	}
	return u, nil
}

// The account UUID doubles as the actor identity in tokens and audit trails.
func userIDOf(u *User) domain.UserID {
	return domain.UserID(u.ID)
}

func recordIDOf(id domain.UserID) domain.RecordID {
	return domain.RecordID(id)
}
