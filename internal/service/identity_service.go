package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lumenlms/lumen-backend/internal/config"
	"github.com/lumenlms/lumen-backend/internal/model"
	"github.com/lumenlms/lumen-backend/internal/store"
)

// IdentityService owns the account table, the admin roster and session slots.
// It is the only component that mutates accounts.
type IdentityService struct {
	store store.Store
	log   zerolog.Logger
	now   func() time.Time
}

// NewIdentityService creates an IdentityService on top of the record store.
func NewIdentityService(st store.Store, log zerolog.Logger) *IdentityService {
	return &IdentityService{
		store: st,
		log:   log.With().Str("component", "identity_service").Logger(),
		now:   time.Now,
	}
}

// DigestCredential computes the stored form of a credential: FNV-1a 64,
// hex-encoded. Deterministic and equality-only by contract — this is NOT a
// security-grade hash. It stands in for a real KDF in this single-client,
// locally-trusted store; any production hardening pass must replace it.
func DigestCredential(credential string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(credential))
	return fmt.Sprintf("%016x", h.Sum64())
}

// Signup creates an account and establishes a session for it.
// Username and email must be globally unique (ErrDuplicateIdentity).
// The first-ever account becomes admin unless an admin roster is provisioned.
func (s *IdentityService) Signup(ctx context.Context, req model.SignupRequest) (*model.Session, error) {
	accounts, err := s.accounts(ctx)
	if err != nil {
		return nil, err
	}

	for _, a := range accounts {
		if strings.EqualFold(a.Username, req.Username) || strings.EqualFold(a.Email, req.Email) {
			return nil, ErrDuplicateIdentity
		}
	}

	role := model.RoleUser
	if len(accounts) == 0 && !s.rosterExists(ctx) {
		role = model.RoleAdmin
	}

	account := model.Account{
		ID:               uuid.New().String(),
		Username:         req.Username,
		Email:            req.Email,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Company:          req.Company,
		CredentialDigest: DigestCredential(req.Password),
		Role:             role,
		CreatedAt:        s.now().UTC(),
	}

	accounts = append(accounts, account)
	if err := s.store.Set(ctx, config.StoreKey.AccountTableKey(), accounts); err != nil {
		return nil, fmt.Errorf("persist accounts: %w", err)
	}

	// A fresh account starts with an empty progress record; only the meta
	// timestamps need writing.
	meta := model.ProgressMeta{StartedAt: account.CreatedAt, LastActivity: account.CreatedAt}
	if err := s.store.Set(ctx, config.StoreKey.ProgressMetaKey(account.ID), meta); err != nil {
		return nil, fmt.Errorf("init progress meta: %w", err)
	}

	s.log.Info().Str("account_id", account.ID).Str("role", string(role)).Msg("Account created")
	return s.establishSession(ctx, account)
}

// Login authenticates by username or email plus credential, updates the
// account's last-login stamp and establishes a session. Roster identities
// authenticate the same way and are materialized as admin accounts on first
// login.
func (s *IdentityService) Login(ctx context.Context, identifier, credential string) (*model.Session, error) {
	digest := DigestCredential(credential)

	accounts, err := s.accounts(ctx)
	if err != nil {
		return nil, err
	}

	for i := range accounts {
		a := &accounts[i]
		if !strings.EqualFold(a.Username, identifier) && !strings.EqualFold(a.Email, identifier) {
			continue
		}
		if a.CredentialDigest != digest {
			return nil, ErrInvalidCredentials
		}
		now := s.now().UTC()
		a.LastLoginAt = &now
		if err := s.store.Set(ctx, config.StoreKey.AccountTableKey(), accounts); err != nil {
			return nil, fmt.Errorf("persist accounts: %w", err)
		}
		return s.establishSession(ctx, *a)
	}

	if entry, ok := s.rosterMatch(ctx, identifier, digest); ok {
		account, err := s.materializeRosterAccount(ctx, entry, accounts)
		if err != nil {
			return nil, err
		}
		return s.establishSession(ctx, account)
	}

	return nil, ErrInvalidCredentials
}

// Logout clears the account's session slot. Idempotent: logging out twice,
// or with no session at all, succeeds. Account records are untouched —
// sessions live under their own key family.
func (s *IdentityService) Logout(ctx context.Context, accountID string) error {
	return s.store.Remove(ctx, config.StoreKey.SessionKey(accountID))
}

// CurrentSession returns the account's active session, if any.
func (s *IdentityService) CurrentSession(ctx context.Context, accountID string) (*model.Session, bool, error) {
	var sess model.Session
	ok, err := store.Load(ctx, s.store, config.StoreKey.SessionKey(accountID), &sess)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	return &sess, true, nil
}

// RequireAdmin gates the admin surface: nil session or a non-admin role fails
// with ErrForbidden. Every analytics and bulk query must pass through it.
func (s *IdentityService) RequireAdmin(sess *model.Session) error {
	if sess == nil || sess.Account.Role != model.RoleAdmin {
		return ErrForbidden
	}
	return nil
}

// ListAccounts returns every account, credential-stripped. Admin only.
func (s *IdentityService) ListAccounts(ctx context.Context, sess *model.Session) ([]model.AccountView, error) {
	if err := s.RequireAdmin(sess); err != nil {
		return nil, err
	}
	accounts, err := s.accounts(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]model.AccountView, 0, len(accounts))
	for _, a := range accounts {
		views = append(views, a.View())
	}
	return views, nil
}

// GetAccount returns one account by ID, credential-stripped.
func (s *IdentityService) GetAccount(ctx context.Context, accountID string) (model.AccountView, error) {
	accounts, err := s.accounts(ctx)
	if err != nil {
		return model.AccountView{}, err
	}
	for _, a := range accounts {
		if a.ID == accountID {
			return a.View(), nil
		}
	}
	return model.AccountView{}, ErrAccountNotFound
}

// Accounts returns the raw account table. Analytics reads it through this.
func (s *IdentityService) Accounts(ctx context.Context) ([]model.Account, error) {
	return s.accounts(ctx)
}

// ProvisionRosterEntry adds (or replaces) a pre-provisioned admin identity.
// Used by cmd/create-admin.
func (s *IdentityService) ProvisionRosterEntry(ctx context.Context, entry model.AdminRosterEntry) error {
	roster := s.roster(ctx)
	replaced := false
	for i := range roster {
		if strings.EqualFold(roster[i].Email, entry.Email) {
			roster[i] = entry
			replaced = true
		}
	}
	if !replaced {
		roster = append(roster, entry)
	}
	if err := s.store.Set(ctx, config.StoreKey.AdminRosterKey(), roster); err != nil {
		return fmt.Errorf("persist roster: %w", err)
	}
	return nil
}

func (s *IdentityService) establishSession(ctx context.Context, account model.Account) (*model.Session, error) {
	sess := model.Session{
		Account:  account.View(),
		TokenID:  uuid.New().String(),
		IssuedAt: s.now().UTC(),
	}
	if err := s.store.Set(ctx, config.StoreKey.SessionKey(account.ID), sess); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	return &sess, nil
}

func (s *IdentityService) accounts(ctx context.Context) ([]model.Account, error) {
	var accounts []model.Account
	if _, err := store.Load(ctx, s.store, config.StoreKey.AccountTableKey(), &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (s *IdentityService) roster(ctx context.Context) []model.AdminRosterEntry {
	var roster []model.AdminRosterEntry
	ok, err := store.Load(ctx, s.store, config.StoreKey.AdminRosterKey(), &roster)
	if err != nil || !ok {
		return nil
	}
	return roster
}

func (s *IdentityService) rosterExists(ctx context.Context) bool {
	return len(s.roster(ctx)) > 0
}

func (s *IdentityService) rosterMatch(ctx context.Context, identifier, digest string) (model.AdminRosterEntry, bool) {
	for _, e := range s.roster(ctx) {
		if strings.EqualFold(e.Email, identifier) && e.CredentialDigest == digest {
			return e, true
		}
	}
	return model.AdminRosterEntry{}, false
}

func (s *IdentityService) materializeRosterAccount(ctx context.Context, entry model.AdminRosterEntry, accounts []model.Account) (model.Account, error) {
	now := s.now().UTC()
	account := model.Account{
		ID:               uuid.New().String(),
		Username:         entry.Email,
		Email:            entry.Email,
		FirstName:        entry.DisplayName,
		CredentialDigest: entry.CredentialDigest,
		Role:             model.RoleAdmin,
		CreatedAt:        now,
		LastLoginAt:      &now,
	}
	accounts = append(accounts, account)
	if err := s.store.Set(ctx, config.StoreKey.AccountTableKey(), accounts); err != nil {
		return model.Account{}, fmt.Errorf("persist accounts: %w", err)
	}
	meta := model.ProgressMeta{StartedAt: now, LastActivity: now}
	if err := s.store.Set(ctx, config.StoreKey.ProgressMetaKey(account.ID), meta); err != nil {
		return model.Account{}, fmt.Errorf("init progress meta: %w", err)
	}
	s.log.Info().Str("email", entry.Email).Msg("Roster admin materialized")
	return account, nil
}
