package model

import "time"

// Role controls access to the admin surface.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Account is a persisted platform user. CredentialDigest is a deterministic,
// equality-only digest of the credential — explicitly not a security-grade
// hash (see service.DigestCredential); it never leaves the account table.
type Account struct {
	ID               string     `json:"id"`
	Username         string     `json:"username"`
	Email            string     `json:"email"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	Company          string     `json:"company"`
	CredentialDigest string     `json:"credential_digest"`
	Role             Role       `json:"role"`
	CreatedAt        time.Time  `json:"created_at"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`
}

// View returns the credential-stripped representation handed to sessions and
// API responses.
func (a Account) View() AccountView {
	return AccountView{
		ID:          a.ID,
		Username:    a.Username,
		Email:       a.Email,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		Company:     a.Company,
		Role:        a.Role,
		CreatedAt:   a.CreatedAt,
		LastLoginAt: a.LastLoginAt,
	}
}

// AccountView is an Account without its credential digest.
type AccountView struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Company     string     `json:"company"`
	Role        Role       `json:"role"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// Session is the ephemeral view of a logged-in account. The token ID must
// match the account's session slot in the record store.
type Session struct {
	Account  AccountView `json:"account"`
	TokenID  string      `json:"token_id"`
	IssuedAt time.Time   `json:"issued_at"`
}

// AdminRosterEntry is a pre-provisioned admin identity. When a roster exists,
// the first-signup-becomes-admin rule is disabled and roster identities always
// authenticate with the admin role.
type AdminRosterEntry struct {
	Email            string `json:"email"`
	DisplayName      string `json:"display_name"`
	CredentialDigest string `json:"credential_digest"`
}

// SignupRequest is the payload for account creation.
type SignupRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=40"`
	Email     string `json:"email" binding:"required,email,max=120"`
	Password  string `json:"password" binding:"required,min=6,max=128"`
	FirstName string `json:"first_name" binding:"required,min=1,max=60"`
	LastName  string `json:"last_name" binding:"required,min=1,max=60"`
	Company   string `json:"company" binding:"omitempty,max=120"`
}

// LoginRequest is the payload for authentication. Identifier matches the
// username or the email of an account.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required,min=3,max=120"`
	Password   string `json:"password" binding:"required,min=1,max=128"`
}
