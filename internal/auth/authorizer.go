package auth

import (
	"errors"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrDenied is returned when a secret matches no role.
	ErrDenied = errors.New("authentication failed")
	// ErrWeakPIN is returned when a new PIN is too short.
	ErrWeakPIN = errors.New("pin must be at least 4 characters")
)

// Role - What a caller may do
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCashier Role = "cashier"
)

// Authorizer maps a shared secret to a role.
type Authorizer interface {
	Authorize(secret string) (Role, error)
}

// PINAuthorizer keeps bcrypt hashes of the admin and cashier PINs.
type PINAuthorizer struct {
	mu          sync.RWMutex
	adminHash   []byte
	cashierHash []byte
}

// NewPINAuthorizer hashes the given PINs. An empty cashier PIN disables cashier login.
func NewPINAuthorizer(adminPIN, cashierPIN string) (*PINAuthorizer, error) {
	a := &PINAuthorizer{}
	if err := a.SetAdminPIN(adminPIN); err != nil {
		return nil, err
	}
	if cashierPIN != "" {
		h, err := HashPIN(cashierPIN)
		if err != nil {
			return nil, err
		}
		a.cashierHash = []byte(h)
	}
	return a, nil
}

func (a *PINAuthorizer) Authorize(secret string) (Role, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return "", ErrDenied
	}
	a.mu.RLock()
	defer a.mu.RUnlock()

	if bcrypt.CompareHashAndPassword(a.adminHash, []byte(secret)) == nil {
		return RoleAdmin, nil
	}
	if len(a.cashierHash) > 0 && bcrypt.CompareHashAndPassword(a.cashierHash, []byte(secret)) == nil {
		return RoleCashier, nil
	}
	return "", ErrDenied
}

// SetAdminPIN replaces the admin PIN. The value may already be a bcrypt hash
// (as found in backup files).
func (a *PINAuthorizer) SetAdminPIN(pin string) error {
	h, err := HashPIN(pin)
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.adminHash = []byte(h)
	a.mu.Unlock()
	return nil
}

// AdminHash is the stored hash, for backups.
func (a *PINAuthorizer) AdminHash() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return string(a.adminHash)
}

// IsHash reports whether s is a bcrypt hash rather than a plain PIN.
func IsHash(s string) bool {
	_, err := bcrypt.Cost([]byte(s))
	return err == nil
}

// HashPIN returns a bcrypt hash of pin, or pin itself if it is already a hash.
func HashPIN(pin string) (string, error) {
	pin = strings.TrimSpace(pin)
	if IsHash(pin) {
		return pin, nil
	}
	if len(pin) < 4 {
		return "", ErrWeakPIN
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// RequireAdmin authorizes secret and insists on the admin role.
func RequireAdmin(a Authorizer, secret string) error {
	role, err := a.Authorize(secret)
	if err != nil {
		return err
	}
	if role != RoleAdmin {
		return ErrDenied
	}
	return nil
}
