package viewing

import (
	"fmt"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/gtank/ristretto255"
	"go.uber.org/zap"

	"github.com/jskoiz/zeraprivacy-sub001/curve"
	"github.com/jskoiz/zeraprivacy-sub001/elgamal"
	"github.com/jskoiz/zeraprivacy-sub001/privacyerr"
)

const derivationDomain = "zeraprivacy/viewing/derivation/v1"

// KeyConfig customizes viewing key generation. The zero value grants the
// default: view balances and amounts on all of the owner's accounts,
// never expiring, wrapped for the owner only.
type KeyConfig struct {
	Permissions *Permissions
	// ExpirationDays bounds the key lifetime; 0 means no expiry, and a
	// negative value produces a key that is already expired.
	ExpirationDays int
	// AuditorPublicKey wraps the private component for this auditor
	// instead of the owner.
	AuditorPublicKey *ristretto255.Element
}

// Manager derives, stores and exercises viewing keys for one owner
// identity. Generate and revoke on the same (owner, account) pair are
// serialized through the manager's mutex so concurrent grants cannot
// lose updates.
type Manager struct {
	ownerSeed []byte
	ownerKey  *elgamal.Keypair
	ownerID   string // base58 owner public key, part of every derivation path
	store     Store
	logger    *zap.Logger
	maxAmount uint64

	mu sync.Mutex
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the manager's structured logger.
func WithLogger(l *zap.Logger) ManagerOption {
	return func(m *Manager) { m.logger = l }
}

// WithMaxAmount sets the discrete-log search bound used by
// DecryptBalance.
func WithMaxAmount(max uint64) ManagerOption {
	return func(m *Manager) { m.maxAmount = max }
}

// NewManager creates a manager for the owner's signing identity. The
// signer's ed25519 seed anchors every derivation, so the same owner
// always regenerates identical key material for a given account.
func NewManager(ownerSigner solana.PrivateKey, store Store, opts ...ManagerOption) (*Manager, error) {
	if len(ownerSigner) != 64 {
		return nil, privacyerr.New(privacyerr.KindViewingKey, "viewing.NewManager", "invalid owner signing key length")
	}
	if store == nil {
		return nil, privacyerr.New(privacyerr.KindViewingKey, "viewing.NewManager", "nil store")
	}

	ownerKey, err := elgamal.DeriveKeypairFromSigner(ownerSigner)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		ownerSeed: append([]byte(nil), ownerSigner[:32]...),
		ownerKey:  ownerKey,
		ownerID:   ownerSigner.PublicKey().String(),
		store:     store,
		logger:    zap.NewNop(),
		maxAmount: elgamal.DefaultMaxAmount,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// DerivationPath returns the path binding a viewing key to this owner
// and account. It is injective in (owner, account): both components are
// base58 and the separator cannot appear inside either, so two accounts
// can never collide.
func (m *Manager) DerivationPath(account string) string {
	return fmt.Sprintf("zera/viewing/%s/%s", m.ownerID, account)
}

// GenerateViewingKey derives a viewing key for one of the owner's
// accounts. Key material is deterministic in (owner, account); the
// stored record carries the permissions and expiry applied at grant
// time.
func (m *Manager) GenerateViewingKey(account solana.PublicKey, cfg *KeyConfig) (*ViewingKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cfg == nil {
		cfg = &KeyConfig{}
	}

	path := m.DerivationPath(account.String())
	priv := curve.ScalarFromSeed(derivationDomain+"/"+path, m.ownerSeed)
	pub := curve.BaseMult(priv)

	recipient := m.ownerKey.PublicKey
	if cfg.AuditorPublicKey != nil {
		recipient = cfg.AuditorPublicKey
	}
	wrapped, err := wrapPrivateKey(priv, recipient)
	if err != nil {
		return nil, privacyerr.Wrap(privacyerr.KindViewingKey, "viewing.GenerateViewingKey", "failed to wrap private component", err)
	}

	perms := Permissions{CanViewBalances: true, CanViewAmounts: true}
	if cfg.Permissions != nil {
		perms = *cfg.Permissions
	}

	key := &ViewingKey{
		ID:                  uuid.NewString(),
		Account:             account.String(),
		PublicKey:           curve.EncodePoint(pub),
		EncryptedPrivateKey: wrapped,
		DerivationPath:      path,
		Permissions:         perms,
		CreatedAt:           time.Now().UTC(),
	}
	if cfg.ExpirationDays != 0 {
		exp := time.Now().UTC().AddDate(0, 0, cfg.ExpirationDays)
		key.ExpiresAt = &exp
	}

	if err := m.store.Put(key); err != nil {
		return nil, privacyerr.Wrap(privacyerr.KindViewingKey, "viewing.GenerateViewingKey", "failed to store key", err)
	}

	m.logger.Info("viewing key generated",
		zap.String("account", key.Account),
		zap.String("id", key.ID),
		zap.Bool("expires", key.ExpiresAt != nil),
	)
	return key.Clone(), nil
}

// IsValid reports whether the key is currently usable: not expired and
// granting at least one capability. Purely local, no store access.
func (m *Manager) IsValid(key *ViewingKey) bool {
	if key == nil {
		return false
	}
	if key.ExpiresAt != nil && !key.ExpiresAt.After(time.Now()) {
		return false
	}
	return key.Permissions.CanViewBalances || key.Permissions.CanViewAmounts
}

// CanAccessAccount reports whether the key's account scope covers the
// given account. An empty allow-list is a wildcard over the owner's
// accounts.
func CanAccessAccount(key *ViewingKey, account string) bool {
	if key == nil {
		return false
	}
	if len(key.Permissions.AllowedAccounts) == 0 {
		return true
	}
	for _, a := range key.Permissions.AllowedAccounts {
		if a == account {
			return true
		}
	}
	return false
}

// DecryptBalance decrypts an account's encrypted balance under a viewing
// key. It fails with a compliance error when the key is expired, lacks
// the balance capability, or does not cover the account — and with a
// typed encryption or viewing-key error on malformed inputs. It never
// returns a silent zero for an unauthorized read.
func (m *Manager) DecryptBalance(encryptedBalance []byte, key *ViewingKey, account string) (uint64, error) {
	if key == nil {
		return 0, privacyerr.New(privacyerr.KindViewingKey, "viewing.DecryptBalance", "nil viewing key")
	}
	if !m.IsValid(key) {
		return 0, privacyerr.New(privacyerr.KindCompliance, "viewing.DecryptBalance", "viewing key expired or revoked")
	}
	if !key.Permissions.CanViewBalances {
		return 0, privacyerr.New(privacyerr.KindCompliance, "viewing.DecryptBalance", "viewing key lacks balance permission")
	}
	if !CanAccessAccount(key, account) {
		return 0, privacyerr.New(privacyerr.KindCompliance, "viewing.DecryptBalance", "account outside viewing key scope")
	}

	ct, err := elgamal.CiphertextFromBytes(encryptedBalance)
	if err != nil {
		return 0, err
	}

	// The owner re-derives the private component from the path instead
	// of unwrapping it; a stored key whose public half no longer matches
	// the derivation is rejected outright.
	priv := curve.ScalarFromSeed(derivationDomain+"/"+key.DerivationPath, m.ownerSeed)
	pub, err := curve.ParsePoint(key.PublicKey)
	if err != nil {
		return 0, privacyerr.Wrap(privacyerr.KindViewingKey, "viewing.DecryptBalance", "malformed key public component", err)
	}
	if curve.BaseMult(priv).Equal(pub) != 1 {
		return 0, privacyerr.New(privacyerr.KindViewingKey, "viewing.DecryptBalance", "viewing key does not belong to this owner")
	}

	return elgamal.DecryptWithBound(ct, priv, m.maxAmount)
}

// Revoke returns a copy of the key with its expiry forced into the past
// and persists it. Because validity is checked locally against the
// signed expiry, revocation takes effect everywhere the updated record
// is seen, with no further round-trips.
func (m *Manager) Revoke(key *ViewingKey) (*ViewingKey, error) {
	if key == nil {
		return nil, privacyerr.New(privacyerr.KindViewingKey, "viewing.Revoke", "nil viewing key")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	revoked := key.Clone()
	past := time.Now().UTC().Add(-time.Hour)
	revoked.ExpiresAt = &past

	if err := m.store.Put(revoked); err != nil {
		return nil, privacyerr.Wrap(privacyerr.KindViewingKey, "viewing.Revoke", "failed to store revocation", err)
	}

	m.logger.Info("viewing key revoked",
		zap.String("account", revoked.Account),
		zap.String("id", revoked.ID),
	)
	return revoked, nil
}

// OwnerPublicKey returns the owner's confidential-balance public key,
// the default wrapping recipient for generated keys.
func (m *Manager) OwnerPublicKey() *ristretto255.Element {
	return m.ownerKey.PublicKey
}
