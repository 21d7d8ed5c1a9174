package account

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"sigil/internal/crypto"
	"sigil/internal/domain"
	"sigil/internal/event"
	"sigil/internal/keystore"
)

// Service is the account store. It is safe for concurrent use within one
// process.
type Service struct {
	mu sync.Mutex

	log      *zap.Logger
	clock    clock.Clock
	sealer   *keystore.Sealer
	accounts domain.AccountsStore
	keystore domain.KeystoreStore

	cfg     domain.AccountsConfig
	keys    keystore.SecretKeyMap // nil while locked
	lastUse time.Time
}

// New loads the account metadata and returns a locked Service.
func New(accounts domain.AccountsStore, ks domain.KeystoreStore, opts ...Option) (*Service, error) {
	s := &Service{
		log:      zap.NewNop(),
		clock:    clock.New(),
		sealer:   keystore.New(keystore.DefaultParams()),
		accounts: accounts,
		keystore: ks,
	}
	for _, opt := range opts {
		opt(s)
	}

	cfg, _, err := accounts.LoadAccounts()
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	s.cfg = cfg
	return s, nil
}

// State reports whether secrets are currently available. An expired idle
// period is applied first.
func (s *Service) State() domain.LockState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expire()
	if s.keys == nil {
		return domain.Locked
	}
	return domain.Unlocked
}

// Unlock opens the keystore with password. When no keystore exists yet an
// empty one is created under password and persisted.
func (s *Service) Unlock(password []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	env, ok, err := s.keystore.LoadKeystore()
	if err != nil {
		return fmt.Errorf("load keystore: %w", err)
	}
	if !ok {
		env, err = s.sealer.Seal(keystore.SecretKeyMap{}, password)
		if err != nil {
			return fmt.Errorf("create keystore: %w", err)
		}
		if err := s.keystore.SaveKeystore(env); err != nil {
			return fmt.Errorf("save keystore: %w", err)
		}
		s.setKeys(keystore.SecretKeyMap{})
		s.log.Info("keystore created")
		return nil
	}

	keys, err := s.sealer.Open(env, password)
	if err != nil {
		s.log.Warn("unlock failed", zap.Error(err))
		return fmt.Errorf("unlock: %w", err)
	}
	s.setKeys(keys)
	s.log.Info("keystore unlocked", zap.Int("keys", len(keys)))
	return nil
}

// Lock wipes and drops the in-memory keys.
func (s *Service) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.keys != nil {
		s.lock()
		s.log.Info("keystore locked")
	}
}

// CreateAccount generates a new identity named name and stores its key under
// password, unlocking the keystore first if needed. The first account, or
// any account created while none is active, becomes active.
func (s *Service) CreateAccount(name string, password []byte) (domain.AccountRecord, error) {
	name, err := validName(name)
	if err != nil {
		return domain.AccountRecord{}, err
	}
	kp, err := crypto.GenerateKeypair()
	if err != nil {
		return domain.AccountRecord{}, err
	}
	defer kp.Wipe()

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.addAccount(name, kp, password)
	if err != nil {
		return domain.AccountRecord{}, err
	}
	s.log.Info("account created", zap.String("account_id", rec.ID.String()), zap.String("npub", rec.PublicKeyNpub))
	return rec, nil
}

// ImportAccount stores an existing secret key, given as 64 hex characters or
// as an nsec string. A key whose public key is already present is rejected
// with domain.ErrDuplicate.
func (s *Service) ImportAccount(name, secret string, password []byte) (domain.AccountRecord, error) {
	name, err := validName(name)
	if err != nil {
		return domain.AccountRecord{}, err
	}
	secret = strings.TrimSpace(secret)
	var kp *crypto.Keypair
	if strings.HasPrefix(secret, crypto.HRPSecretKey+"1") {
		kp, err = crypto.KeypairFromNsec(secret)
	} else {
		kp, err = crypto.KeypairFromSecretHex(secret)
	}
	if err != nil {
		return domain.AccountRecord{}, fmt.Errorf("import: %w", err)
	}
	defer kp.Wipe()

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.addAccount(name, kp, password)
	if err != nil {
		return domain.AccountRecord{}, err
	}
	s.log.Info("account imported", zap.String("account_id", rec.ID.String()), zap.String("npub", rec.PublicKeyNpub))
	return rec, nil
}

// addAccount seals kp into the keystore and appends its record. Callers hold s.mu.
func (s *Service) addAccount(name string, kp *crypto.Keypair, password []byte) (domain.AccountRecord, error) {
	env, pending, err := s.prepare(password)
	if err != nil {
		return domain.AccountRecord{}, err
	}

	pubHex := kp.PublicKeyHex()
	for _, rec := range s.cfg.Accounts {
		if rec.PublicKeyHex == pubHex {
			pending.Wipe()
			return domain.AccountRecord{}, fmt.Errorf("%w: public key %s already belongs to account %q",
				domain.ErrDuplicate, pubHex, rec.Name)
		}
	}

	id := domain.AccountID(uuid.NewString())
	env, err = s.sealer.AddKey(env, password, id, kp.SecretKeyHex())
	if err != nil {
		pending.Wipe()
		return domain.AccountRecord{}, fmt.Errorf("add key: %w", err)
	}
	if err := s.keystore.SaveKeystore(env); err != nil {
		pending.Wipe()
		return domain.AccountRecord{}, fmt.Errorf("save keystore: %w", err)
	}
	s.adopt(pending)
	s.keys.Put(id, kp.SecretKeyBytes())

	next := s.cfg.Clone()
	next.Accounts = append(next.Accounts, domain.AccountRecord{
		ID:            id,
		Name:          name,
		PublicKeyHex:  pubHex,
		PublicKeyNpub: kp.PublicKeyNpub(),
		CreatedAt:     s.clock.Now().UTC().Format(time.RFC3339),
	})
	if next.ActiveAccountID == nil {
		next.SetActive(&id)
	}
	if err := s.commit(next); err != nil {
		return domain.AccountRecord{}, err
	}
	s.touch()
	return next.Accounts[len(next.Accounts)-1], nil
}

// DeleteAccount removes the record and secret key for id. If it was active
// the first remaining account is promoted, or the selection is cleared.
func (s *Service) DeleteAccount(id domain.AccountID, password []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.cfg.Index(id)
	if idx < 0 {
		return fmt.Errorf("%w: account %s", domain.ErrNotFound, id)
	}

	env, pending, err := s.prepare(password)
	if err != nil {
		return err
	}
	env, err = s.sealer.RemoveKey(env, password, id)
	if err != nil {
		pending.Wipe()
		return fmt.Errorf("remove key: %w", err)
	}
	if err := s.keystore.SaveKeystore(env); err != nil {
		pending.Wipe()
		return fmt.Errorf("save keystore: %w", err)
	}
	s.adopt(pending)
	s.keys.Delete(id)

	next := s.cfg.Clone()
	next.Accounts = append(next.Accounts[:idx], next.Accounts[idx+1:]...)
	if next.ActiveAccountID != nil && *next.ActiveAccountID == id {
		if len(next.Accounts) > 0 {
			promoted := next.Accounts[0].ID
			next.SetActive(&promoted)
		} else {
			next.SetActive(nil)
		}
	}
	if err := s.commit(next); err != nil {
		return err
	}
	s.touch()

	fields := []zap.Field{zap.String("account_id", id.String())}
	if next.ActiveAccountID != nil {
		fields = append(fields, zap.String("active_account_id", next.ActiveAccountID.String()))
	}
	s.log.Info("account deleted", fields...)
	return nil
}

// SetActive makes id the single active account. It touches metadata only
// and needs no password.
func (s *Service) SetActive(id domain.AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.Index(id) < 0 {
		return fmt.Errorf("%w: account %s", domain.ErrNotFound, id)
	}
	next := s.cfg.Clone()
	next.SetActive(&id)
	if err := s.commit(next); err != nil {
		return err
	}
	s.log.Info("account activated", zap.String("account_id", id.String()))
	return nil
}

// Active returns the active identity, or nil when no account is active.
func (s *Service) Active() (*UnlockedIdentity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireUnlocked(); err != nil {
		return nil, err
	}
	if s.cfg.ActiveAccountID == nil {
		return nil, nil
	}
	id := *s.cfg.ActiveAccountID
	idx := s.cfg.Index(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: active account %s has no record", domain.ErrIntegrity, id)
	}
	return s.identity(s.cfg.Accounts[idx])
}

// Get returns the identity for id.
func (s *Service) Get(id domain.AccountID) (*UnlockedIdentity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireUnlocked(); err != nil {
		return nil, err
	}
	idx := s.cfg.Index(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: account %s", domain.ErrNotFound, id)
	}
	return s.identity(s.cfg.Accounts[idx])
}

// identity materializes rec's keypair from the in-memory keys. Callers hold s.mu.
func (s *Service) identity(rec domain.AccountRecord) (*UnlockedIdentity, error) {
	secret, ok := s.keys.Get(rec.ID)
	if !ok {
		return nil, fmt.Errorf("%w: account %s has no secret key in the keystore", domain.ErrIntegrity, rec.ID)
	}
	kp, err := crypto.KeypairFromBytes(secret)
	if err != nil {
		return nil, fmt.Errorf("%w: account %s: %v", domain.ErrIntegrity, rec.ID, err)
	}
	if kp.PublicKeyHex() != rec.PublicKeyHex {
		kp.Wipe()
		return nil, fmt.Errorf("%w: account %s: secret key does not match recorded public key", domain.ErrIntegrity, rec.ID)
	}
	s.touch()
	return &UnlockedIdentity{Record: rec, Keypair: kp}, nil
}

// List returns a copy of every account record. It works while locked.
func (s *Service) List() []domain.AccountRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]domain.AccountRecord{}, s.cfg.Accounts...)
}

// ActiveID returns the active account id, if any.
func (s *Service) ActiveID() (domain.AccountID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.ActiveAccountID == nil {
		return "", false
	}
	return *s.cfg.ActiveAccountID, true
}

// SecuritySettings returns a copy of the current settings.
func (s *Service) SecuritySettings() domain.SecuritySettings {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cfg.Clone().SecuritySettings
}

// UpdateSecuritySettings persists settings.
func (s *Service) UpdateSecuritySettings(settings domain.SecuritySettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cfg.Clone()
	next.SecuritySettings = settings
	if settings.AutoLockTimeoutMinutes != nil {
		m := *settings.AutoLockTimeoutMinutes
		next.SecuritySettings.AutoLockTimeoutMinutes = &m
	}
	return s.commit(next)
}

// SignEvent signs unsigned with the active identity. When the settings
// require it, password is checked against the keystore first.
func (s *Service) SignEvent(unsigned domain.UnsignedEvent, password []byte) (domain.SignedEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireUnlocked(); err != nil {
		return domain.SignedEvent{}, err
	}
	if s.cfg.SecuritySettings.RequireAuthForSigning {
		env, ok, err := s.keystore.LoadKeystore()
		if err != nil {
			return domain.SignedEvent{}, fmt.Errorf("load keystore: %w", err)
		}
		if !ok {
			return domain.SignedEvent{}, fmt.Errorf("%w: keystore file is missing", domain.ErrIntegrity)
		}
		if err := s.sealer.VerifyPassword(env, password); err != nil {
			return domain.SignedEvent{}, fmt.Errorf("sign: %w", err)
		}
	}

	if s.cfg.ActiveAccountID == nil {
		return domain.SignedEvent{}, fmt.Errorf("%w: no active account", domain.ErrNotFound)
	}
	idx := s.cfg.Index(*s.cfg.ActiveAccountID)
	if idx < 0 {
		return domain.SignedEvent{}, fmt.Errorf("%w: active account %s has no record", domain.ErrIntegrity, *s.cfg.ActiveAccountID)
	}
	ident, err := s.identity(s.cfg.Accounts[idx])
	if err != nil {
		return domain.SignedEvent{}, err
	}
	defer ident.Wipe()

	ev, err := event.Sign(unsigned, ident.Keypair)
	if err != nil {
		return domain.SignedEvent{}, err
	}
	s.log.Debug("event signed",
		zap.String("account_id", ident.Record.ID.String()),
		zap.String("event_id", ev.ID),
		zap.Uint16("kind", ev.Kind))
	return ev, nil
}

// prepare loads the current envelope for a mutation and checks password
// against it when locked. A missing keystore is bootstrapped in memory as an
// empty envelope sealed under password. When the mutation would unlock the
// store, the key set to adopt is returned as pending; it stays unadopted
// until the mutated envelope is on disk. Callers hold s.mu.
func (s *Service) prepare(password []byte) (env domain.EncryptedEnvelope, pending keystore.SecretKeyMap, err error) {
	s.expire()

	env, ok, err := s.keystore.LoadKeystore()
	if err != nil {
		return domain.EncryptedEnvelope{}, nil, fmt.Errorf("load keystore: %w", err)
	}
	if !ok {
		env, err = s.sealer.Seal(keystore.SecretKeyMap{}, password)
		if err != nil {
			return domain.EncryptedEnvelope{}, nil, fmt.Errorf("create keystore: %w", err)
		}
		return env, keystore.SecretKeyMap{}, nil
	}
	if s.keys != nil {
		return env, nil, nil
	}
	pending, err = s.sealer.Open(env, password)
	if err != nil {
		return domain.EncryptedEnvelope{}, nil, fmt.Errorf("unlock: %w", err)
	}
	return env, pending, nil
}

// adopt installs keys unlocked by a mutation that reached disk. A nil
// pending set leaves the current keys in place.
func (s *Service) adopt(pending keystore.SecretKeyMap) {
	if pending == nil {
		return
	}
	s.setKeys(pending)
	s.log.Info("keystore unlocked", zap.Int("keys", len(pending)))
}

// commit writes cfg and adopts it only once the write succeeded.
func (s *Service) commit(cfg domain.AccountsConfig) error {
	if err := s.accounts.SaveAccounts(cfg); err != nil {
		return fmt.Errorf("save accounts: %w", err)
	}
	s.cfg = cfg
	return nil
}

func (s *Service) requireUnlocked() error {
	s.expire()
	if s.keys == nil {
		return domain.ErrLocked
	}
	return nil
}

// expire locks the store once the configured idle period has elapsed. A nil
// or zero timeout disables auto-lock.
func (s *Service) expire() {
	if s.keys == nil {
		return
	}
	timeout := s.cfg.SecuritySettings.AutoLockTimeoutMinutes
	if timeout == nil || *timeout == 0 {
		return
	}
	idle := s.clock.Since(s.lastUse)
	if idle < time.Duration(*timeout)*time.Minute {
		return
	}
	s.lock()
	s.log.Info("keystore auto-locked", zap.Duration("idle", idle))
}

func (s *Service) setKeys(keys keystore.SecretKeyMap) {
	if s.keys != nil {
		s.keys.Wipe()
	}
	s.keys = keys
	s.touch()
}

func (s *Service) lock() {
	s.keys.Wipe()
	s.keys = nil
}

func (s *Service) touch() { s.lastUse = s.clock.Now() }

func validName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: account name is required", domain.ErrValidation)
	}
	return name, nil
}

var (
	_ domain.EventSigner   = (*Service)(nil)
	_ domain.AccountLister = (*Service)(nil)
)
