package store

import (
	"path/filepath"
	"sync"

	"sigil/internal/domain"
)

// AccountsFilename is the metadata file under the home directory.
const AccountsFilename = "accounts.json"

// AccountsFileStore persists the account list and security settings.
type AccountsFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewAccountsFileStore returns an AccountsFileStore rooted at dir.
func NewAccountsFileStore(dir string) *AccountsFileStore {
	return &AccountsFileStore{dir: dir}
}

// Path returns the location of the metadata file.
func (s *AccountsFileStore) Path() string { return filepath.Join(s.dir, AccountsFilename) }

// LoadAccounts reads the metadata file. When the file is missing it returns
// an empty configuration with default settings and ok=false. Fields absent
// from an existing file keep their defaults.
func (s *AccountsFileStore) LoadAccounts() (domain.AccountsConfig, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := domain.NewAccountsConfig()
	ok, err := readJSON(s.Path(), &cfg)
	if err != nil {
		return domain.NewAccountsConfig(), false, err
	}
	if cfg.Accounts == nil {
		cfg.Accounts = []domain.AccountRecord{}
	}
	return cfg, ok, nil
}

// SaveAccounts replaces the metadata file with cfg.
func (s *AccountsFileStore) SaveAccounts(cfg domain.AccountsConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cfg.Accounts == nil {
		cfg.Accounts = []domain.AccountRecord{}
	}
	return writeJSON(s.Path(), cfg)
}

// Compile-time assertion that AccountsFileStore implements domain.AccountsStore.
var _ domain.AccountsStore = (*AccountsFileStore)(nil)
