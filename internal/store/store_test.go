package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"sigil/internal/domain"
	"sigil/internal/store"
)

func TestAccounts_MissingFileYieldsDefaults(t *testing.T) {
	s := store.NewAccountsFileStore(t.TempDir())

	cfg, ok, err := s.LoadAccounts()
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, domain.NewAccountsConfig(), cfg)
}

func TestAccounts_SaveLoad(t *testing.T) {
	home := filepath.Join(t.TempDir(), "nested", "home")
	var s domain.AccountsStore = store.NewAccountsFileStore(home)

	id := domain.AccountID("7d1c7a52-7f5e-4e0f-9a55-0a3c3f1d2b11")
	cfg := domain.NewAccountsConfig()
	cfg.Accounts = append(cfg.Accounts, domain.AccountRecord{
		ID: id, Name: "Alice", PublicKeyHex: "ab", PublicKeyNpub: "npub1x",
		CreatedAt: "2024-01-02T03:04:05Z",
	})
	cfg.SetActive(&id)
	cfg.SecuritySettings.RequireAuthForSigning = false
	cfg.SecuritySettings.AutoLockTimeoutMinutes = nil

	require.NoError(t, s.SaveAccounts(cfg))

	got, ok, err := s.LoadAccounts()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, cfg, got)

	info, err := os.Stat(filepath.Join(home, store.AccountsFilename))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestAccounts_FileLayout(t *testing.T) {
	home := t.TempDir()
	s := store.NewAccountsFileStore(home)
	require.NoError(t, s.SaveAccounts(domain.AccountsConfig{}))

	b, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	require.JSONEq(t, `{
		"accounts": [],
		"active_account_id": null,
		"security_settings": {"require_auth_for_signing": false, "auto_lock_timeout_minutes": null}
	}`, string(b))
}

func TestAccounts_PartialFileKeepsDefaults(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, store.AccountsFilename), []byte(`{"accounts":[]}`), 0o600))

	cfg, ok, err := store.NewAccountsFileStore(home).LoadAccounts()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, domain.DefaultSecuritySettings(), cfg.SecuritySettings)
}

func TestAccounts_CorruptFile(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, store.AccountsFilename), []byte(`{not json`), 0o600))

	_, _, err := store.NewAccountsFileStore(home).LoadAccounts()
	require.ErrorIs(t, err, domain.ErrStorage)
}

func TestKeystore_SaveLoad(t *testing.T) {
	home := t.TempDir()
	var s domain.KeystoreStore = store.NewKeystoreFileStore(home)

	_, ok, err := s.LoadKeystore()
	require.NoError(t, err)
	require.False(t, ok)

	env := domain.EncryptedEnvelope{
		Salt:          "c2FsdHNhbHRzYWx0c2FsdA",
		PasswordHash:  "$argon2id$v=19$m=64,t=1,p=1$c2FsdA$aGFzaA",
		Nonce:         domain.ByteArray{1, 2, 3},
		EncryptedData: domain.ByteArray{0, 255},
		Version:       1,
	}
	require.NoError(t, s.SaveKeystore(env))

	got, ok, err := s.LoadKeystore()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, env, got)

	b, err := os.ReadFile(filepath.Join(home, store.KeystoreFilename))
	require.NoError(t, err)
	require.Contains(t, string(b), `"encrypted_data": [`)
}

func TestKeystore_ReplaceLeavesNoTempFiles(t *testing.T) {
	home := t.TempDir()
	s := store.NewKeystoreFileStore(home)
	for v := uint32(1); v <= 3; v++ {
		require.NoError(t, s.SaveKeystore(domain.EncryptedEnvelope{Version: v}))
	}

	entries, err := os.ReadDir(home)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, store.KeystoreFilename, entries[0].Name())

	got, _, err := s.LoadKeystore()
	require.NoError(t, err)
	require.Equal(t, uint32(3), got.Version)
}

func TestKeystore_ByteOutOfRange(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, store.KeystoreFilename),
		[]byte(`{"salt":"","password_hash":"","nonce":[256],"encrypted_data":[],"version":1}`), 0o600))

	_, _, err := store.NewKeystoreFileStore(home).LoadKeystore()
	require.ErrorIs(t, err, domain.ErrStorage)
}

func TestSave_UnwritableDirectory(t *testing.T) {
	home := t.TempDir()
	blocker := filepath.Join(home, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	err := store.NewAccountsFileStore(filepath.Join(blocker, "sub")).SaveAccounts(domain.NewAccountsConfig())
	require.ErrorIs(t, err, domain.ErrStorage)
}
