package types

// AccountRecord is the public metadata of one signing identity.
type AccountRecord struct {
	ID            AccountID `json:"id"`
	Name          string    `json:"name"`
	PublicKeyHex  string    `json:"public_key_hex"`
	PublicKeyNpub string    `json:"public_key_npub"`
	CreatedAt     string    `json:"created_at"`
	IsActive      bool      `json:"is_active"`
}

// SecuritySettings are user preferences stored next to the account list.
type SecuritySettings struct {
	RequireAuthForSigning  bool    `json:"require_auth_for_signing"`
	AutoLockTimeoutMinutes *uint32 `json:"auto_lock_timeout_minutes"`
}

// DefaultSecuritySettings returns the settings written on first use.
func DefaultSecuritySettings() SecuritySettings {
	timeout := uint32(30)
	return SecuritySettings{
		RequireAuthForSigning:  true,
		AutoLockTimeoutMinutes: &timeout,
	}
}

// AccountsConfig is the metadata file: every account plus the active selection.
type AccountsConfig struct {
	Accounts         []AccountRecord  `json:"accounts"`
	ActiveAccountID  *AccountID       `json:"active_account_id"`
	SecuritySettings SecuritySettings `json:"security_settings"`
}

// NewAccountsConfig returns an empty configuration with default settings.
func NewAccountsConfig() AccountsConfig {
	return AccountsConfig{
		Accounts:         []AccountRecord{},
		SecuritySettings: DefaultSecuritySettings(),
	}
}

// Clone returns a deep copy so callers can mutate without aliasing.
func (c AccountsConfig) Clone() AccountsConfig {
	out := c
	out.Accounts = append([]AccountRecord{}, c.Accounts...)
	if c.ActiveAccountID != nil {
		id := *c.ActiveAccountID
		out.ActiveAccountID = &id
	}
	if c.SecuritySettings.AutoLockTimeoutMinutes != nil {
		m := *c.SecuritySettings.AutoLockTimeoutMinutes
		out.SecuritySettings.AutoLockTimeoutMinutes = &m
	}
	return out
}

// Index returns the position of id in Accounts, or -1.
func (c AccountsConfig) Index(id AccountID) int {
	for i := range c.Accounts {
		if c.Accounts[i].ID == id {
			return i
		}
	}
	return -1
}

// SetActive marks id as the single active account. A nil id clears the selection.
func (c *AccountsConfig) SetActive(id *AccountID) {
	for i := range c.Accounts {
		c.Accounts[i].IsActive = id != nil && c.Accounts[i].ID == *id
	}
	if id == nil {
		c.ActiveAccountID = nil
		return
	}
	active := *id
	c.ActiveAccountID = &active
}
