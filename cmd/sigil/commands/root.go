package commands

import (
	"fmt"
	"os"

	"github.com/awnumar/memguard"
	"github.com/spf13/cobra"

	"sigil/internal/app"
	"sigil/internal/logger"
)

// EnvPassword supplies the keystore password when -p is not given.
const EnvPassword = "SIGIL_PASSWORD"

var (
	home      string
	password  string
	relayURL  string
	logLevel  string
	logFormat string

	appCtx *app.Wire
)

// Execute runs the CLI with os.Args.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "sigil",
		Short:        "Password-protected signing identities for Nostr",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(home)
			if err != nil {
				return err
			}
			if relayURL != "" {
				cfg.RelayURL = relayURL
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			if logFormat != "" {
				cfg.LogFormat = logFormat
			}
			if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
				return err
			}

			log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			appCtx, err = app.NewWire(cfg, log)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if appCtx != nil {
				_ = appCtx.Log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "data dir (default $SIGIL_HOME or <user config dir>/sigil)")
	root.PersistentFlags().StringVarP(&password, "password", "p", "", "keystore password (default $"+EnvPassword+")")
	root.PersistentFlags().StringVar(&relayURL, "relay", "", "relay websocket URL (e.g. wss://relay.damus.io)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: console or json")

	root.AddCommand(accountCmd(), keygenCmd(), signCmd(), postCmd(), verifyCmd())
	return root
}

// lockedPassword moves the password into locked memory and clears the flag.
// Callers must Destroy the buffer.
func lockedPassword() (*memguard.LockedBuffer, error) {
	pw := password
	if pw == "" {
		pw = os.Getenv(EnvPassword)
	}
	if pw == "" {
		return nil, fmt.Errorf("password required (-p or $%s)", EnvPassword)
	}
	password = ""
	return memguard.NewBufferFromBytes([]byte(pw)), nil
}
