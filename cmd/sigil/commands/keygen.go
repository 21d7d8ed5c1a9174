package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"sigil/internal/crypto"
)

// keygen prints a throwaway keypair; nothing is written to the keystore.
func keygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate and print a keypair without storing it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kp, err := crypto.GenerateKeypair()
			if err != nil {
				return err
			}
			defer kp.Wipe()
			nsec, err := kp.SecretKeyNsec()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Secret key: %s\n", nsec)
			fmt.Fprintf(out, "Public key: %s\n", kp.PublicKeyNpub())
			fmt.Fprintf(out, "Hex:        %s\n", kp.PublicKeyHex())
			return nil
		},
	}
}
