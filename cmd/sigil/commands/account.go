package commands

import (
	"bufio"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"sigil/internal/domain"
)

func accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage signing identities",
	}
	cmd.AddCommand(accountCreateCmd(), accountImportCmd(), accountListCmd(), accountUseCmd(), accountDeleteCmd())
	return cmd
}

func accountCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Generate a new identity and store its key in the keystore",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := lockedPassword()
			if err != nil {
				return err
			}
			defer pw.Destroy()

			rec, err := appCtx.Accounts.CreateAccount(args[0], pw.Bytes())
			if err != nil {
				return err
			}
			printRecord(cmd, "Account created.", rec)
			return nil
		},
	}
}

// import <name> [secret]: with no secret argument the key is read from stdin
// so it stays out of shell history.
func accountImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <name> [hex-or-nsec]",
		Short: "Import an existing secret key",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := lockedPassword()
			if err != nil {
				return err
			}
			defer pw.Destroy()

			var secret string
			if len(args) == 2 {
				secret = args[1]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read secret key from stdin: %w", err)
				}
				secret = strings.TrimSpace(line)
			}

			rec, err := appCtx.Accounts.ImportAccount(args[0], secret, pw.Bytes())
			if err != nil {
				return err
			}
			printRecord(cmd, "Account imported.", rec)
			return nil
		},
	}
}

func accountListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts; * marks the active one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			accounts := appCtx.Accounts.List()
			if len(accounts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No accounts.")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "\tNAME\tID\tNPUB\tCREATED")
			for _, rec := range accounts {
				mark := ""
				if rec.IsActive {
					mark = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", mark, rec.Name, rec.ID, rec.PublicKeyNpub, rec.CreatedAt)
			}
			return w.Flush()
		},
	}
}

func accountUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <id>",
		Short: "Make an account active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appCtx.Accounts.SetActive(domain.AccountID(args[0])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Active account: %s\n", args[0])
			return nil
		},
	}
}

func accountDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an account and its secret key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := lockedPassword()
			if err != nil {
				return err
			}
			defer pw.Destroy()

			if err := appCtx.Accounts.DeleteAccount(domain.AccountID(args[0]), pw.Bytes()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s.\n", args[0])
			if id, ok := appCtx.Accounts.ActiveID(); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "Active account: %s\n", id)
			}
			return nil
		},
	}
}

func printRecord(cmd *cobra.Command, header string, rec domain.AccountRecord) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, header)
	fmt.Fprintf(out, "ID:     %s\n", rec.ID)
	fmt.Fprintf(out, "Name:   %s\n", rec.Name)
	fmt.Fprintf(out, "Pubkey: %s\n", rec.PublicKeyHex)
	fmt.Fprintf(out, "Npub:   %s\n", rec.PublicKeyNpub)
	fmt.Fprintf(out, "Active: %t\n", rec.IsActive)
}
