package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"sigil/internal/domain"
	"sigil/internal/event"
)

type noteFlags struct {
	kind uint16
	tags []string
}

func (f *noteFlags) register(cmd *cobra.Command) {
	cmd.Flags().Uint16Var(&f.kind, "kind", domain.KindTextNote, "event kind")
	cmd.Flags().StringArrayVarP(&f.tags, "tag", "t", nil, "tag as comma-separated values, e.g. -t t,nostr (repeatable)")
}

func (f *noteFlags) unsigned(content string) domain.UnsignedEvent {
	ev := event.NewTextNote("", content, time.Now())
	ev.Kind = f.kind
	for _, tag := range f.tags {
		ev.Tags = append(ev.Tags, strings.Split(tag, ","))
	}
	return ev
}

// signNote unlocks the keystore and signs content with the active account.
func signNote(f *noteFlags, content string) (domain.SignedEvent, error) {
	pw, err := lockedPassword()
	if err != nil {
		return domain.SignedEvent{}, err
	}
	defer pw.Destroy()

	if err := appCtx.Accounts.Unlock(pw.Bytes()); err != nil {
		return domain.SignedEvent{}, err
	}
	defer appCtx.Accounts.Lock()

	return appCtx.Accounts.SignEvent(f.unsigned(content), pw.Bytes())
}

func signCmd() *cobra.Command {
	var flags noteFlags
	cmd := &cobra.Command{
		Use:   "sign <content>",
		Short: "Sign a note with the active account and print the event JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ev, err := signNote(&flags, args[0])
			if err != nil {
				return err
			}
			b, err := json.MarshalIndent(ev, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
