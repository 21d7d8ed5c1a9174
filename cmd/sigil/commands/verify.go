package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"sigil/internal/domain"
	"sigil/internal/event"
)

// errInvalidSignature makes verify exit non-zero for a well-formed but
// unauthentic event.
var errInvalidSignature = errors.New("invalid event: id or signature does not match")

// verify [event-json]: reads the event from stdin when no argument is given.
func verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify [event-json]",
		Short: "Check an event's id and signature",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				r = strings.NewReader(args[0])
			}
			var ev domain.SignedEvent
			if err := json.NewDecoder(r).Decode(&ev); err != nil {
				return fmt.Errorf("%w: decode event: %v", domain.ErrValidation, err)
			}

			ok, err := event.Verify(ev)
			if err != nil {
				return err
			}
			if !ok {
				return errInvalidSignature
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Valid event %s by %s\n", ev.ID, ev.PubKey)
			return nil
		},
	}
}
