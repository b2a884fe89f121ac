package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tagcore/internal/core"
)

// ScanCmd returns the scan command.
func ScanCmd() *cobra.Command {
	var device string

	cmd := &cobra.Command{
		Use:   "scan [tag-id]",
		Short: "Record a scan of a physical tag",
		Long: `Record that a physical tag was read. The first scan of an unknown id
creates its record; every scan stamps last_scanned and the scanning device and
emits a tag_scanned event, printed below.

Examples:
  tagctl scan 04-5F-2A-91 --device reader-front-door
  tagctl scan 04-5F-2A-91`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, sink, err := openService(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			svc.Subscribe(core.EventHandlerFunc(func(_ context.Context, ev core.Event) error {
				line := fmt.Sprintf("event %s tag=%s", ev.Type, ev.TagID)
				if ev.Name != nil {
					line += fmt.Sprintf(" name=%q", *ev.Name)
				}
				if ev.DeviceID != nil {
					line += fmt.Sprintf(" device=%s", *ev.DeviceID)
				}
				fmt.Fprintln(out, color.New(color.FgCyan).Sprint(line))
				return nil
			}))

			tag, err := svc.Scan(ctx, args[0], device)
			if err != nil {
				return fmt.Errorf("scan: %w", err)
			}
			fmt.Fprintf(out, "%s Scanned %s\n", okMark(), tag.ID)
			printTag(out, tag)
			if state, ok := sink.Get(core.EntityID(tag)); ok {
				printState(out, state)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&device, "device", "d", "", "Id of the scanning device (empty means no device)")

	return cmd
}
