package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tagcore/internal/blob"
	"tagcore/internal/core"
)

// ArchiveCmd returns the archive command.
func ArchiveCmd() *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Write the current snapshot to the blob archive",
		Long: `Serialize the live collection snapshot to the configured blob store
under snapshots/tags-<timestamp>.json. The store is selected with
TAGCORE_BLOB_DRIVER (fs, s3 or memory; default fs).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			archive, err := blob.Open(ctx)
			if err != nil {
				return fmt.Errorf("open archive store: %w", err)
			}
			out := cmd.OutOrStdout()
			if list {
				infos, err := archive.List(ctx, "snapshots/")
				if err != nil {
					return fmt.Errorf("list archives: %w", err)
				}
				if len(infos) == 0 {
					fmt.Fprintln(out, "No archived snapshots.")
					return nil
				}
				for _, info := range infos {
					fmt.Fprintf(out, "%s\t%d bytes\n", info.Key, info.Size)
				}
				return nil
			}
			svc, _, err := openService(ctx, core.WithArchiveStore(archive))
			if err != nil {
				return err
			}
			info, err := svc.ArchiveSnapshot(ctx)
			if err != nil {
				return fmt.Errorf("archive snapshot: %w", err)
			}
			fmt.Fprintf(out, "%s Archived snapshot %s (%d bytes)\n", okMark(), info.Key, info.Size)
			if info.ETag != "" {
				fmt.Fprintf(out, "ETag: %s\n", info.ETag)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "List archived snapshots instead of writing one")

	return cmd
}
