package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tagcore/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tagctl",
		Short: "Manage tag records and their live entities",
		Long: `tagctl manages the persisted collection of NFC/QR tag records and the
live entities projected from them.

Storage is selected through environment variables:
  TAGCORE_STORAGE_DRIVER  memory|file|sqlite|postgres (default sqlite)
  TAGCORE_SQLITE_PATH     sqlite database path (default tagcore.db)
  TAGCORE_FILE_PATH       json document path (default tagcore_tags.json)
  TAGCORE_POSTGRES_DSN    postgres connection string
  TAGCORE_BLOB_DRIVER     fs|s3|memory archive store (default fs)`,
	}

	rootCmd.PersistentFlags().BoolVarP(&cli.Verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(cli.ListCmd())
	rootCmd.AddCommand(cli.GetCmd())
	rootCmd.AddCommand(cli.CreateCmd())
	rootCmd.AddCommand(cli.UpdateCmd())
	rootCmd.AddCommand(cli.DeleteCmd())
	rootCmd.AddCommand(cli.ScanCmd())
	rootCmd.AddCommand(cli.ArchiveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
