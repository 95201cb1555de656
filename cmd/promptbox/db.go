package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/promptbox/internal/api"
	"github.com/jackzampolin/promptbox/internal/config"
	"github.com/jackzampolin/promptbox/internal/prompts"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Work with the prompt database directly",
	Long: `Work with the SQLite database without a running server.

The database lives at ~/.promptbox/data/promptbox.db unless database.path
is set in the config.

Examples:
  promptbox db path                    # Print the database location
  promptbox db export                  # Dump folders and prompts as YAML
  promptbox db export --file out.json  # Write the dump to a file`,
}

var dbPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the database path",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := databasePath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

// Export is the document written by db export.
type Export struct {
	Folders []prompts.Folder `json:"folders" yaml:"folders"`
	Prompts []prompts.Prompt `json:"prompts" yaml:"prompts"`
}

var exportFile string

var dbExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all folders and prompts",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := databasePath()
		if err != nil {
			return err
		}
		export, err := exportDatabase(cmd.Context(), path)
		if err != nil {
			return err
		}

		if exportFile != "" {
			if err := api.OutputToFile(export, exportFile); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d folders and %d prompts to %s\n",
				len(export.Folders), len(export.Prompts), exportFile)
			return nil
		}
		return api.OutputTo(cmd.OutOrStdout(), api.GetOutputFormat(), export)
	},
}

// exportDatabase reads every folder and prompt from the SQLite file at path.
func exportDatabase(ctx context.Context, path string) (*Export, error) {
	store, err := prompts.Open(ctx, prompts.OpenConfig{
		Path:   path,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		return nil, err
	}
	defer store.Close()

	folders, err := store.ListFolders(ctx)
	if err != nil {
		return nil, err
	}
	list, err := store.ListPrompts(ctx, prompts.ListFilter{})
	if err != nil {
		return nil, err
	}
	return &Export{Folders: folders, Prompts: list}, nil
}

// databasePath resolves the database file from config, falling back to
// the home directory.
func databasePath() (string, error) {
	h, err := getHome()
	if err != nil {
		return "", err
	}
	mgr, err := config.NewManager(cfgFile, h.Path())
	if err != nil {
		return "", err
	}
	if p := mgr.Get().Database.Path; p != "" {
		return p, nil
	}
	return h.DatabasePath(), nil
}

func init() {
	dbExportCmd.Flags().StringVarP(&exportFile, "file", "f", "", "write to file (.json for JSON, YAML otherwise)")

	dbCmd.AddCommand(dbPathCmd)
	dbCmd.AddCommand(dbExportCmd)
	rootCmd.AddCommand(dbCmd)
}
