package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/catalog"
	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/domain"
	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/render"
	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/snapshot"
	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/tui"
)

// Output formats accepted by list and show.
const (
	FormatText     = "text"
	FormatTerminal = "terminal"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
)

func newListCommand(a *app) *cobra.Command {
	var format string
	var width int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print every disorder as a card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.writeRecords(cmd.OutOrStdout(), format, width, a.provider.Records())
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", FormatText, "output format: text, terminal, markdown or json")
	cmd.Flags().IntVarP(&width, "width", "w", render.DefaultWidth, "card width for text and terminal output")
	return cmd
}

func newShowCommand(a *app) *cobra.Command {
	var format string
	var width int

	cmd := &cobra.Command{
		Use:   "show <id|name>",
		Short: "Print one disorder",
		Long:  "Print the disorder with the given identifier, name or common name.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.provider.Lookup(strings.Join(args, " "))
			if err != nil {
				return err
			}
			return a.writeRecords(cmd.OutOrStdout(), format, width, []domain.Disorder{d})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", FormatText, "output format: text, terminal, markdown or json")
	cmd.Flags().IntVarP(&width, "width", "w", render.DefaultWidth, "card width for text and terminal output")
	return cmd
}

func newBrowseCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Scroll through the catalog in a full-screen browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(a.title, render.Compose(a.provider.Records()))
		},
	}
}

func newExportCommand(a *app) *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the catalog as a YAML or JSON document",
		Long: `Write the catalog as a YAML or JSON document. The YAML form can be
edited and loaded back with --catalog-file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			w := cmd.OutOrStdout()
			if out != "" {
				f, createErr := os.Create(out)
				if createErr != nil {
					return fmt.Errorf("creating %s: %w", out, createErr)
				}
				defer func() {
					if cerr := f.Close(); cerr != nil && err == nil {
						err = cerr
					}
				}()
				w = f
			}

			records := a.provider.Records()
			switch strings.ToLower(format) {
			case FormatYAML:
				err = catalog.WriteYAML(w, a.title, records)
			case FormatJSON:
				err = catalog.WriteJSON(w, a.title, records)
			default:
				return fmt.Errorf("unsupported export format %q: use yaml or json", format)
			}
			if err != nil {
				return err
			}

			a.logger.WithField("records", len(records)).Info("Catalog exported")
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", FormatYAML, "export format: yaml or json")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newSnapshotCommand(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save the catalog to a SQLite database",
		Long: `snapshot writes the current catalog to a SQLite database. The file can be
passed back with --catalog-file or inspected with "catalog snapshot info".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := snapshot.NewSQLiteStore(out)
			if err != nil {
				return err
			}
			defer store.Close()

			records := a.provider.Records()
			if err := store.Save(cmd.Context(), a.title, records); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d disorders to %s\n", len(records), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "snapshot database path")
	_ = cmd.MarkFlagRequired("out")

	cmd.AddCommand(newSnapshotInfoCommand())
	return cmd
}

func newSnapshotInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Show the title, save time and size of a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := snapshot.OpenExisting(args[0])
			if err != nil {
				return err
			}
			defer store.Close()

			info, err := store.Info(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		},
	}
}

// writeRecords prints records in the given format.
func (a *app) writeRecords(w io.Writer, format string, width int, records []domain.Disorder) error {
	if width < 0 {
		return fmt.Errorf("width must not be negative")
	}
	cards := render.Compose(records)

	switch strings.ToLower(format) {
	case FormatText:
		_, err := fmt.Fprintln(w, render.Text(cards, render.TextOptions{Width: width}))
		return err
	case FormatTerminal:
		out, err := render.Terminal(a.title, cards, width)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	case FormatMarkdown:
		_, err := io.WriteString(w, render.Markdown(a.title, cards))
		return err
	case FormatJSON:
		return catalog.WriteJSON(w, a.title, records)
	default:
		return fmt.Errorf("unsupported format %q: use text, terminal, markdown or json", format)
	}
}
