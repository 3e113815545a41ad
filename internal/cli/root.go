// Package cli implements the catalog command line tool.
package cli

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/catalog"
	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/config"
	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/logging"
	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/provider"
	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/snapshot"
)

// app holds what every subcommand needs once the root command has run its
// setup.
type app struct {
	configFile  string
	catalogFile string
	logLevel    string

	title    string
	logger   *logrus.Logger
	provider *provider.Provider
}

// NewRootCommand builds the catalog command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "catalog",
		Short: "Browse the corticogenesis disorder catalog",
		Long: `catalog prints, browses and exports a small reference catalog of
disorders of cortical development and the genes associated with them.

The compiled-in catalog is used unless --catalog-file names a YAML file or a
SQLite snapshot (.db, .sqlite) written by "catalog snapshot".`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default: config.yaml in ., ./config or /etc/corticogenesis)")
	root.PersistentFlags().StringVar(&a.catalogFile, "catalog-file", "", "YAML catalog or SQLite snapshot to use instead of the compiled-in records")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(
		newListCommand(a),
		newShowCommand(a),
		newBrowseCommand(a),
		newExportCommand(a),
		newSnapshotCommand(a),
		newMCPCommand(a),
	)
	return root
}

// setup loads configuration, builds the logger and populates the provider.
// Logs always go to stderr so command output can be piped.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	var opts []config.Option
	if a.configFile != "" {
		opts = append(opts, config.WithConfigFile(a.configFile))
	}
	manager, err := config.NewManager(opts...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	cfg := manager.GetConfig()
	if a.catalogFile != "" {
		cfg.Catalog.File = a.catalogFile
	}
	cfg.Logging.Level = strings.ToLower(a.logLevel)
	cfg.Logging.Output = "stderr"
	cfg.Logging.Format = "text"

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	logger.SetOutput(cmd.ErrOrStderr())

	records, err := snapshot.LoadCatalog(cmd.Context(), cfg.Catalog)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	p, err := provider.New(records, logger)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	a.title = cfg.Catalog.Title
	if a.title == "" {
		a.title = catalog.DefaultTitle
	}
	a.logger = logger
	a.provider = p
	return nil
}
