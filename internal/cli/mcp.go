package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/setup"
)

func newMCPCommand(a *app) *cobra.Command {
	var clientConfig string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Register the catalog MCP server with a desktop MCP client",
	}
	cmd.PersistentFlags().StringVar(&clientConfig, "client-config", "", "client config file (default: the desktop client's config for this OS)")

	var binary string
	install := &cobra.Command{
		Use:   "install",
		Short: "Add the catalog server to the client config",
		Long: `install registers the catalog MCP server with the client. An explicit
--catalog-file or --log-level is passed on to the server's environment.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := setup.Options{
				ConfigPath:  clientConfig,
				BinaryPath:  binary,
				CatalogFile: a.catalogFile,
			}
			if cmd.Flags().Changed("log-level") {
				opts.LogLevel = a.logLevel
			}
			entry, err := setup.Register(opts)
			if err != nil {
				return err
			}
			a.logger.WithField("command", entry.Command).Info("Registered MCP server")
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s -> %s\n", setup.ServerName, entry.Command)
			return nil
		},
	}
	install.Flags().StringVar(&binary, "binary", "", "path to the mcp-server executable (default: search PATH)")

	uninstall := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the catalog server from the client config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := setup.Unregister(clientConfig)
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintf(cmd.OutOrStdout(), "%s was not registered\n", setup.ServerName)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", setup.ServerName)
			return nil
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show whether the catalog server is registered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := setup.GetStatus(clientConfig)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(st)
		},
	}

	cmd.AddCommand(install, uninstall, status)
	return cmd
}
