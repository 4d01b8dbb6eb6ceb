package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/multierr"

	"github.com/DoyleJ11/lane-arena/internal/config"
	"github.com/DoyleJ11/lane-arena/internal/content"
	"github.com/DoyleJ11/lane-arena/internal/types"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := config.NewViper()
	var cfgFile string

	root := &cobra.Command{
		Use:          "arena",
		Short:        "Tick-based lane arena simulation server",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")

	root.AddCommand(newServeCmd(v, &cfgFile), newSchemaCmd(), newContentCmd())
	return root
}

func newServeCmd(v *viper.Viper, cfgFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and websocket server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, *cfgFile)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
	f := cmd.Flags()
	f.String("addr", ":8080", "listen address")
	f.Duration("tick-duration", 0, "time between ticks")
	f.String("log-level", "info", "debug, info, warn or error")
	f.String("log-format", "json", "json or console")
	f.String("database-url", "", "postgres dsn for match results; empty keeps them in memory")
	f.String("content-path", "", "hero and item catalog; empty uses the bundled one")
	f.Bool("auto-start", false, "start matches as soon as they are created")
	for _, name := range []string{"addr", "tick-duration", "log-level", "log-format", "database-url", "content-path", "auto-start"} {
		_ = v.BindPFlag(strings.ReplaceAll(name, "-", "_"), f.Lookup(name))
	}
	return cmd
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of client messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := types.Schema()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}

func newContentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Inspect hero and item content",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "validate [path]",
		Short: "Validate a content file, or the bundled catalog when no path is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				c := content.Default()
				fmt.Fprintf(out, "bundled catalog ok: %d heroes, %d items\n", len(c.HeroIDs()), len(c.ItemIDs()))
				return nil
			}
			c, err := content.LoadFile(args[0])
			if err != nil {
				for _, e := range multierr.Errors(err) {
					fmt.Fprintf(cmd.ErrOrStderr(), "  %v\n", e)
				}
				return fmt.Errorf("%s: invalid content", args[0])
			}
			fmt.Fprintf(out, "%s ok: %d heroes, %d items\n", args[0], len(c.HeroIDs()), len(c.ItemIDs()))
			return nil
		},
	})
	return cmd
}
