package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	cli "github.com/typebind-dev/typebind/internal/cli"
)

func main() {
	root := &cobra.Command{
		Use:     "typebind",
		Short:   "Generate statically typed API bindings from OpenAPI specs",
		Version: cli.Version,
	}

	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	}

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newServeCmd())

	if err := root.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func newGenerateCmd() *cobra.Command {
	var configPath string
	var dryRun bool
	var fallback cli.FallbackParams

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate typed bindings and reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunGenerate(cmd.Context(), cli.RunGenerateParams{
				ConfigPath: configPath,
				Fallback:   fallback,
				DryRun:     dryRun,
				Plan:       cmd.OutOrStdout(),
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "Path to typebind.yaml config")
	flags.BoolVar(&dryRun, "dry-run", false, "Print the artifact plan without writing files")
	addFallbackFlags(flags, &fallback)

	return cmd
}

// addFallbackFlags registers the single-run flags used when no config file
// is given.
func addFallbackFlags(flags *pflag.FlagSet, p *cli.FallbackParams) {
	flags.StringVar(&p.Spec, "input", "", "OpenAPI spec file (yaml/json) or URL")
	flags.StringVar(&p.OutDir, "out", "", "Output directory")
	flags.StringVar(&p.PackageName, "package-name", "", "Package name for generated sources")
	flags.StringSliceVar(&p.Backends, "backend", nil, "Backend id or alias, repeatable")
	flags.BoolVar(&p.FrameworkProject, "framework-project", false, "Treat the output directory as a framework project")
}

func newValidateCmd() *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an OpenAPI spec",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.RunValidate(cmd.Context(), input); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", input)
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "OpenAPI spec file (yaml/json) or URL")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func newServeCmd() *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the resolved type model as MCP tools over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunServe(cmd.Context(), input)
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "OpenAPI spec file (yaml/json) or URL")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
