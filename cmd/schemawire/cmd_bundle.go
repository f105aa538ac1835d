package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/schemawire/schemawire/bundle"
	"github.com/schemawire/schemawire/schema"
)

func newBundleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bundle",
		Short: "Export and import canonical schema bundles",
	}
	cmd.AddCommand(newBundleExportCmd())
	cmd.AddCommand(newBundleImportCmd())
	return cmd
}

func newBundleExportCmd() *cobra.Command {
	var modeFlag string
	var out string

	cmd := &cobra.Command{
		Use:   "export --out <schemas.swb> <schema.json>...",
		Short: "Project schemas and pack their canonical encodings",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := parseModeFlag(modeFlag)
			if err != nil {
				return err
			}
			entries := make([]bundle.Entry, 0, len(args))
			for _, path := range args {
				raw, err := loadSchema(path)
				if err != nil {
					return err
				}
				v, err := schema.Project(raw, mode)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				entries = append(entries, bundle.Entry{
					Name:  entryName(path, raw),
					Mode:  mode,
					Value: v,
				})
			}

			f, err := os.OpenFile(out, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
			if err != nil {
				return err
			}
			if err := bundle.Export(f, entries); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		},
	}

	cmd.Flags().StringVar(&modeFlag, "mode", schema.ModeNominal.String(), "compatibility mode: atom, structural, nominal")
	cmd.Flags().StringVar(&out, "out", "", "bundle output path")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func newBundleImportCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "import <schemas.swb>",
		Short: "Verify a bundle and list its schemas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			imported, err := bundle.Import(f)
			if err != nil {
				return err
			}
			for _, entry := range imported {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", entry.Digest.Hex(), entry.Mode, entry.Name)
				if verbose {
					fmt.Fprintln(cmd.OutOrStdout(), entry.Value.Pretty())
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&verbose, "values", false, "also print each decoded schema value")
	return cmd
}
