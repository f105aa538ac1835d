package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/schemawire/schemawire/schema"
)

func newShowCmd() *cobra.Command {
	var modeFlag string

	cmd := &cobra.Command{
		Use:   "show <schema.json>",
		Short: "Print the projected schema value a digest would be computed over",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := parseModeFlag(modeFlag)
			if err != nil {
				return err
			}
			raw, err := loadSchema(args[0])
			if err != nil {
				return err
			}
			v, err := schema.Project(raw, mode)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v.Pretty())
			return nil
		},
	}

	cmd.Flags().StringVar(&modeFlag, "mode", schema.ModeNominal.String(), "compatibility mode: atom, structural, nominal")
	return cmd
}
