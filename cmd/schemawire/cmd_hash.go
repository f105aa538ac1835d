package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/schemawire/schemawire"
	"github.com/schemawire/schemawire/schema"
)

func newHashCmd() *cobra.Command {
	var modeFlag string
	var asCID bool

	cmd := &cobra.Command{
		Use:   "hash <schema.json>...",
		Short: "Compute the wire-compatibility digest of schema descriptions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := parseModeFlag(modeFlag)
			if err != nil {
				return err
			}
			for _, path := range args {
				raw, err := loadSchema(path)
				if err != nil {
					return err
				}
				d, err := schemawire.Hash(raw, mode)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				if asCID {
					id, err := d.CID()
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", id, path)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", d.Hex(), path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&modeFlag, "mode", schema.ModeNominal.String(), "compatibility mode: atom, structural, nominal")
	cmd.Flags().BoolVar(&asCID, "cid", false, "print a CIDv1 instead of hex")
	return cmd
}
