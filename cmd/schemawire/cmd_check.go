package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/schemawire/schemawire/handshake"
	"github.com/schemawire/schemawire/registry"
)

func newCheckCmd() *cobra.Command {
	var addr, manifestPath string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "check --addr <host:port> --manifest <manifest.toml>",
		Short: "Compare a local manifest against a remote handshake service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			local, err := loadRegistry(manifestPath)
			if err != nil {
				return err
			}

			client, err := handshake.Dial(addr, handshake.DialOptions{Timeout: timeout})
			if err != nil {
				return err
			}
			defer client.Close()
			client.Timeout = timeout

			results, err := client.Check(cmd.Context(), local)
			if err != nil {
				return err
			}
			for _, res := range results {
				switch res.Status {
				case registry.StatusOK:
					fmt.Fprintf(cmd.OutOrStdout(), "ok\t%s\t%s\n", res.Name, res.Remote.Hex())
				case registry.StatusMismatch:
					fmt.Fprintf(cmd.OutOrStdout(), "mismatch\t%s\tremote %s != local %s\n",
						res.Name, res.Local.Hex(), res.Remote.Hex())
				case registry.StatusMissing:
					fmt.Fprintf(cmd.OutOrStdout(), "remote-only\t%s\t%s\n", res.Name, res.Local.Hex())
				case registry.StatusExtra:
					fmt.Fprintf(cmd.OutOrStdout(), "local-only\t%s\t%s\n", res.Name, res.Remote.Hex())
				}
			}
			if !registry.Compatible(results) {
				return fmt.Errorf("incompatible: digest mismatch with %s", addr)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "remote handshake address")
	cmd.Flags().StringVar(&manifestPath, "manifest", "", "local manifest path")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "per-rpc timeout")
	_ = cmd.MarkFlagRequired("addr")
	_ = cmd.MarkFlagRequired("manifest")
	return cmd
}
