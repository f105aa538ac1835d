package main

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/schemawire/schemawire"
	"github.com/schemawire/schemawire/registry"
)

func newManifestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Create, verify, diff and sign digest manifests",
	}
	cmd.AddCommand(newManifestCreateCmd())
	cmd.AddCommand(newManifestVerifyCmd())
	cmd.AddCommand(newManifestDiffCmd())
	cmd.AddCommand(newManifestSignCmd())
	cmd.AddCommand(newManifestVerifySigCmd())
	return cmd
}

func newManifestCreateCmd() *cobra.Command {
	var modeFlag string
	var out string

	cmd := &cobra.Command{
		Use:   "create --out <manifest.toml> <schema.json>...",
		Short: "Hash schema files into a manifest",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := parseModeFlag(modeFlag)
			if err != nil {
				return err
			}
			reg := registry.New()
			for _, path := range args {
				raw, err := loadSchema(path)
				if err != nil {
					return err
				}
				if err := reg.AddSchema(entryName(path, raw), raw, mode); err != nil {
					return err
				}
			}
			m := registry.FromRegistry(reg)
			if out == "" {
				return m.EncodeTOML(cmd.OutOrStdout())
			}
			return m.Save(out)
		},
	}

	cmd.Flags().StringVar(&modeFlag, "mode", "nominal", "compatibility mode: atom, structural, nominal")
	cmd.Flags().StringVar(&out, "out", "", "output path (.toml, .yaml); stdout when empty")
	return cmd
}

func newManifestVerifyCmd() *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "verify --manifest <manifest.toml> <schema.json>...",
		Short: "Recompute schema digests and compare against a manifest",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := registry.Load(manifestPath)
			if err != nil {
				return err
			}
			want, err := m.Registry()
			if err != nil {
				return err
			}

			got := registry.New()
			for _, path := range args {
				raw, err := loadSchema(path)
				if err != nil {
					return err
				}
				name := entryName(path, raw)
				entry, err := want.Get(name)
				if err != nil {
					return fmt.Errorf("%s: not in manifest", name)
				}
				d, err := schemawire.Hash(raw, entry.Mode)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				if err := got.Add(name, entry.Mode, d); err != nil {
					return err
				}
			}

			results := want.Compare(got)
			return printResults(cmd, results, false)
		},
	}

	cmd.Flags().StringVar(&manifestPath, "manifest", "", "manifest path")
	_ = cmd.MarkFlagRequired("manifest")
	return cmd
}

func newManifestDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <local.toml> <remote.toml>",
		Short: "Compare two manifests name by name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			local, err := loadRegistry(args[0])
			if err != nil {
				return err
			}
			remote, err := loadRegistry(args[1])
			if err != nil {
				return err
			}
			return printResults(cmd, local.Compare(remote), true)
		},
	}
}

func newManifestSignCmd() *cobra.Command {
	var manifestPath, seedHex, out string

	cmd := &cobra.Command{
		Use:   "sign --manifest <manifest.toml> --seed-hex <64hex>",
		Short: "Sign a manifest with an ed25519 key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := hex.DecodeString(seedHex)
			if err != nil || len(seed) != ed25519.SeedSize {
				return fmt.Errorf("--seed-hex must be %d bytes of hex", ed25519.SeedSize)
			}
			m, err := registry.Load(manifestPath)
			if err != nil {
				return err
			}
			priv := ed25519.NewKeyFromSeed(seed)
			registry.SignEd25519(&m, priv)
			if out == "" {
				out = manifestPath
			}
			if err := m.Save(out); err != nil {
				return err
			}
			pub := priv.Public().(ed25519.PublicKey)
			fmt.Fprintf(cmd.OutOrStdout(), "signed %s (ed25519:%s)\n",
				out, base64.StdEncoding.EncodeToString(pub))
			return nil
		},
	}

	cmd.Flags().StringVar(&manifestPath, "manifest", "", "manifest path")
	cmd.Flags().StringVar(&seedHex, "seed-hex", "", "ed25519 seed, 64 hex chars")
	cmd.Flags().StringVar(&out, "out", "", "output path; defaults to --manifest")
	_ = cmd.MarkFlagRequired("manifest")
	_ = cmd.MarkFlagRequired("seed-hex")
	return cmd
}

func newManifestVerifySigCmd() *cobra.Command {
	var manifestPath, pubB64 string

	cmd := &cobra.Command{
		Use:   "verify-sig --manifest <manifest.toml> --pub <base64>",
		Short: "Verify a manifest's ed25519 signature",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pub, err := base64.StdEncoding.DecodeString(pubB64)
			if err != nil || len(pub) != ed25519.PublicKeySize {
				return fmt.Errorf("--pub must be a base64 ed25519 public key")
			}
			m, err := registry.Load(manifestPath)
			if err != nil {
				return err
			}
			if err := registry.VerifyEd25519(m, ed25519.PublicKey(pub)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}

	cmd.Flags().StringVar(&manifestPath, "manifest", "", "manifest path")
	cmd.Flags().StringVar(&pubB64, "pub", "", "base64 ed25519 public key")
	_ = cmd.MarkFlagRequired("manifest")
	_ = cmd.MarkFlagRequired("pub")
	return cmd
}

func loadRegistry(path string) (*registry.Registry, error) {
	m, err := registry.Load(path)
	if err != nil {
		return nil, err
	}
	return m.Registry()
}

// printResults renders one line per name. With strictSet, missing and extra
// names also count as failures.
func printResults(cmd *cobra.Command, results []registry.Result, strictSet bool) error {
	failed := false
	for _, res := range results {
		switch res.Status {
		case registry.StatusOK:
			fmt.Fprintf(cmd.OutOrStdout(), "ok\t%s\t%s\n", res.Name, res.Local.Hex())
		case registry.StatusMismatch:
			failed = true
			fmt.Fprintf(cmd.OutOrStdout(), "mismatch\t%s\t%s != %s\n", res.Name, res.Local.Hex(), res.Remote.Hex())
		case registry.StatusMissing:
			failed = failed || strictSet
			fmt.Fprintf(cmd.OutOrStdout(), "missing\t%s\t%s\n", res.Name, res.Local.Hex())
		case registry.StatusExtra:
			failed = failed || strictSet
			fmt.Fprintf(cmd.OutOrStdout(), "extra\t%s\t%s\n", res.Name, res.Remote.Hex())
		}
	}
	if failed {
		return fmt.Errorf("manifest comparison failed")
	}
	return nil
}
