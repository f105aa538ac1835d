package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "schemawire",
		Short: "Wire-compatibility digests for RPC message types",
	}

	root.AddCommand(newHashCmd())
	root.AddCommand(newShowCmd())
	root.AddCommand(newManifestCmd())
	root.AddCommand(newBundleCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newCheckCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
