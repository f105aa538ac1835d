package main

import (
	"net"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"github.com/schemawire/schemawire/handshake"
)

func newServeCmd() *cobra.Command {
	var listen, manifestPath, logLevel string

	cmd := &cobra.Command{
		Use:   "serve --manifest <manifest.toml>",
		Short: "Serve a manifest's digests over the handshake gRPC service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := zerolog.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			log := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

			reg, err := loadRegistry(manifestPath)
			if err != nil {
				return err
			}

			srv := handshake.NewServer(reg)
			srv.Log = log

			lis, err := net.Listen("tcp", listen)
			if err != nil {
				return err
			}
			gs := grpc.NewServer()
			handshake.RegisterHandshakeServer(gs, srv)

			log.Info().
				Str("listen", lis.Addr().String()).
				Int("schemas", reg.Len()).
				Msg("handshake service up")
			return gs.Serve(lis)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "127.0.0.1:7443", "tcp listen address")
	cmd.Flags().StringVar(&manifestPath, "manifest", "", "manifest path")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "zerolog level")
	_ = cmd.MarkFlagRequired("manifest")
	return cmd
}
