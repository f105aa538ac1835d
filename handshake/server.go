package handshake

import (
	"context"

	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/schemawire/schemawire/registry"
)

// Server exposes a Registry over the Handshake gRPC service.
type Server struct {
	UnimplementedHandshakeServer

	// Registry is the local side of every comparison.
	Registry *registry.Registry

	// Log receives one event per RPC. Zero value is silent.
	Log zerolog.Logger
}

func NewServer(r *registry.Registry) *Server {
	return &Server{Registry: r, Log: zerolog.Nop()}
}

func (s *Server) Manifest(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.BytesValue, error) {
	_ = ctx
	if s == nil || s.Registry == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing registry")
	}
	s.Log.Debug().Int("schemas", s.Registry.Len()).Msg("manifest requested")
	return wrapperspb.Bytes(EncodeManifest(s.Registry)), nil
}

func (s *Server) Check(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	_ = ctx
	if s == nil || s.Registry == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing registry")
	}
	remote, err := DecodeManifest(in.GetValue())
	if err != nil {
		s.Log.Warn().Err(err).Msg("rejected malformed manifest")
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	results := s.Registry.Compare(remote)
	mismatches := 0
	for _, res := range results {
		if res.Status == registry.StatusMismatch {
			mismatches++
		}
	}
	s.Log.Info().
		Int("names", len(results)).
		Int("mismatches", mismatches).
		Bool("compatible", registry.Compatible(results)).
		Msg("handshake check")

	blob, err := EncodeReport(results)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return wrapperspb.Bytes(blob), nil
}
