package handshake

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// HandshakeServer is the server API for the Handshake gRPC service.
//
// We intentionally use protobuf well-known types so this package does not
// require a protoc/codegen toolchain. Manifest and report blobs use the
// framing in wire.go.
//
// Proto definition: handshake.proto.
type HandshakeServer interface {
	// Manifest returns the server's digest manifest.
	Manifest(context.Context, *emptypb.Empty) (*wrapperspb.BytesValue, error)
	// Check compares the caller's manifest against the server's and
	// returns a report.
	Check(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
}

// UnimplementedHandshakeServer can be embedded to have forward compatible
// implementations.
type UnimplementedHandshakeServer struct{}

func (UnimplementedHandshakeServer) Manifest(context.Context, *emptypb.Empty) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Manifest not implemented")
}
func (UnimplementedHandshakeServer) Check(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Check not implemented")
}

// RegisterHandshakeServer registers the Handshake service on a gRPC server.
func RegisterHandshakeServer(s grpc.ServiceRegistrar, srv HandshakeServer) {
	s.RegisterService(&Handshake_ServiceDesc, srv)
}

// HandshakeClient is the client API for the Handshake gRPC service.
type HandshakeClient interface {
	Manifest(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	Check(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
}

type handshakeClient struct{ cc grpc.ClientConnInterface }

func NewHandshakeClient(cc grpc.ClientConnInterface) HandshakeClient {
	return &handshakeClient{cc: cc}
}

func (c *handshakeClient) Manifest(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	err := c.cc.Invoke(ctx, "/schemawire.handshake.v1.Handshake/Manifest", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *handshakeClient) Check(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	err := c.cc.Invoke(ctx, "/schemawire.handshake.v1.Handshake/Check", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func _Handshake_Manifest_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(HandshakeServer).Manifest(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/schemawire.handshake.v1.Handshake/Manifest"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(HandshakeServer).Manifest(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _Handshake_Check_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(HandshakeServer).Check(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/schemawire.handshake.v1.Handshake/Check"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(HandshakeServer).Check(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

// Handshake_ServiceDesc is the grpc.ServiceDesc for the Handshake service.
var Handshake_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "schemawire.handshake.v1.Handshake",
	HandlerType: (*HandshakeServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Manifest", Handler: _Handshake_Manifest_Handler},
		{MethodName: "Check", Handler: _Handshake_Check_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "handshake.proto",
}
