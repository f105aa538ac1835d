package handshake

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/schemawire/schemawire/registry"
)

// Client checks local registries against a remote Handshake service.
type Client struct {
	cc     *grpc.ClientConn
	client HandshakeClient

	// Timeout applies per RPC when non-zero.
	Timeout time.Duration
}

type DialOptions struct {
	// Timeout applies to the initial dial when non-zero.
	Timeout time.Duration

	// MaxMsgBytes sets both send/recv max sizes when non-zero.
	MaxMsgBytes int
}

func Dial(target string, opts DialOptions) (*Client, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if opts.MaxMsgBytes > 0 {
		dialOpts = append(dialOpts,
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(opts.MaxMsgBytes),
				grpc.MaxCallSendMsgSize(opts.MaxMsgBytes),
			),
		)
	}

	ctx := context.Background()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cc, err := grpc.DialContext(ctx, target, dialOpts...)
	if err != nil {
		return nil, err
	}
	return &Client{cc: cc, client: NewHandshakeClient(cc)}, nil
}

// NewClient wraps an existing connection, e.g. one dialed over bufconn.
func NewClient(cc *grpc.ClientConn) *Client {
	return &Client{cc: cc, client: NewHandshakeClient(cc)}
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

// Manifest fetches the remote registry.
func (c *Client) Manifest(ctx context.Context) (*registry.Registry, error) {
	ctx, cancel := c.ctx(ctx)
	defer cancel()
	reply, err := c.client.Manifest(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, err
	}
	return DecodeManifest(reply.GetValue())
}

// Check sends the local registry and returns the server's report.
//
// The report is oriented from the server's point of view: StatusMissing
// means the server has a name this client lacks, StatusExtra the reverse.
func (c *Client) Check(ctx context.Context, local *registry.Registry) ([]registry.Result, error) {
	ctx, cancel := c.ctx(ctx)
	defer cancel()
	reply, err := c.client.Check(ctx, wrapperspb.Bytes(EncodeManifest(local)))
	if err != nil {
		return nil, err
	}
	return DecodeReport(reply.GetValue())
}

func (c *Client) ctx(parent context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return parent, func() {}
	}
	return context.WithTimeout(parent, c.Timeout)
}
