package client

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/nuudash/internal/common"
	"github.com/dmitrijs2005/nuudash/internal/rpc"
	"github.com/dmitrijs2005/nuudash/internal/server/view"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client is what the CLI needs from the dashboard server.
type Client interface {
	Close() error
	Ping(ctx context.Context) error
	Dashboard(ctx context.Context, accessToken string, kinds, institutions []string) (view.Payload, error)
}

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      rpc.DashboardClient
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

// NewGRPCClient connects lazily to endpointURL. Extra dial options are
// appended after the insecure transport credentials.
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}

	return &GRPCClient{
		endpointURL: endpointURL,
		conn:        conn,
		client:      rpc.NewDashboardClient(conn),
	}, nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {

	resp, err := s.client.Ping(ctx, &structpb.Struct{})
	if err != nil {
		return mapError(err)
	}

	if resp.GetFields()["status"].GetStringValue() != "OK" {
		return ErrUnavailable
	}

	return nil

}

// Dashboard fetches the payload for accessToken. kinds and institutions
// narrow the PREMIUM history list; FREE ignores them.
func (s *GRPCClient) Dashboard(ctx context.Context, accessToken string, kinds, institutions []string) (view.Payload, error) {

	req, err := rpc.Filter{Kinds: kinds, Institutions: institutions}.ToStruct()
	if err != nil {
		return nil, err
	}

	resp, err := s.client.GetDashboard(withAccessToken(ctx, accessToken), req)
	if err != nil {
		return nil, mapError(err)
	}

	data, err := rpc.PayloadFromStruct(resp)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}

	return view.Decode(data)
}

// mapError turns a gRPC status back into the error kind the server saw.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	msg := st.Message()

	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		switch msg {
		case common.ErrTokenExpired.Error():
			return common.ErrTokenExpired
		case common.ErrIdentityUnresolved.Error():
			return common.ErrIdentityUnresolved
		case common.ErrUnauthorized.Error(), "":
			return common.ErrUnauthorized
		default:
			return &common.AuthError{Status: 401, Detail: msg}
		}
	case codes.NotFound:
		return common.ErrClientNotFound
	case codes.InvalidArgument:
		return common.NewValidationError("filter", msg)
	case codes.Unavailable:
		switch msg {
		case common.ErrDatasetUnavailable.Error():
			return common.ErrDatasetUnavailable
		case common.ErrAuthUnavailable.Error():
			return common.ErrAuthUnavailable
		default:
			return ErrUnavailable
		}
	case codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
