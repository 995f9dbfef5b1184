// Package grpc exposes the dashboard over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/nuudash/internal/logging"
	"github.com/dmitrijs2005/nuudash/internal/rpc"
	"github.com/dmitrijs2005/nuudash/internal/server/models"
	"github.com/dmitrijs2005/nuudash/internal/server/view"
	"google.golang.org/grpc"
)

// Dashboards is the part of the dashboard service the transport needs.
type Dashboards interface {
	Dashboard(ctx context.Context, accessToken string, filter models.HistoryFilter) (view.Payload, error)
	Ready(ctx context.Context) error
}

type GRPCServer struct {
	address    string
	dashboards Dashboards
	logger     logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, d Dashboards) *GRPCServer {
	return &GRPCServer{
		address:    a,
		logger:     l.With("module", "grpc_server"),
		dashboards: d,
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))
	rpc.RegisterDashboardServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
