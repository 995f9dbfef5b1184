package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/nuudash/internal/common"
	"github.com/dmitrijs2005/nuudash/internal/rpc"
	"github.com/dmitrijs2005/nuudash/internal/server/models"
	"github.com/dmitrijs2005/nuudash/internal/server/view"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *GRPCServer) GetDashboard(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	f, err := rpc.FilterFromStruct(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	filter, err := models.ParseHistoryFilter(f.Kinds, f.Institutions)
	if err != nil {
		return nil, toStatus(err).Err()
	}

	p, err := s.dashboards.Dashboard(ctx, accessTokenFromContext(ctx), filter)
	if err != nil {
		st := toStatus(err)
		if st.Code() == codes.Internal || st.Code() == codes.Unavailable {
			s.logger.Error(ctx, "dashboard failed", "error", err)
		} else {
			s.logger.Info(ctx, "dashboard refused", "error", err)
		}
		return nil, st.Err()
	}

	data, err := view.Encode(p)
	if err != nil {
		s.logger.Error(ctx, err.Error())
		return nil, status.Error(codes.Internal, "internal error")
	}

	out, err := rpc.PayloadToStruct(data)
	if err != nil {
		s.logger.Error(ctx, err.Error())
		return nil, status.Error(codes.Internal, "internal error")
	}

	return out, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	if err := s.dashboards.Ready(ctx); err != nil {
		return nil, toStatus(err).Err()
	}

	return structpb.NewStruct(map[string]any{"status": "OK"})

}

// toStatus maps pipeline errors to gRPC statuses. The message is the
// sentinel text so clients can map it back; identity provider rejections
// carry the provider's detail instead.
func toStatus(err error) *status.Status {
	var ae *common.AuthError
	var ve *common.ValidationError

	switch {
	case errors.As(err, &ve):
		return status.New(codes.InvalidArgument, ve.Message)
	case errors.Is(err, common.ErrTokenExpired):
		return status.New(codes.Unauthenticated, common.ErrTokenExpired.Error())
	case errors.As(err, &ae):
		return status.New(codes.Unauthenticated, ae.Error())
	case errors.Is(err, common.ErrIdentityUnresolved):
		return status.New(codes.Unauthenticated, common.ErrIdentityUnresolved.Error())
	case errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrInvalidToken):
		return status.New(codes.Unauthenticated, common.ErrUnauthorized.Error())
	case errors.Is(err, common.ErrClientNotFound):
		return status.New(codes.NotFound, common.ErrClientNotFound.Error())
	case errors.Is(err, common.ErrDatasetUnavailable):
		return status.New(codes.Unavailable, common.ErrDatasetUnavailable.Error())
	case errors.Is(err, common.ErrAuthUnavailable):
		return status.New(codes.Unavailable, common.ErrAuthUnavailable.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.New(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.New(codes.Canceled, err.Error())
	default:
		return status.New(codes.Internal, "internal error")
	}
}
