package grpc

import (
	"context"

	"github.com/dmitrijs2005/nuudash/internal/common"
	"github.com/dmitrijs2005/nuudash/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const accessTokenKey ctxKey = "accessToken"

func accessTokenFromContext(ctx context.Context) string {
	t, _ := ctx.Value(accessTokenKey).(string)
	return t
}

// accessTokenInterceptor requires the access_token metadata on calls that
// serve a dashboard and hands the token to the handler through ctx.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	if info.FullMethod == rpc.GetDashboardMethod {

		var accessToken string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			values := md.Get(common.AccessTokenHeaderName)
			if len(values) > 0 {
				accessToken = values[0]
			}
		}
		if len(accessToken) == 0 {
			return nil, status.Error(codes.Unauthenticated, common.ErrUnauthorized.Error())
		}

		ctx = context.WithValue(ctx, accessTokenKey, accessToken)

	}

	return handler(ctx, req)
}
