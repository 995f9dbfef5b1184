// Package client talks to the nuudash dashboard server.
//
// GRPCClient attaches the caller's access token to each dashboard call and
// maps gRPC statuses back to the sentinel errors in internal/common, so the
// CLI can match them with errors.Is. A server that cannot be reached at all
// is reported as ErrUnavailable.
package client
