// Package common contains shared constants and error values used across
// nuudash server and client components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token issued by the identity provider.
const AccessTokenHeaderName = "access_token"

// MembershipClaim is the JWT claim carrying the membership tier.
const MembershipClaim = "membership"
