package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/nuudash/internal/common"
	"github.com/dmitrijs2005/nuudash/internal/logging"
	"github.com/dmitrijs2005/nuudash/internal/server/auth"
	"github.com/dmitrijs2005/nuudash/internal/server/dataset"
	"github.com/dmitrijs2005/nuudash/internal/server/entitlement"
	"github.com/dmitrijs2005/nuudash/internal/server/identity"
	"github.com/dmitrijs2005/nuudash/internal/server/models"
	"github.com/dmitrijs2005/nuudash/internal/server/view"
)

// IdentityProvider answers whoami for an access token.
type IdentityProvider interface {
	WhoAmI(ctx context.Context, accessToken string) ([]byte, error)
}

// SnapshotSource hands out the loaded dataset.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*dataset.Snapshot, error)
}

// DashboardService runs the dashboard pipeline: whoami, dataset, identity
// resolution, tier classification and view composition.
type DashboardService struct {
	idp         IdentityProvider
	data        SnapshotSource
	caps        entitlement.Caps
	tokenSecret []byte
	log         logging.Logger
}

// NewDashboardService wires the pipeline. tokenSecret may be empty, in which
// case the membership claim is decoded without verification.
func NewDashboardService(idp IdentityProvider, data SnapshotSource, caps entitlement.Caps, tokenSecret []byte, log logging.Logger) *DashboardService {
	return &DashboardService{
		idp:         idp,
		data:        data,
		caps:        caps,
		tokenSecret: tokenSecret,
		log:         log.With("module", "dashboard"),
	}
}

// Dashboard builds the payload for the holder of accessToken. Errors keep
// their kind (dataset, identity, auth) so transports can map them.
func (s *DashboardService) Dashboard(ctx context.Context, accessToken string, filter models.HistoryFilter) (view.Payload, error) {
	if accessToken == "" {
		return nil, common.ErrUnauthorized
	}

	raw, err := s.idp.WhoAmI(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("whoami: %w", err)
	}

	snap, err := s.data.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	client, err := identity.Resolve(identity.ParseClaim(raw), snap)
	if err != nil {
		s.log.Info(ctx, "identity not resolved", "error", err)
		return nil, err
	}

	tier := entitlement.Classify(client)
	s.checkMembership(ctx, accessToken, client, tier)

	policy := entitlement.New(tier, s.caps)
	in := view.Input{
		Client:   client,
		Accounts: snap.AccountsFor(client.ID),
		History:  snap.HistoryFor(client.ID, models.HistoryFilter{}, false),
		Filter:   filter,
	}
	if policy.ScoreVisible() {
		if sc, ok := snap.ScoringFor(client.ID); ok {
			in.Scoring = &sc
		}
	}

	s.log.Debug(ctx, "composing dashboard", "client", client.ShortID(), "tier", tier)
	return view.Compose(policy, in), nil
}

// checkMembership compares the token's membership claim with the tier from
// the dataset. The dataset wins; a disagreement is only logged.
func (s *DashboardService) checkMembership(ctx context.Context, token string, c models.Client, tier entitlement.Tier) {
	claimed, err := auth.MembershipFromToken(token, s.tokenSecret)
	if err != nil {
		s.log.Debug(ctx, "membership claim unreadable", "error", err)
		return
	}
	if claimed == "" {
		return
	}
	if entitlement.ParseTier(claimed) != tier {
		s.log.Warn(ctx, "membership claim disagrees with dataset",
			"client", c.ShortID(), "claimed", claimed, "dataset", tier)
	}
}

// Ready reports whether the dataset can be served.
func (s *DashboardService) Ready(ctx context.Context) error {
	_, err := s.data.Snapshot(ctx)
	return err
}
