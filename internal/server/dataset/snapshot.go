package dataset

import (
	"fmt"
	"slices"

	"github.com/dmitrijs2005/nuudash/internal/common"
	"github.com/dmitrijs2005/nuudash/internal/server/models"
)

// Snapshot is an immutable, indexed view of the loaded Tables. It is safe
// for concurrent use because nothing mutates it after construction.
type Snapshot struct {
	clients  map[string]models.Client
	accounts map[string][]models.Account
	history  map[string][]models.Record
	scoring  map[string]models.Scoring
	stats    Stats
}

// Stats counts the rows of each record set.
type Stats struct {
	Clients  int
	Accounts int
	Records  int
	Scoring  int
}

// NewSnapshot validates the relations between the record sets and indexes
// them by client id. A duplicate client, an account owned by an unknown
// client or a second scoring record for the same client makes the whole
// dataset unavailable.
func NewSnapshot(t *Tables) (*Snapshot, error) {
	if t == nil {
		return nil, unavailable("no tables")
	}

	s := &Snapshot{
		clients:  make(map[string]models.Client, len(t.Clients)),
		accounts: make(map[string][]models.Account),
		history:  make(map[string][]models.Record),
		scoring:  make(map[string]models.Scoring, len(t.Scoring)),
		stats: Stats{
			Clients:  len(t.Clients),
			Accounts: len(t.Accounts),
			Records:  len(t.History),
			Scoring:  len(t.Scoring),
		},
	}

	for _, c := range t.Clients {
		if _, dup := s.clients[c.ID]; dup {
			return nil, unavailable("duplicate client %s", c.ID)
		}
		s.clients[c.ID] = c
	}

	for _, a := range t.Accounts {
		if _, ok := s.clients[a.ClientID]; !ok {
			return nil, unavailable("account %s references unknown client %s", a.MaskedNumber(), a.ClientID)
		}
		s.accounts[a.ClientID] = append(s.accounts[a.ClientID], a)
	}

	for _, r := range t.History {
		s.history[r.ClientID] = append(s.history[r.ClientID], r)
	}

	for _, sc := range t.Scoring {
		if _, dup := s.scoring[sc.ClientID]; dup {
			return nil, unavailable("more than one scoring record for client %s", sc.ClientID)
		}
		s.scoring[sc.ClientID] = sc
	}

	return s, nil
}

func (s *Snapshot) Stats() Stats { return s.stats }

func (s *Snapshot) FindClient(id string) (models.Client, bool) {
	c, ok := s.clients[models.CanonicalID(id)]
	return c, ok
}

// Client is FindClient reporting a miss as common.ErrClientNotFound.
func (s *Snapshot) Client(id string) (models.Client, error) {
	c, ok := s.FindClient(id)
	if !ok {
		return models.Client{}, fmt.Errorf("%w: %s", common.ErrClientNotFound, id)
	}
	return c, nil
}

// AccountsFor returns the client's accounts in dataset order.
func (s *Snapshot) AccountsFor(id string) []models.Account {
	return slices.Clone(s.accounts[models.CanonicalID(id)])
}

// HistoryFor returns the client's records matching filter, in dataset order
// or newest first when sortDesc is set.
func (s *Snapshot) HistoryFor(id string, filter models.HistoryFilter, sortDesc bool) []models.Record {
	out := filter.Apply(s.history[models.CanonicalID(id)])
	if sortDesc {
		out = models.SortByTimestampDesc(out)
	}
	return out
}

func (s *Snapshot) ScoringFor(id string) (models.Scoring, bool) {
	sc, ok := s.scoring[models.CanonicalID(id)]
	return sc, ok
}
