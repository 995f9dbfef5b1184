package dataset

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/nuudash/internal/common"
	"github.com/dmitrijs2005/nuudash/internal/logging"
	"golang.org/x/sync/singleflight"
)

// Loader loads the dataset on first use and serves the same Snapshot to
// every later caller. Concurrent first calls share one load. A failed load
// is not remembered, so the next call tries again.
type Loader struct {
	src   Source
	log   logging.Logger
	group singleflight.Group
	snap  atomic.Pointer[Snapshot]
}

func NewLoader(src Source, log logging.Logger) *Loader {
	return &Loader{src: src, log: log.With("module", "dataset")}
}

// Snapshot returns the loaded dataset, loading it if needed. Errors wrap
// common.ErrDatasetUnavailable. The shared load does not stop when one
// caller's ctx is cancelled; that caller alone returns ctx.Err().
func (l *Loader) Snapshot(ctx context.Context) (*Snapshot, error) {
	if s := l.snap.Load(); s != nil {
		return s, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := l.group.DoChan("dataset", func() (any, error) {
		ctx := loadCtx
		if s := l.snap.Load(); s != nil {
			return s, nil
		}

		start := time.Now()
		t, err := l.src.Load(ctx)
		if err != nil {
			if !errors.Is(err, common.ErrDatasetUnavailable) {
				err = wrapUnavailable(l.src.Name(), err)
			}
			l.log.Error(ctx, "dataset load failed", "source", l.src.Name(), "error", err)
			return nil, err
		}

		s, err := NewSnapshot(t)
		if err != nil {
			l.log.Error(ctx, "dataset rejected", "source", l.src.Name(), "error", err)
			return nil, err
		}

		l.snap.Store(s)
		st := s.Stats()
		l.log.Info(ctx, "dataset loaded",
			"source", l.src.Name(),
			"clients", st.Clients,
			"accounts", st.Accounts,
			"records", st.Records,
			"scoring", st.Scoring,
			"took", time.Since(start))
		return s, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Snapshot), nil
	}
}
