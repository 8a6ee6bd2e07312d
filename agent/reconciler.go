package agent

import (
	"context"
	"time"

	"github.com/erikmagkekse/dshare/exports"

	"github.com/rs/zerolog/log"
)

// worldClient is how exportfs -v prints the "*" client.
const worldClient = "<world>"

// Reconciler re-exports the exports file when the kernel export table
// drifted from it, e.g. after a manual exportfs -u or an nfs-server restart.
type Reconciler struct {
	server *exports.Server
}

func NewReconciler(server *exports.Server) *Reconciler {
	return &Reconciler{server: server}
}

func (r *Reconciler) Start(ctx context.Context, interval time.Duration) {
	go func() {
		r.Reconcile(ctx)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.Reconcile(ctx)
			}
		}
	}()
}

// Reconcile returns the number of entries that were missing from the kernel
// export table before the resync.
func (r *Reconciler) Reconcile(ctx context.Context) int {
	entries, err := r.server.Entries()
	if err != nil {
		log.Error().Err(err).Msg("reconciler: failed to read exports file")
		return 0
	}
	active, err := r.server.Exportfs().Active(ctx)
	if err != nil {
		log.Error().Err(err).Msg("reconciler: failed to list active exports")
		return 0
	}

	activeExportsGauge.Set(float64(len(active)))

	// path -> set of clients
	actual := map[string]map[string]bool{}
	for _, a := range active {
		if actual[a.Path] == nil {
			actual[a.Path] = map[string]bool{}
		}
		actual[a.Path][normalizeClient(a.Client)] = true
	}

	var missing int
	for _, e := range entries {
		if actual[e.Path][normalizeClient(e.Client)] {
			continue
		}
		log.Warn().Str("path", e.Path).Str("client", e.Client).Msg("reconciler: export missing from kernel table")
		missing++
	}

	if missing == 0 {
		return 0
	}

	reconcileResyncTotal.Inc()
	if err := r.server.Exportfs().Sync(ctx); err != nil {
		log.Error().Err(err).Msg("reconciler: failed to re-export")
		return missing
	}
	log.Info().Int("restored", missing).Msg("reconciler: reconciliation complete")
	return missing
}

func normalizeClient(c string) string {
	if c == "*" {
		return worldClient
	}
	return c
}
