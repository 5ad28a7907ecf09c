package health

import (
	"context"
	"database/sql"
	"time"

	"resume-improver/internal/shared/storage/kv"
)

const pingTimeout = 2 * time.Second

// Service reports which backend serves each component and whether the shared
// stores answer. KV and DB may be nil.
type Service struct {
	KV         kv.Store
	DB         *sql.DB
	Components map[string]string
}

// NewService constructs a health service.
func NewService(store kv.Store, db *sql.DB, components map[string]string) *Service {
	return &Service{KV: store, DB: db, Components: components}
}

// Status returns the component map plus reachability of the stores. An
// unreachable store is reported, never escalated.
func (s *Service) Status() map[string]any {
	out := make(map[string]any, len(s.Components)+2)
	for k, v := range s.Components {
		out[k] = v
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if s.KV != nil {
		out["storeReachable"] = s.KV.Ping(ctx) == nil
	}
	if s.DB != nil {
		out["databaseReachable"] = s.DB.PingContext(ctx) == nil
	}
	return out
}
