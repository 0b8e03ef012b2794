package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/okian/regrow/internal/domain/model"
	"github.com/okian/regrow/pkg/logger"
	"github.com/okian/regrow/pkg/metrics"
)

// DefaultStateKey is the fixed application key of the persisted aggregate.
const DefaultStateKey = "hairRegrowthData"

// Load outcomes reported to metrics.
const (
	LoadOK      = "ok"
	LoadAbsent  = "absent"
	LoadCorrupt = "corrupt"
	LoadError   = "error"
)

// StateRepository reads and writes the protocol aggregate under one key.
type StateRepository struct {
	store Store
	key   string
	log   logger.Logger
}

// NewStateRepository wraps store.
func NewStateRepository(store Store, opts ...Option) *StateRepository {
	r := &StateRepository{store: store, key: DefaultStateKey}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.Get().Named("repository")
	}
	return r
}

// Load returns the persisted aggregate. An absent or unreadable blob yields
// the default state; the problem is logged, never returned.
func (r *StateRepository) Load(ctx context.Context) model.ProtocolState {
	state, outcome := r.load(ctx)
	metrics.RecordStateLoad(outcome)
	return state
}

func (r *StateRepository) load(ctx context.Context) (model.ProtocolState, string) {
	raw, err := r.store.Get(ctx, r.key)
	if errors.Is(err, ErrNotFound) {
		r.log.Info(ctx, "no saved state, starting fresh", logger.String("key", r.key))
		return model.DefaultState(), LoadAbsent
	}
	if err != nil {
		r.log.Warn(ctx, "failed to read saved state, using defaults",
			logger.String("key", r.key), logger.Error(err))
		return model.DefaultState(), LoadError
	}

	var state model.ProtocolState
	if err := json.Unmarshal(raw, &state); err != nil {
		r.log.Warn(ctx, "saved state is corrupt, using defaults",
			logger.String("key", r.key), logger.Int("bytes", len(raw)), logger.Error(err))
		return model.DefaultState(), LoadCorrupt
	}
	return state.Normalize(), LoadOK
}

// Save serializes the whole aggregate and overwrites the key.
func (r *StateRepository) Save(ctx context.Context, state model.ProtocolState) error {
	start := time.Now()
	raw, err := json.Marshal(state)
	if err != nil {
		metrics.RecordStateSaveError()
		return fmt.Errorf("encode state: %w", err)
	}
	if err := r.store.Put(ctx, r.key, raw); err != nil {
		metrics.RecordStateSaveError()
		return fmt.Errorf("save state: %w", err)
	}
	metrics.RecordStateSave(float64(time.Since(start).Microseconds()) / 1000)
	return nil
}

// Key returns the key the aggregate is stored under.
func (r *StateRepository) Key() string { return r.key }
