package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol-server/model"
)

const worldKeyPrefix = "world/"

// BadgerConfig configures the BadgerDB-backed repository
type BadgerConfig struct {
	// Path is the database directory, ignored when InMemory is set
	Path string
	// InMemory keeps everything in RAM; used by tests
	InMemory bool
	// SyncWrites fsyncs every write
	SyncWrites bool
	// GCInterval is how often the value log is garbage collected, 0 disables it
	GCInterval time.Duration
	// GCDiscardRatio is the minimum reclaimable ratio before a value log file is rewritten
	GCDiscardRatio float64
}

/*
Badger keeps live worlds in memory and writes their living sets through to BadgerDB.

Worlds that are not cached (for example after a restart) are rehydrated from disk
through the factory on first Retrieve, then served from the cache so every caller
shares one World and its lock.
*/
type Badger struct {
	db      *badger.DB
	factory model.Factory
	logger  *slog.Logger

	mu    sync.Mutex
	cache map[uuid.UUID]*model.World

	stopGC chan struct{}
	gcDone chan struct{}
}

// badgerLogger adapts slog to badger's logger interface
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// OpenBadger opens the database described by cfg. factory rebuilds worlds read back from disk.
func OpenBadger(cfg BadgerConfig, factory model.Factory, logger *slog.Logger) (*Badger, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("[OpenBadger] path is required for a persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, errors.Wrapf(err, "[OpenBadger] failed to create directory: %s", cfg.Path)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.
		WithSyncWrites(cfg.SyncWrites).
		WithNumVersionsToKeep(1).
		WithLogger(&badgerLogger{logger: logger})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "[OpenBadger] failed to open database")
	}

	r := &Badger{
		db:      db,
		factory: factory,
		logger:  logger,
		cache:   make(map[uuid.UUID]*model.World),
	}
	if cfg.GCInterval > 0 && !cfg.InMemory {
		r.stopGC = make(chan struct{})
		r.gcDone = make(chan struct{})
		go r.runGC(cfg.GCInterval, cfg.GCDiscardRatio)
	}
	return r, nil
}

func (r *Badger) Create(ctx context.Context, world *model.World) (uuid.UUID, error) {
	id := uuid.New()
	if err := r.write(id, world); err != nil {
		return uuid.Nil, errors.Wrapf(err, "[Badger.Create] world %s", id)
	}

	r.mu.Lock()
	r.cache[id] = world
	r.mu.Unlock()

	r.logger.InfoContext(ctx, "created world", slog.String("world_id", id.String()))
	return id, nil
}

func (r *Badger) Retrieve(ctx context.Context, id uuid.UUID) (*model.World, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if world, ok := r.cache[id]; ok {
		return world, nil
	}

	entities, err := r.read(id)
	if err != nil {
		return nil, err
	}
	world := r.factory.Build(entities)
	r.cache[id] = world

	r.logger.DebugContext(ctx, "rehydrated world",
		slog.String("world_id", id.String()),
		slog.Int("population", len(entities)))
	return world, nil
}

func (r *Badger) Save(_ context.Context, id uuid.UUID, world *model.World) error {
	return errors.Wrapf(r.write(id, world), "[Badger.Save] world %s", id)
}

// Close stops garbage collection and closes the database
func (r *Badger) Close() error {
	if r.stopGC != nil {
		close(r.stopGC)
		<-r.gcDone
	}
	return r.db.Close()
}

func (r *Badger) write(id uuid.UUID, world *model.World) error {
	living := world.LivingEntities()
	model.SortEntities(living)

	data, err := json.Marshal(encodeEntities(living))
	if err != nil {
		return errors.Wrap(err, "failed to encode living entities")
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(worldKey(id), data)
	})
}

func (r *Badger) read(id uuid.UUID) ([]model.Entity, error) {
	var pairs [][2]int
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(worldKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &pairs)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "[Badger.read] world %s", id)
	}
	return decodeEntities(pairs), nil
}

func (r *Badger) runGC(interval time.Duration, ratio float64) {
	defer close(r.gcDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopGC:
			return
		case <-ticker.C:
			// ErrNoRewrite only means there was nothing to collect
			if err := r.db.RunValueLogGC(ratio); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				r.logger.Warn("badger value log GC error", slog.String("error", err.Error()))
			}
		}
	}
}

func worldKey(id uuid.UUID) []byte {
	return []byte(worldKeyPrefix + id.String())
}

func encodeEntities(entities []model.Entity) [][2]int {
	out := make([][2]int, len(entities))
	for i, e := range entities {
		out[i] = [2]int{e.X, e.Y}
	}
	return out
}

func decodeEntities(pairs [][2]int) []model.Entity {
	out := make([]model.Entity, len(pairs))
	for i, p := range pairs {
		out[i] = model.NewEntity(p[0], p[1])
	}
	return out
}
