package db

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"giftExchangeServer/config"
	"giftExchangeServer/game"
	"giftExchangeServer/logger"

	"go.uber.org/zap"
)

// SnapshotStore persists the full registry state and reads it back on
// startup. Save always receives the complete map; partial writes are not
// supported.
type SnapshotStore interface {
	Save(ctx context.Context, games map[string]*game.Game) error
	Load(ctx context.Context) (map[string]*game.Game, error)
}

/* =========================
   SNAPSHOT STORE (FILE)
========================= */

// FileStore writes the snapshot map to a single JSON file.
type FileStore struct {
	path string
}

// NewFileStore returns a file-backed snapshot store at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save writes the whole map, pretty-printed for hand inspection.
func (s *FileStore) Save(ctx context.Context, games map[string]*game.Game) error {
	data, err := json.MarshalIndent(games, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot file: %w", err)
	}
	return nil
}

// Load reads the snapshot file. A missing file is a fresh start, not an
// error; a file that exists but does not decode is.
func (s *FileStore) Load(ctx context.Context) (map[string]*game.Game, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]*game.Game{}, nil
		}
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	games := make(map[string]*game.Game)
	if err := json.Unmarshal(data, &games); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot file: %w", err)
	}
	return games, nil
}

/* =========================
   PERSISTER
========================= */

// Persister owns the background snapshot loop. Mutating handlers call
// Request, which never blocks; the loop wakes up, takes a point-in-time
// snapshot from source, and hands it to the store.
type Persister struct {
	store SnapshotStore

	mu     sync.Mutex
	source func() map[string]*game.Game

	trigger chan struct{}
	done    chan struct{}
	stopped chan struct{}
}

// NewPersister returns a persister bound to store. SetSource must be
// called before Run.
func NewPersister(store SnapshotStore) *Persister {
	return &Persister{
		store:   store,
		trigger: make(chan struct{}, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// SetSource installs the snapshot producer, typically Registry.Snapshot.
func (p *Persister) SetSource(fn func() map[string]*game.Game) {
	p.mu.Lock()
	p.source = fn
	p.mu.Unlock()
}

// Request schedules a snapshot. Requests arriving while one is already
// pending coalesce into a single save.
func (p *Persister) Request() {
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

// Run processes snapshot requests until Close. Call it on its own
// goroutine.
func (p *Persister) Run() {
	defer close(p.stopped)
	for {
		select {
		case <-p.done:
			// Final save so nothing requested during shutdown is lost.
			ctx, cancel := context.WithTimeout(context.Background(), config.SnapshotTimeout)
			if err := p.save(ctx); err != nil {
				logger.Get().Error("❌ Final snapshot failed", zap.Error(err))
			}
			cancel()
			return
		case <-p.trigger:
			ctx, cancel := context.WithTimeout(context.Background(), config.SnapshotTimeout)
			if err := p.save(ctx); err != nil {
				logger.Get().Error("❌ Snapshot save failed", zap.Error(err))
			}
			cancel()
		}
	}
}

// Flush drains any pending request and saves synchronously. Tests and
// shutdown paths use it to observe a settled store.
func (p *Persister) Flush(ctx context.Context) error {
	select {
	case <-p.trigger:
	default:
	}
	return p.save(ctx)
}

// Close stops the loop after one final save.
func (p *Persister) Close() {
	close(p.done)
	<-p.stopped
}

func (p *Persister) save(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.source == nil || p.store == nil {
		return nil
	}
	return p.store.Save(ctx, p.source())
}
