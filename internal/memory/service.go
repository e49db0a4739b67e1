package memory

import (
	"context"
	"log"
	"sync"
	"time"
)

// Sink receives one snapshot per snapshot cycle. Implementations own
// their durability semantics; failures are logged here and never
// propagate to API callers.
type Sink interface {
	SaveSnapshot(ctx context.Context, snap *Snapshot) error
}

// Service runs the two background jobs — tier drift and periodic
// snapshots — over a Store. The jobs tick independently, tolerate
// per-cycle failures, and stop together.
type Service struct {
	Store *Store

	sink   Sink
	stopCh chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// NewService wraps a store. sink may be nil, in which case snapshots
// are generated but not persisted.
func NewService(store *Store, sink Sink) *Service {
	return &Service{
		Store:  store,
		sink:   sink,
		stopCh: make(chan struct{}),
	}
}

// Start launches the drift and snapshot loops. Drift also runs once
// immediately so a restarted process reclassifies stale state without
// waiting a full interval.
func (svc *Service) Start() {
	runCycle("drift", svc.driftCycle)

	svc.wg.Add(2)
	go svc.loop("drift", svc.Store.opts.DriftInterval, svc.driftCycle)
	go svc.loop("snapshot", svc.Store.opts.SnapshotInterval, svc.snapshotCycle)
	log.Printf("memory service started (drift %v, snapshot %v)",
		svc.Store.opts.DriftInterval, svc.Store.opts.SnapshotInterval)
}

// Stop cancels both loops and waits for them to exit. Safe to call more
// than once.
func (svc *Service) Stop() {
	svc.once.Do(func() { close(svc.stopCh) })
	svc.wg.Wait()
	log.Printf("memory service stopped")
}

func (svc *Service) loop(name string, interval time.Duration, cycle func() error) {
	defer svc.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			runCycle(name, cycle)
		case <-svc.stopCh:
			return
		}
	}
}

// runCycle shields the loop from a single bad cycle: errors and panics
// are logged and the next tick proceeds as scheduled.
func runCycle(name string, cycle func() error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("%s cycle panic: %v", name, r)
		}
	}()
	if err := cycle(); err != nil {
		log.Printf("%s cycle: %v", name, err)
	}
}

func (svc *Service) driftCycle() error {
	if moved := svc.Store.Drift(); moved > 0 {
		log.Printf("drift: moved %d echoes", moved)
	}
	return nil
}

func (svc *Service) snapshotCycle() error {
	svc.Snapshot(context.Background())
	return nil
}

// Snapshot freezes the store and hands the record to the sink. The
// record is always returned; a sink failure is logged and reported via
// the second return, never as an error to the caller.
func (svc *Service) Snapshot(ctx context.Context) (*Snapshot, bool) {
	snap := svc.Store.BuildSnapshot()
	persisted := false
	if svc.sink != nil {
		if err := svc.sink.SaveSnapshot(ctx, snap); err != nil {
			log.Printf("snapshot: persist failed: %v", err)
		} else {
			persisted = true
		}
	}
	log.Printf("snapshot: %d echoes, %.1f%% empty", snap.TotalEchoes, snap.Stats.EmptyPct)
	return snap, persisted
}
