package workspace

import (
	"context"
	"log"
	"sync"
	"time"
)

// SaveResult - outcome of the last save of a collection.
type SaveResult struct {
	Success bool      `json:"success"`
	Error   string    `json:"error,omitempty"`
	At      time.Time `json:"at"`
}

// persister runs at most one save at a time for a collection. A snapshot
// submitted while a save is in flight replaces any older pending snapshot, so
// only the latest one is written once the current save returns.
type persister struct {
	name string
	save func(ctx context.Context, data []byte) error

	mu         sync.Mutex
	idle       *sync.Cond
	inFlight   bool
	pending    []byte
	hasPending bool
	last       *SaveResult
}

func newPersister(name string, save func(ctx context.Context, data []byte) error) *persister {
	p := &persister{name: name, save: save}
	p.idle = sync.NewCond(&p.mu)
	return p
}

// submit never blocks.
func (p *persister) submit(data []byte) {
	p.mu.Lock()
	if p.inFlight {
		p.pending = data
		p.hasPending = true
		p.mu.Unlock()
		return
	}
	p.inFlight = true
	p.mu.Unlock()

	go p.run(data)
}

func (p *persister) run(data []byte) {
	for {
		err := p.save(context.Background(), data)

		p.mu.Lock()
		res := SaveResult{Success: err == nil, At: time.Now()}
		if err != nil {
			res.Error = err.Error()
			log.Printf("[WARN] saving %s failed: %v", p.name, err)
		}
		p.last = &res

		if !p.hasPending {
			p.inFlight = false
			p.idle.Broadcast()
			p.mu.Unlock()
			return
		}
		data = p.pending
		p.pending = nil
		p.hasPending = false
		p.mu.Unlock()
	}
}

// wait blocks until no save is running or pending.
func (p *persister) wait() {
	p.mu.Lock()
	for p.inFlight {
		p.idle.Wait()
	}
	p.mu.Unlock()
}

func (p *persister) lastResult() *SaveResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.last == nil {
		return nil
	}
	res := *p.last
	return &res
}
