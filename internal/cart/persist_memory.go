package cart

import (
	"context"
	"sync"
)

type MemPersister struct {
	mu sync.RWMutex
	m  map[string][]byte
}

func NewMemPersister() *MemPersister {
	return &MemPersister{m: map[string][]byte{}}
}

func (p *MemPersister) Read(ctx context.Context, owner string) ([]byte, bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	data, ok := p.m[owner]
	if !ok {
		return nil, false, nil
	}

	out := make([]byte, len(data))
	copy(out, data)
	return out, true, nil
}

func (p *MemPersister) Write(ctx context.Context, owner string, data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.m[owner] = cp
	return nil
}

func (p *MemPersister) Delete(ctx context.Context, owner string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.m, owner)
	return nil
}

func (p *MemPersister) Ping(ctx context.Context) error { return nil }
