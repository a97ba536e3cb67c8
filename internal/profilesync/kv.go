package profilesync

import "sync"

// MemoryKV is the in-process KV used to mirror theme/language. It lives for
// the server process; swapping in a durable implementation only requires
// satisfying KV.
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

func (k *MemoryKV) Get(key string) (string, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	v, ok := k.values[key]
	return v, ok
}

func (k *MemoryKV) Set(key, value string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.values[key] = value
}

var _ KV = (*MemoryKV)(nil)
