package store

import (
	"context"
	"sync"
)

// MemBlobs is an in-memory BlobStore for tests and local development.
// FailPut/FailDelete inject storage failures.
type MemBlobs struct {
	mu         sync.Mutex
	objects    map[string][]byte // "<bucket>/<key>"
	FailPut    bool
	FailDelete bool
}

func NewMemBlobs() *MemBlobs {
	return &MemBlobs{objects: make(map[string][]byte)}
}

func (b *MemBlobs) Put(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error) {
	if b.FailPut {
		return "", Errorf("put blob", "storage unavailable")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	b.objects[bucket+"/"+key] = cp
	return "mem://" + bucket + "/" + key, nil
}

func (b *MemBlobs) Delete(ctx context.Context, bucket, key string) error {
	if b.FailDelete {
		return Errorf("delete blob", "storage unavailable")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, bucket+"/"+key)
	return nil
}

// Has reports whether the object is stored.
func (b *MemBlobs) Has(bucket, key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.objects[bucket+"/"+key]
	return ok
}

// Len returns the number of stored objects.
func (b *MemBlobs) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.objects)
}
