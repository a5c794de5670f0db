package ingest

import (
	"errors"
	"sync"
)

// Keyring rotates through a set of provider API keys. Summarization calls
// pick the next key round-robin; when a key is rejected (rate limited or
// revoked) the caller retries with the following key until the ring is
// exhausted.
type Keyring struct {
	mu   sync.Mutex
	keys []string
	next int
}

// NewKeyring creates a keyring from the given keys
func NewKeyring(keys []string) (*Keyring, error) {
	cleaned := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			cleaned = append(cleaned, k)
		}
	}
	if len(cleaned) == 0 {
		return nil, errors.New("at least one API key is required")
	}
	return &Keyring{keys: cleaned}, nil
}

// Len returns the number of keys in the ring
func (k *Keyring) Len() int {
	return len(k.keys)
}

// Next returns the next key in round-robin order
func (k *Keyring) Next() string {
	k.mu.Lock()
	defer k.mu.Unlock()

	key := k.keys[k.next]
	k.next = (k.next + 1) % len(k.keys)
	return key
}
