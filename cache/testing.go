// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemStore is an in-memory Store for testing. Flipping availability with
// SetAvailable simulates a backend outage: every operation becomes a
// miss/no-op, which is exactly how the real backends degrade.
type MemStore struct {
	mu        sync.Mutex
	values    map[string]string
	available bool
}

var _ Store = (*MemStore)(nil)

// NewMemStore creates an available in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string]string), available: true}
}

// Get returns the value for key when the store is available.
func (m *MemStore) Get(ctx context.Context, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.available {
		return "", false
	}
	v, ok := m.values[key]
	return v, ok
}

// Set stores a value when the store is available.
func (m *MemStore) Set(ctx context.Context, key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.available {
		return
	}
	m.values[key] = value
}

// SetTTL stores a value; the TTL is not enforced by the fixture.
func (m *MemStore) SetTTL(ctx context.Context, key, value string, ttl time.Duration) {
	m.Set(ctx, key, value)
}

// Delete removes a key when the store is available.
func (m *MemStore) Delete(ctx context.Context, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.available {
		return
	}
	delete(m.values, key)
}

// DeletePrefix removes every key under prefix when the store is available.
func (m *MemStore) DeletePrefix(ctx context.Context, prefix string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.available {
		return false
	}
	for k := range m.values {
		if strings.HasPrefix(k, prefix) {
			delete(m.values, k)
		}
	}
	return true
}

// Available reports the simulated availability.
func (m *MemStore) Available(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.available
}

// SetAvailable toggles the simulated availability.
func (m *MemStore) SetAvailable(available bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.available = available
}

// Len returns the number of stored keys.
func (m *MemStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.values)
}
