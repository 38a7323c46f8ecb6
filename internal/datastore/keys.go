package datastore

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/aleister1102/notegrab/internal/models"
)

var defaultKeys = NewKeyGenerator(16)

// PostKey identifies a post in storage: its ID, or a hash of its URL when the ID is unknown.
func PostKey(post models.Post) string {
	if post.ID != "" {
		return post.ID
	}
	return defaultKeys.GenerateHash(post.URL)
}

// KeyGenerator derives short stable keys from URLs
type KeyGenerator struct {
	hashLength int
}

// NewKeyGenerator creates a generator producing hex keys of hashLength characters
func NewKeyGenerator(hashLength int) *KeyGenerator {
	if hashLength <= 0 || hashLength > 64 {
		hashLength = 16
	}
	return &KeyGenerator{hashLength: hashLength}
}

// GenerateHash returns the truncated sha256 hex digest of url
func (kg *KeyGenerator) GenerateHash(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])[:kg.hashLength]
}

// KeyMutexManager hands out one mutex per key
type KeyMutexManager struct {
	mutexes map[string]*sync.Mutex
	mapLock sync.RWMutex
}

// NewKeyMutexManager creates an empty manager
func NewKeyMutexManager() *KeyMutexManager {
	return &KeyMutexManager{mutexes: make(map[string]*sync.Mutex)}
}

// GetMutex returns the mutex guarding key
func (m *KeyMutexManager) GetMutex(key string) *sync.Mutex {
	m.mapLock.RLock()
	mutex, exists := m.mutexes[key]
	m.mapLock.RUnlock()
	if exists {
		return mutex
	}

	m.mapLock.Lock()
	defer m.mapLock.Unlock()

	if mutex, exists := m.mutexes[key]; exists {
		return mutex
	}
	mutex = &sync.Mutex{}
	m.mutexes[key] = mutex
	return mutex
}

// Len returns the number of tracked keys
func (m *KeyMutexManager) Len() int {
	m.mapLock.RLock()
	defer m.mapLock.RUnlock()
	return len(m.mutexes)
}
