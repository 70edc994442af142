package shadebind

import (
	"sync"

	"github.com/google/uuid"
)

type AssetId string

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}

// AssetStore is an in-memory registry of texture assets, mapping
// generated ids to on-disk locators. It is a convenience for embedders
// that have no asset pipeline of their own: register files, hand the
// returned references to artifacts, and plug Resolver into the cache.
type AssetStore struct {
	mu       sync.RWMutex
	locators map[AssetId]string
}

func NewAssetStore() *AssetStore {
	return &AssetStore{
		locators: make(map[AssetId]string),
	}
}

// AddTexture registers a texture file and returns the reference that
// addresses it.
func (s *AssetStore) AddTexture(path string) AssetReference {
	id := makeAssetId()
	s.mu.Lock()
	s.locators[id] = path
	s.mu.Unlock()
	return AssetReference{ID: string(id), Path: path}
}

// Locator returns the registered path for an id.
func (s *AssetStore) Locator(id AssetId) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	loc, ok := s.locators[id]
	return loc, ok
}

// Resolver adapts the store to the cache's AssetResolver interface.
// Unregistered references fall back to their Path field.
func (s *AssetStore) Resolver() AssetResolver {
	return func(ref AssetReference) (string, bool) {
		if loc, ok := s.Locator(AssetId(ref.ID)); ok {
			return loc, true
		}
		return PathResolver(ref)
	}
}
