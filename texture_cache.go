package shadebind

import (
	"context"
	"sync"
)

// textureEntry is the shared future for one asset id. The done channel
// closes exactly once, after which tex/err are immutable.
type textureEntry struct {
	done chan struct{}
	tex  *TextureResource
	err  error
}

// TextureCacheConfig configures a TextureCache. Zero-value fields fall
// back to the file-based defaults and a silent logger.
type TextureCacheConfig struct {
	Resolver AssetResolver
	Loader   TextureLoader
	Disposer TextureDisposer
	Logger   Logger
}

// TextureCache deduplicates asynchronous texture loads and owns the
// loaded resources until a sweep releases them. Safe for concurrent
// use from any number of bindings.
//
// Lifecycle follows a mark-and-sweep scheme: every successful resolve
// marks its id in-use, BeginBindPass clears the marks, and
// DisposeUnused releases everything unmarked. Marks accumulate
// monotonically between BeginBindPass calls, so callers re-binding a
// scene must start a fresh pass before sweeping or nothing is ever
// collected.
type TextureCache struct {
	resolve AssetResolver
	load    TextureLoader
	dispose TextureDisposer
	logger  Logger

	mu      sync.Mutex
	entries map[string]*textureEntry
	inUse   map[string]struct{}
}

func NewTextureCache(cfg TextureCacheConfig) *TextureCache {
	if cfg.Resolver == nil {
		cfg.Resolver = PathResolver
	}
	if cfg.Loader == nil {
		cfg.Loader = FileTextureLoader
	}
	if cfg.Disposer == nil {
		cfg.Disposer = ReleaseTexture
	}
	if cfg.Logger == nil {
		cfg.Logger = NewNopLogger()
	}
	return &TextureCache{
		resolve: cfg.Resolver,
		load:    cfg.Loader,
		dispose: cfg.Disposer,
		logger:  cfg.Logger,
		entries: make(map[string]*textureEntry),
		inUse:   make(map[string]struct{}),
	}
}

// LoadTexture resolves and loads the texture behind ref, marking its
// id in-use. Concurrent callers for the same id share one underlying
// load and receive the same resource. A reference with no id, or one
// the resolver cannot place, yields (nil, nil): no texture was
// requested. Load failures evict the entry so a later call can retry.
func (c *TextureCache) LoadTexture(ctx context.Context, ref AssetReference) (*TextureResource, error) {
	if ref.ID == "" {
		return nil, nil
	}
	locator, ok := c.resolve(ref)
	if !ok || locator == "" {
		return nil, nil
	}

	c.mu.Lock()
	c.inUse[ref.ID] = struct{}{}
	if e, ok := c.entries[ref.ID]; ok {
		c.mu.Unlock()
		return c.await(ctx, e)
	}
	e := &textureEntry{done: make(chan struct{})}
	c.entries[ref.ID] = e
	c.mu.Unlock()

	tex, err := c.load(ctx, locator)
	if err != nil {
		c.logger.Errorf("texture %s (%s) failed to load: %v", ref.ID, locator, err)
		c.mu.Lock()
		delete(c.entries, ref.ID)
		c.mu.Unlock()
		e.err = err
		close(e.done)
		return nil, err
	}
	e.tex = tex
	close(e.done)
	return tex, nil
}

func (c *TextureCache) await(ctx context.Context, e *textureEntry) (*TextureResource, error) {
	select {
	case <-e.done:
		return e.tex, e.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// BeginBindPass clears the in-use marks. Call before re-binding a
// scene so the next DisposeUnused only keeps what the new bindings
// actually reference.
func (c *TextureCache) BeginBindPass() {
	c.mu.Lock()
	c.inUse = make(map[string]struct{})
	c.mu.Unlock()
}

// DisposeUnused releases every cached texture whose id is not marked
// in-use and returns how many were released. Pending victims are
// waited out before their resources are disposed; the method returns
// only once collection has finished.
func (c *TextureCache) DisposeUnused() int {
	c.mu.Lock()
	var victims []*textureEntry
	for id, e := range c.entries {
		if _, used := c.inUse[id]; used {
			continue
		}
		victims = append(victims, e)
		delete(c.entries, id)
	}
	c.mu.Unlock()

	released := 0
	for _, e := range victims {
		<-e.done
		if e.tex != nil {
			c.dispose(e.tex)
			released++
		}
	}
	return released
}

// Cached reports whether an id currently has a cache entry. Intended
// for diagnostics and tests.
func (c *TextureCache) Cached(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[id]
	return ok
}

// InUse reports whether an id is marked in-use.
func (c *TextureCache) InUse(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.inUse[id]
	return ok
}

var (
	defaultCacheOnce sync.Once
	defaultCache     *TextureCache
)

// DefaultTextureCache returns the process-wide cache used by bindings
// that are not given an explicit one.
func DefaultTextureCache() *TextureCache {
	defaultCacheOnce.Do(func() {
		defaultCache = NewTextureCache(TextureCacheConfig{
			Logger: NewDefaultLogger("shadebind", false),
		})
	})
	return defaultCache
}

// LoadTexture loads through the default cache.
func LoadTexture(ref AssetReference) (*TextureResource, error) {
	return DefaultTextureCache().LoadTexture(context.Background(), ref)
}

// DisposeUnusedTextures sweeps the default cache.
func DisposeUnusedTextures() int {
	return DefaultTextureCache().DisposeUnused()
}
