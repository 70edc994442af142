package shadebind

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingLoader fabricates a distinct texture per locator and counts
// how many underlying loads actually ran.
type countingLoader struct {
	loads int32
	gate  chan struct{} // when non-nil, loads block until closed
	fail  map[string]bool
}

func (l *countingLoader) load(ctx context.Context, locator string) (*TextureResource, error) {
	atomic.AddInt32(&l.loads, 1)
	if l.gate != nil {
		<-l.gate
	}
	if l.fail[locator] {
		return nil, errors.New("decode failed")
	}
	return &TextureResource{Width: 1, Height: 1, Texels: []uint8{0, 0, 0, 255}}, nil
}

func newTestCache(loader *countingLoader) (*TextureCache, *[]*TextureResource) {
	released := &[]*TextureResource{}
	cache := NewTextureCache(TextureCacheConfig{
		Loader: loader.load,
		Disposer: func(tex *TextureResource) {
			*released = append(*released, tex)
		},
	})
	return cache, released
}

func ref(id string) AssetReference {
	return AssetReference{ID: id, Path: id + ".png"}
}

func TestTextureCache_ConcurrentDedup(t *testing.T) {
	loader := &countingLoader{gate: make(chan struct{})}
	cache, _ := newTestCache(loader)

	const callers = 16
	results := make([]*TextureResource, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tex, err := cache.LoadTexture(context.Background(), ref("shared"))
			assert.NoError(t, err)
			results[i] = tex
		}(i)
	}

	close(loader.gate)
	wg.Wait()

	if got := atomic.LoadInt32(&loader.loads); got != 1 {
		t.Errorf("Expected exactly 1 underlying load, got %d", got)
	}
	for i := 1; i < callers; i++ {
		if results[i] != results[0] {
			t.Errorf("Caller %d received a different resource", i)
		}
	}
}

func TestTextureCache_SweepRemovesOnlyUnmarked(t *testing.T) {
	loader := &countingLoader{}
	cache, released := newTestCache(loader)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		_, err := cache.LoadTexture(ctx, ref(id))
		require.NoError(t, err)
	}

	// New pass references only a and b; c becomes garbage.
	cache.BeginBindPass()
	_, _ = cache.LoadTexture(ctx, ref("a"))
	_, _ = cache.LoadTexture(ctx, ref("b"))

	assert.Equal(t, 1, cache.DisposeUnused())
	assert.Len(t, *released, 1)
	assert.False(t, cache.Cached("c"))
	assert.True(t, cache.Cached("a"))
	assert.True(t, cache.Cached("b"))

	// a and b still resolve without hitting the loader again.
	before := atomic.LoadInt32(&loader.loads)
	_, _ = cache.LoadTexture(ctx, ref("a"))
	_, _ = cache.LoadTexture(ctx, ref("b"))
	assert.Equal(t, before, atomic.LoadInt32(&loader.loads))
}

func TestTextureCache_MarksAccumulateWithoutReset(t *testing.T) {
	loader := &countingLoader{}
	cache, _ := newTestCache(loader)
	ctx := context.Background()

	_, _ = cache.LoadTexture(ctx, ref("stale"))

	// No BeginBindPass between load and sweep: the mark still stands,
	// so nothing is collected.
	assert.Equal(t, 0, cache.DisposeUnused())
	assert.True(t, cache.Cached("stale"))

	cache.BeginBindPass()
	assert.False(t, cache.InUse("stale"))
	assert.Equal(t, 1, cache.DisposeUnused())
	assert.False(t, cache.Cached("stale"))
}

func TestTextureCache_FailedLoadEvictsAndRetries(t *testing.T) {
	loader := &countingLoader{fail: map[string]bool{"broken.png": true}}
	cache, _ := newTestCache(loader)
	ctx := context.Background()

	tex, err := cache.LoadTexture(ctx, ref("broken"))
	assert.Error(t, err)
	assert.Nil(t, tex)
	assert.False(t, cache.Cached("broken"), "failed entry must be evicted")

	// The asset is fixed; the next request loads fresh.
	loader.fail = nil
	tex, err = cache.LoadTexture(ctx, ref("broken"))
	require.NoError(t, err)
	assert.NotNil(t, tex)
	assert.Equal(t, int32(2), atomic.LoadInt32(&loader.loads))
}

func TestTextureCache_EmptyReferenceIsNotARequest(t *testing.T) {
	loader := &countingLoader{}
	cache, _ := newTestCache(loader)

	tex, err := cache.LoadTexture(context.Background(), AssetReference{})
	assert.NoError(t, err)
	assert.Nil(t, tex)
	assert.Zero(t, atomic.LoadInt32(&loader.loads))
	assert.False(t, cache.InUse(""))
}

func TestTextureCache_UnresolvableReferenceIsNotARequest(t *testing.T) {
	loader := &countingLoader{}
	cache := NewTextureCache(TextureCacheConfig{
		Resolver: func(AssetReference) (string, bool) { return "", false },
		Loader:   loader.load,
	})

	tex, err := cache.LoadTexture(context.Background(), ref("anything"))
	assert.NoError(t, err)
	assert.Nil(t, tex)
	assert.False(t, cache.InUse("anything"), "unresolvable refs must not be marked")
}

func TestTextureCache_SweepWaitsForPendingVictims(t *testing.T) {
	loader := &countingLoader{gate: make(chan struct{})}
	cache, released := newTestCache(loader)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = cache.LoadTexture(context.Background(), ref("pending"))
	}()

	// Wait until the entry is in flight, then make it garbage.
	for !cache.Cached("pending") {
		runtime.Gosched()
	}
	cache.BeginBindPass()

	done := make(chan int)
	go func() { done <- cache.DisposeUnused() }()

	close(loader.gate)
	assert.Equal(t, 1, <-done)
	wg.Wait()
	assert.Len(t, *released, 1)
}

func TestReleaseTexture_Idempotent(t *testing.T) {
	tex := &TextureResource{Texels: []uint8{1, 2, 3, 4}, Width: 1, Height: 1}
	ReleaseTexture(tex)
	ReleaseTexture(tex)
	ReleaseTexture(nil)
	assert.Nil(t, tex.Texels)
}
