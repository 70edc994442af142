package shadebind

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
	xdraw "golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// AssetResolver turns an asset reference into a loadable locator. A
// false result means "no texture requested" for that reference.
type AssetResolver func(ref AssetReference) (string, bool)

// TextureLoader loads the resource behind a locator. It may fail; the
// cache evicts and logs, callers degrade the slot to nil.
type TextureLoader func(ctx context.Context, locator string) (*TextureResource, error)

// TextureDisposer releases a texture's GPU-side memory. Idempotent.
type TextureDisposer func(tex *TextureResource)

// TextureResource is a decoded texture ready for upload: tightly
// packed RGBA texels plus the wgpu format tag the renderer creates the
// GPU texture with.
type TextureResource struct {
	Texels []uint8
	Width  uint32
	Height uint32
	Format wgpu.TextureFormat
}

// MaxTextureDim caps decoded texture extents; larger images are
// downscaled to fit. Matches the guaranteed wgpu 2D texture limit.
const MaxTextureDim = 8192

// PathResolver resolves a reference to its Path, falling back to the
// ID when no path is set.
func PathResolver(ref AssetReference) (string, bool) {
	if ref.Path != "" {
		return ref.Path, true
	}
	if ref.ID != "" {
		return ref.ID, true
	}
	return "", false
}

// FileTextureLoader reads and decodes an image file (png, jpeg, bmp,
// or webp) into an RGBA texture resource.
func FileTextureLoader(ctx context.Context, locator string) (*TextureResource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(locator)
	if err != nil {
		return nil, fmt.Errorf("open texture %q: %w", locator, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode texture %q: %w", locator, err)
	}
	return textureFromImage(img), nil
}

func textureFromImage(img image.Image) *TextureResource {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	// Downscale anything over the wgpu limit; preserve aspect.
	if w > MaxTextureDim || h > MaxTextureDim {
		scale := float64(MaxTextureDim) / float64(max(w, h))
		w = int(float64(w) * scale)
		h = int(float64(h) * scale)
	}

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(rgba, rgba.Bounds(), img, bounds, xdraw.Src, nil)

	return &TextureResource{
		Texels: rgba.Pix,
		Width:  uint32(w),
		Height: uint32(h),
		Format: wgpu.TextureFormatRGBA8Unorm,
	}
}

// ReleaseTexture is the default disposer. The CPU-side copy is the
// only allocation a TextureResource owns, so dropping the texel slice
// is the whole release. Safe to call twice.
func ReleaseTexture(tex *TextureResource) {
	if tex == nil {
		return
	}
	tex.Texels = nil
	tex.Width = 0
	tex.Height = 0
}
