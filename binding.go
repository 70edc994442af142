package shadebind

import (
	"context"
	"sync"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// MaterialBindingConfig configures a binding. Zero-value fields fall
// back to the process-wide texture cache and a silent logger.
type MaterialBindingConfig struct {
	Cache  *TextureCache
	Logger Logger
}

// MaterialBinding connects one compiled shader-graph artifact to one
// live material. It owns no GPU resources itself: textures are held by
// the shared cache, uniform slots by the material.
//
// Init is safe to call from any goroutine; Set and Update belong on
// the loop that owns the material.
type MaterialBinding struct {
	material *Material
	cache    *TextureCache
	logger   Logger

	time float32

	allowMaterialOverride bool
	castShadows           bool

	uniformMap map[string]UniformSlotDescriptor
	bindingMap map[string]uint32
	resource   ResourceTable
}

func NewMaterialBinding(material *Material, cfg MaterialBindingConfig) *MaterialBinding {
	if cfg.Cache == nil {
		cfg.Cache = DefaultTextureCache()
	}
	if cfg.Logger == nil {
		cfg.Logger = NewNopLogger()
	}
	return &MaterialBinding{
		material: material,
		cache:    cfg.Cache,
		logger:   cfg.Logger,
	}
}

// Init binds an artifact to the material: applies the named template
// to the shader sources, creates a uniform slot per symbolic key with
// its initial value, pre-loads resource-declared textures, and
// translates the render setting onto the material.
//
// Per-key resolutions run concurrently and are all settled before Init
// returns. A slot whose texture cannot load resolves to nil instead of
// failing the whole bind. The only returned error is context
// cancellation.
func (b *MaterialBinding) Init(ctx context.Context, artifact *CompiledArtifact, templates TemplateStore) error {
	b.applyTemplate(artifact, templates)

	b.uniformMap = artifact.UniformMap
	b.bindingMap = artifact.BindingMap
	b.resource = artifact.Resource

	type slotResult struct {
		slotName  string
		valueType string
		value     any
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		uniforms  []slotResult
		resources []slotResult
	)

	for key, desc := range artifact.UniformMap {
		wg.Add(1)
		go func(key string, desc UniformSlotDescriptor) {
			defer wg.Done()
			value := b.initialValue(ctx, artifact, key)
			mu.Lock()
			uniforms = append(uniforms, slotResult{desc.SlotName, normalizeValueType(desc.ValueType), value})
			mu.Unlock()
		}(key, desc)
	}

	for key, ref := range artifact.Resource.Texture {
		wg.Add(1)
		go func(key string, ref AssetReference) {
			defer wg.Done()
			slotName := key
			if desc, ok := artifact.UniformMap[key]; ok {
				slotName = desc.SlotName
			}
			value := textureValue(b.loadTextureSoft(ctx, ref))
			mu.Lock()
			resources = append(resources, slotResult{slotName, "texture2d_f32", value})
			mu.Unlock()
		}(key, ref)
	}

	wg.Wait()
	if err := ctx.Err(); err != nil {
		return err
	}

	// Slot creation happens here, after the join, so the material's
	// map never sees concurrent writes. Resource-declared textures are
	// applied second: they override parameter defaults on the same key.
	for _, r := range uniforms {
		b.material.EnsureSlot(r.slotName, r.valueType).Value = r.value
	}
	for _, r := range resources {
		b.material.EnsureSlot(r.slotName, r.valueType).Value = r.value
	}

	ApplyRenderState(artifact.Setting, b.material)
	b.allowMaterialOverride = artifact.Setting.AllowMaterialOverride
	b.castShadows = artifact.Setting.CastShadows
	b.material.MarkStateDirty()
	return nil
}

func (b *MaterialBinding) applyTemplate(artifact *CompiledArtifact, templates TemplateStore) {
	name := artifact.Setting.Template
	if name == "" {
		name = DefaultTemplateName
	}
	tpl, ok := templates[name]
	if !ok {
		b.logger.Debugf("template %q not in store, material sources left untouched", name)
		return
	}
	if tpl.Vert != nil {
		if out := tpl.Vert(artifact.VertexSource); out != "" {
			b.material.VertexSource = out
		}
	}
	if tpl.Frag != nil {
		if out := tpl.Frag(artifact.FragmentSource); out != "" {
			b.material.FragmentSource = out
		}
	}
}

// initialValue computes the value a slot starts with, per node kind.
// Kinds with no defined initial value start unpopulated.
func (b *MaterialBinding) initialValue(ctx context.Context, artifact *CompiledArtifact, key string) any {
	addr, ok := ParseKey(key)
	if !ok {
		return nil
	}
	switch addr.Kind {
	case NodeParameter:
		for _, p := range artifact.Parameters {
			if p.Name != addr.Name {
				continue
			}
			if p.Type == ParamTexture2D {
				ref, _ := p.DefaultValue.(AssetReference)
				return textureValue(b.loadTextureSoft(ctx, ref))
			}
			return p.DefaultValue
		}
		return nil
	case NodeTime:
		return float32(0)
	case NodeTransformationMatrix:
		return mgl32.Ident4()
	default:
		return nil
	}
}

// loadTextureSoft is the fail-soft load path used during Init: a load
// failure has already been logged by the cache, and the slot degrades
// to nil rather than aborting the bind.
func (b *MaterialBinding) loadTextureSoft(ctx context.Context, ref AssetReference) *TextureResource {
	tex, err := b.cache.LoadTexture(ctx, ref)
	if err != nil {
		return nil
	}
	return tex
}

// textureValue boxes a texture for a slot, keeping nil untyped so an
// absent texture reads back as an unpopulated slot.
func textureValue(tex *TextureResource) any {
	if tex == nil {
		return nil
	}
	return tex
}

// IsUnbound reports whether the addressed uniform slot is missing,
// either because the artifact never declared the key or because Init
// has not created the slot.
func (b *MaterialBinding) IsUnbound(kind NodeKind, name string) bool {
	desc, ok := b.uniformMap[Address{Kind: kind, Name: name}.Key()]
	if !ok {
		return true
	}
	_, ok = b.material.Slot(desc.SlotName)
	return !ok
}

// Set overwrites the addressed slot's value and flags the material's
// uniforms for re-upload. Keys the artifact does not declare are a
// silent no-op.
func (b *MaterialBinding) Set(kind NodeKind, name string, value any) {
	desc, ok := b.uniformMap[Address{Kind: kind, Name: name}.Key()]
	if !ok {
		return
	}
	b.material.SetUniform(desc.SlotName, value)
}

// SetViewVector writes the camera world position into a ViewVector slot.
func (b *MaterialBinding) SetViewVector(name string, pos mgl32.Vec3) {
	b.Set(NodeViewVector, name, pos)
}

// SetTransformationMatrix writes one of the fixed transform matrices.
func (b *MaterialBinding) SetTransformationMatrix(name string, mat mgl32.Mat4) {
	b.Set(NodeTransformationMatrix, name, mat)
}

// Update advances the binding's clock by dt seconds and refreshes the
// Time uniforms. Call once per frame from the loop that owns the
// material; not safe for concurrent calls on one binding.
func (b *MaterialBinding) Update(dt float32) {
	b.time += dt
	b.Set(NodeTime, TimeFieldTime, b.time)
	b.Set(NodeTime, TimeFieldSinTime, math32.Sin(b.time))
	b.Set(NodeTime, TimeFieldCosTime, math32.Cos(b.time))
	b.Set(NodeTime, TimeFieldDeltaTime, dt)
	// smoothDelta is the raw delta until frame smoothing exists.
	b.Set(NodeTime, TimeFieldSmoothDelta, dt)
}

// Time returns the accumulated clock.
func (b *MaterialBinding) Time() float32 { return b.time }

// Binding returns the bind-group entry index for a symbolic key, when
// the artifact declared one.
func (b *MaterialBinding) Binding(key string) (uint32, bool) {
	idx, ok := b.bindingMap[key]
	return idx, ok
}

// ResourceTexture returns the asset reference a symbolic key was
// pre-populated from, when the artifact declared one.
func (b *MaterialBinding) ResourceTexture(key string) (AssetReference, bool) {
	ref, ok := b.resource.Texture[key]
	return ref, ok
}

// Material returns the bound material.
func (b *MaterialBinding) Material() *Material { return b.material }

// AllowMaterialOverride reports the artifact's override flag, consumed
// by the owning renderer.
func (b *MaterialBinding) AllowMaterialOverride() bool { return b.allowMaterialOverride }

// CastShadows reports the artifact's shadow-casting flag.
func (b *MaterialBinding) CastShadows() bool { return b.castShadows }
