package shadebind

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// UniformSlot is a named, typed value cell the renderer uploads to the
// GPU. Slots are created lazily and never removed; only Value changes.
type UniformSlot struct {
	Value any
	Type  string
}

// Material is the live render target a binding writes to. The renderer
// owning the draw loop reads the uniform table and fixed-function
// fields; this package only ever writes them. Writes are idempotent
// given the same inputs, so multiple controllers may target one
// material.
type Material struct {
	VertexSource   string
	FragmentSource string

	Uniforms map[string]*UniformSlot

	CullMode      wgpu.CullMode
	DepthCompare  wgpu.CompareFunction
	DepthWrite    bool
	Transparent   bool
	Blend         wgpu.BlendState
	HighPrecision bool

	uniformsDirty bool
	stateDirty    bool
}

func NewMaterial() *Material {
	return &Material{
		Uniforms: make(map[string]*UniformSlot),
	}
}

// Slot returns the uniform slot for an engine-side slot name.
func (m *Material) Slot(name string) (*UniformSlot, bool) {
	s, ok := m.Uniforms[name]
	return s, ok
}

// EnsureSlot returns the slot for name, creating it when absent. An
// existing slot is returned as-is: a slot name maps to at most one
// slot for the material's lifetime.
func (m *Material) EnsureSlot(name, valueType string) *UniformSlot {
	if s, ok := m.Uniforms[name]; ok {
		return s
	}
	s := &UniformSlot{Type: valueType}
	m.Uniforms[name] = s
	return s
}

// SetUniform overwrites a slot's value and flags the uniform table for
// re-upload. Missing slots are ignored.
func (m *Material) SetUniform(name string, value any) {
	s, ok := m.Uniforms[name]
	if !ok {
		return
	}
	s.Value = value
	m.uniformsDirty = true
}

// MarkStateDirty flags the fixed-function state for refresh on the
// owning renderer's next pass.
func (m *Material) MarkStateDirty() { m.stateDirty = true }

// ConsumeUniformsDirty reports and clears the uniform re-upload flag.
func (m *Material) ConsumeUniformsDirty() bool {
	d := m.uniformsDirty
	m.uniformsDirty = false
	return d
}

// ConsumeStateDirty reports and clears the fixed-function refresh flag.
func (m *Material) ConsumeStateDirty() bool {
	d := m.stateDirty
	m.stateDirty = false
	return d
}
