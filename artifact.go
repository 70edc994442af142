package shadebind

import "strings"

// CompiledArtifact is the output of the shader-graph compiler. It is
// produced externally and read-only to this package.
type CompiledArtifact struct {
	VertexSource   string
	FragmentSource string

	// UniformMap maps symbolic keys ("<Kind>_<Name>") to the uniform
	// slot the material actually exposes. Keys are unique.
	UniformMap map[string]UniformSlotDescriptor

	// BindingMap maps symbolic keys to bind-group entry indices for
	// resource-backed uniforms.
	BindingMap map[string]uint32

	Resource   ResourceTable
	Parameters []ParameterDef
	Setting    RenderSetting
}

// UniformSlotDescriptor names the engine-side slot behind a symbolic key.
type UniformSlotDescriptor struct {
	SlotName  string
	ValueType string
}

// ParameterDef is a user-authored graph parameter with its default value.
// For ParamTexture2D parameters the default value is an AssetReference.
type ParameterDef struct {
	Name         string
	Type         string
	DefaultValue any
}

// ParamTexture2D is the parameter type whose defaults resolve through
// the texture cache.
const ParamTexture2D = "texture2d"

// ResourceTable declares uniform slots that must be pre-populated with
// loaded resources before the material is usable.
type ResourceTable struct {
	Texture map[string]AssetReference
}

// AssetReference identifies a loadable asset. Identity is by ID; Path
// is an optional locator hint consumed by resolvers.
type AssetReference struct {
	ID   string
	Path string
}

type RenderFace string

const (
	FaceFront RenderFace = "front"
	FaceBack  RenderFace = "back"
	FaceBoth  RenderFace = "both"
)

type DepthTest string

const (
	DepthAlways       DepthTest = "always"
	DepthEqual        DepthTest = "equal"
	DepthGreaterEqual DepthTest = "g_equal"
	DepthLessEqual    DepthTest = "l_equal"
	DepthLess         DepthTest = "less"
	DepthGreater      DepthTest = "greater"
	DepthNever        DepthTest = "never"
	DepthNotEqual     DepthTest = "not_equal"
)

type DepthWrite string

const (
	DepthWriteEnable  DepthWrite = "enable"
	DepthWriteDisable DepthWrite = "disable"
)

type SurfaceType string

const (
	SurfaceOpaque      SurfaceType = "opaque"
	SurfaceTransparent SurfaceType = "transparent"
)

type BlendingMode string

const (
	BlendAdditive    BlendingMode = "additive"
	BlendMultiply    BlendingMode = "multiply"
	BlendAlpha       BlendingMode = "alpha"
	BlendPremultiply BlendingMode = "premultiply"
	BlendNormal      BlendingMode = "normal"
)

type Precision string

const (
	PrecisionSingle Precision = "single"
)

// RenderSetting is the artifact's fixed-function configuration.
type RenderSetting struct {
	Template              string
	RenderFace            RenderFace
	DepthTest             DepthTest
	DepthWrite            DepthWrite
	SurfaceType           SurfaceType
	BlendingMode          BlendingMode
	Precision             Precision
	AllowMaterialOverride bool
	CastShadows           bool
}

// normalizeValueType rewrites generic-bracket value types to flat
// form: "texture2d<f32>" becomes "texture2d_f32".
func normalizeValueType(t string) string {
	i := strings.IndexByte(t, '<')
	if i < 0 {
		return t
	}
	return t[:i] + "_" + strings.TrimSuffix(t[i+1:], ">")
}
