package shadebind

// ShaderTransform rewrites raw graph shader source into final
// compilable source (header injection, entry-point wrapping and the
// like). An empty result counts as "no output": the material's
// existing source is left untouched.
type ShaderTransform func(source string) string

// ShaderTemplate carries the per-stage transforms of one template.
// Either stage may be nil.
type ShaderTemplate struct {
	Vert ShaderTransform
	Frag ShaderTransform
}

// TemplateStore maps template names to their transforms.
type TemplateStore map[string]ShaderTemplate

// DefaultTemplateName is used when an artifact names no template.
const DefaultTemplateName = "unlit"
