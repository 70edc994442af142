package shadebind

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// A graph renders the faces named by the setting, so the opposite side
// is culled.
var cullModeByFace = map[RenderFace]wgpu.CullMode{
	FaceFront: wgpu.CullModeBack,
	FaceBack:  wgpu.CullModeFront,
	FaceBoth:  wgpu.CullModeNone,
}

var compareFuncByDepthTest = map[DepthTest]wgpu.CompareFunction{
	DepthAlways:       wgpu.CompareFunctionAlways,
	DepthEqual:        wgpu.CompareFunctionEqual,
	DepthGreaterEqual: wgpu.CompareFunctionGreaterEqual,
	DepthLessEqual:    wgpu.CompareFunctionLessEqual,
	DepthLess:         wgpu.CompareFunctionLess,
	DepthGreater:      wgpu.CompareFunctionGreater,
	DepthNever:        wgpu.CompareFunctionNever,
	DepthNotEqual:     wgpu.CompareFunctionNotEqual,
}

var blendNormal = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		Operation: wgpu.BlendOperationAdd,
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
	},
	Alpha: wgpu.BlendComponent{
		Operation: wgpu.BlendOperationAdd,
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
	},
}

var blendAdditive = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		Operation: wgpu.BlendOperationAdd,
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOne,
	},
	Alpha: wgpu.BlendComponent{
		Operation: wgpu.BlendOperationAdd,
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOne,
	},
}

var blendMultiply = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		Operation: wgpu.BlendOperationAdd,
		SrcFactor: wgpu.BlendFactorDst,
		DstFactor: wgpu.BlendFactorZero,
	},
	Alpha: wgpu.BlendComponent{
		Operation: wgpu.BlendOperationAdd,
		SrcFactor: wgpu.BlendFactorDstAlpha,
		DstFactor: wgpu.BlendFactorZero,
	},
}

var blendAlphaCustom = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		Operation: wgpu.BlendOperationAdd,
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
	},
	Alpha: wgpu.BlendComponent{
		Operation: wgpu.BlendOperationAdd,
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
	},
}

var blendPremultiplyCustom = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		Operation: wgpu.BlendOperationAdd,
		SrcFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		DstFactor: wgpu.BlendFactorOne,
	},
	Alpha: wgpu.BlendComponent{
		Operation: wgpu.BlendOperationAdd,
		SrcFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		DstFactor: wgpu.BlendFactorOne,
	},
}

// ApplyRenderState translates an artifact's render setting into the
// material's fixed-function fields. Total and deterministic: unknown
// enum values fall back to safe defaults rather than failing.
func ApplyRenderState(s RenderSetting, m *Material) {
	if cull, ok := cullModeByFace[s.RenderFace]; ok {
		m.CullMode = cull
	} else {
		m.CullMode = wgpu.CullModeBack
	}

	if cmp, ok := compareFuncByDepthTest[s.DepthTest]; ok {
		m.DepthCompare = cmp
	} else {
		m.DepthCompare = wgpu.CompareFunctionLessEqual
	}

	m.DepthWrite = s.DepthWrite != DepthWriteDisable
	m.Transparent = s.SurfaceType == SurfaceTransparent
	m.HighPrecision = s.Precision == PrecisionSingle
	m.Blend = blendStateFor(m.Transparent, s.BlendingMode)
}

func blendStateFor(transparent bool, mode BlendingMode) wgpu.BlendState {
	if !transparent {
		return blendNormal
	}
	switch mode {
	case BlendAdditive:
		return blendAdditive
	case BlendMultiply:
		return blendMultiply
	case BlendAlpha:
		return blendAlphaCustom
	case BlendPremultiply:
		return blendPremultiplyCustom
	default:
		return blendNormal
	}
}
