package shadebind

import "strings"

// NodeKind identifies the node family a shader parameter belongs to.
// The set is closed: it defines the total addressable parameter surface
// of a compiled graph.
type NodeKind string

const (
	NodeParameter            NodeKind = "Parameter"
	NodeTime                 NodeKind = "Time"
	NodeViewVector           NodeKind = "ViewVector"
	NodeTexture2D            NodeKind = "Texture2D"
	NodeTransformationMatrix NodeKind = "TransformationMatrix"
)

var nodeKinds = map[NodeKind]struct{}{
	NodeParameter:            {},
	NodeTime:                 {},
	NodeViewVector:           {},
	NodeTexture2D:            {},
	NodeTransformationMatrix: {},
}

// Address is the structured form of a symbolic parameter key.
type Address struct {
	Kind NodeKind
	Name string
}

// Key flattens the address to its symbolic key, "<Kind>_<Name>".
// Kinds never contain an underscore, so Key and ParseKey form a
// bijection even when Name itself contains underscores.
func (a Address) Key() string {
	return string(a.Kind) + "_" + a.Name
}

// ParseKey splits a symbolic key back into an Address. The second
// result is false when the key has no separator or its kind is not
// one of the closed set.
func ParseKey(key string) (Address, bool) {
	kind, name, found := strings.Cut(key, "_")
	if !found {
		return Address{}, false
	}
	if _, ok := nodeKinds[NodeKind(kind)]; !ok {
		return Address{}, false
	}
	return Address{Kind: NodeKind(kind), Name: name}, true
}

// Time sub-field names written by MaterialBinding.Update.
const (
	TimeFieldTime        = "time"
	TimeFieldSinTime     = "sinTime"
	TimeFieldCosTime     = "cosTime"
	TimeFieldDeltaTime   = "deltaTime"
	TimeFieldSmoothDelta = "smoothDelta"
)

// TimeFieldNames lists every Time sub-field a graph may declare.
var TimeFieldNames = [...]string{
	TimeFieldTime,
	TimeFieldSinTime,
	TimeFieldCosTime,
	TimeFieldDeltaTime,
	TimeFieldSmoothDelta,
}

// TransformationMatrixNames lists the twelve fixed transform matrices
// addressable under the TransformationMatrix kind: the five base
// matrices, their inverses, and inverse-transpose for the two matrices
// the lighting path consumes.
var TransformationMatrixNames = [...]string{
	"Model",
	"View",
	"Proj",
	"ViewProj",
	"ModelView",
	"I_Model",
	"I_View",
	"I_Proj",
	"I_ViewProj",
	"I_ModelView",
	"IT_Model",
	"IT_ModelView",
}
