package shadebind

import (
	"testing"
)

func TestAddress_Key(t *testing.T) {
	key := Address{Kind: NodeParameter, Name: "Color"}.Key()
	if key != "Parameter_Color" {
		t.Errorf("Expected key Parameter_Color, got %q", key)
	}
}

func TestAddress_ParseKeyRoundTrip(t *testing.T) {
	cases := []Address{
		{Kind: NodeParameter, Name: "Color"},
		{Kind: NodeTime, Name: TimeFieldSinTime},
		{Kind: NodeTransformationMatrix, Name: "IT_ModelView"},
		{Kind: NodeTexture2D, Name: "Main_Tex"},
		{Kind: NodeViewVector, Name: "cameraPosition"},
	}
	for _, want := range cases {
		got, ok := ParseKey(want.Key())
		if !ok {
			t.Errorf("ParseKey(%q) failed", want.Key())
			continue
		}
		if got != want {
			t.Errorf("ParseKey(%q) = %+v, want %+v", want.Key(), got, want)
		}
	}
}

func TestAddress_ParseKeyRejectsInvalid(t *testing.T) {
	for _, key := range []string{"", "Parameter", "Bogus_Color", "_Color"} {
		if _, ok := ParseKey(key); ok {
			t.Errorf("ParseKey(%q) should have failed", key)
		}
	}
}

func TestAddress_UnderscoreNamesSurvive(t *testing.T) {
	// Names may contain the separator; kinds never do, so the first
	// underscore is always the split point.
	addr, ok := ParseKey("Parameter_Noise_Scale_2")
	if !ok || addr.Name != "Noise_Scale_2" {
		t.Errorf("Expected name Noise_Scale_2, got %+v (ok=%v)", addr, ok)
	}
}

func TestAddress_FixedNameTables(t *testing.T) {
	if len(TimeFieldNames) != 5 {
		t.Errorf("Expected 5 time fields, got %d", len(TimeFieldNames))
	}
	if len(TransformationMatrixNames) != 12 {
		t.Errorf("Expected 12 transform matrices, got %d", len(TransformationMatrixNames))
	}
}
