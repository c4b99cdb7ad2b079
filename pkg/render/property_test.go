package render

import "testing"

func TestPropertyToIDInterns(t *testing.T) {
	a := PropertyToID("_TestPropertyA")
	b := PropertyToID("_TestPropertyB")
	if a == b {
		t.Fatalf("distinct names share id %d", a)
	}
	if again := PropertyToID("_TestPropertyA"); again != a {
		t.Errorf("PropertyToID not stable: %d then %d", a, again)
	}
	if a.Name() != "_TestPropertyA" {
		t.Errorf("Name() = %q, want _TestPropertyA", a.Name())
	}
	if PropertyID(-1).Name() != "" {
		t.Errorf("invalid id has a name")
	}
}

func TestParamBlockTypedAccess(t *testing.T) {
	id := PropertyToID("_TestScalar")
	var b ParamBlock // zero value is usable
	b.SetFloat(id, 2.5)

	if v, ok := b.Float(id); !ok || v != 2.5 {
		t.Errorf("Float = %v, %v; want 2.5, true", v, ok)
	}
	if _, ok := b.Vector(id); ok {
		t.Errorf("Vector on a float parameter reported ok")
	}
	if _, ok := b.Texture(id); ok {
		t.Errorf("Texture on a float parameter reported ok")
	}

	var nilBlock *ParamBlock
	if _, ok := nilBlock.Float(id); ok || nilBlock.Len() != 0 {
		t.Errorf("nil block is not empty")
	}
}

func TestParamBlockCloneAndMerge(t *testing.T) {
	x := PropertyToID("_TestX")
	y := PropertyToID("_TestY")

	base := NewParamBlock()
	base.SetFloat(x, 1)
	base.SetFloat(y, 2)

	clone := base.Clone()
	clone.SetFloat(x, 10)
	if v, _ := base.Float(x); v != 1 {
		t.Errorf("editing clone changed original: %v", v)
	}

	over := NewParamBlock()
	over.SetFloat(y, 20)
	base.Merge(over)
	if v, _ := base.Float(y); v != 20 {
		t.Errorf("Merge did not override: %v", v)
	}
	if v, _ := base.Float(x); v != 1 {
		t.Errorf("Merge touched unrelated value: %v", v)
	}

	var order []PropertyID
	base.Range(func(id PropertyID, p Param) { order = append(order, id) })
	if len(order) != 2 || order[0] > order[1] {
		t.Errorf("Range order = %v, want ascending pair", order)
	}
}

func TestMaterialResolveParams(t *testing.T) {
	id := PropertyToID("_TestStrength")
	m := NewMaterial("test", nil)
	m.SetFloat(id, 1)

	perDraw := NewParamBlock()
	perDraw.SetFloat(id, 3)

	resolved := m.ResolveParams(perDraw)
	if v, _ := resolved.Float(id); v != 3 {
		t.Errorf("per-draw value lost: %v", v)
	}
	if v, _ := m.Properties().Float(id); v != 1 {
		t.Errorf("shared value changed by resolve: %v", v)
	}
	if m.Writes() != 1 {
		t.Errorf("Writes = %d, want 1", m.Writes())
	}

	var none *Material
	if none.ResolveParams(perDraw).Len() != 1 {
		t.Errorf("nil material should resolve to the per-draw block")
	}
}
