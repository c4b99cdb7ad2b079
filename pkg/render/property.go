package render

import (
	"sort"
	"sync"
)

// PropertyID identifies a shader property by interned name
type PropertyID int32

var propertyTable = struct {
	sync.Mutex
	ids   map[string]PropertyID
	names []string
}{ids: make(map[string]PropertyID)}

// PropertyToID returns the process-wide identifier for a property name.
// The same name always maps to the same identifier.
func PropertyToID(name string) PropertyID {
	propertyTable.Lock()
	defer propertyTable.Unlock()

	if id, ok := propertyTable.ids[name]; ok {
		return id
	}
	id := PropertyID(len(propertyTable.names))
	propertyTable.ids[name] = id
	propertyTable.names = append(propertyTable.names, name)
	return id
}

// Name returns the property name the identifier was interned from
func (id PropertyID) Name() string {
	propertyTable.Lock()
	defer propertyTable.Unlock()

	if id < 0 || int(id) >= len(propertyTable.names) {
		return ""
	}
	return propertyTable.names[id]
}

func (id PropertyID) String() string {
	return id.Name()
}

// Well-known properties bound by the backends
var (
	MainTexID          = PropertyToID("_MainTex")
	MainTexTexelSizeID = PropertyToID("_MainTex_TexelSize")
	TimeID             = PropertyToID("_Time")
)

// ParamKind is the type of a shader parameter value
type ParamKind int

const (
	ParamFloat ParamKind = iota
	ParamVector
	ParamTexture
)

// Param is one shader parameter value
type Param struct {
	Kind    ParamKind
	Float   float32
	Vector  [4]float32
	Texture Texture
}

// ParamBlock holds shader parameter values keyed by property. The zero value
// is empty and ready to use; a nil block reads as empty.
type ParamBlock struct {
	values map[PropertyID]Param
}

// NewParamBlock returns an empty block
func NewParamBlock() *ParamBlock {
	return &ParamBlock{values: make(map[PropertyID]Param)}
}

func (b *ParamBlock) set(id PropertyID, p Param) {
	if b.values == nil {
		b.values = make(map[PropertyID]Param)
	}
	b.values[id] = p
}

// SetFloat sets a scalar parameter
func (b *ParamBlock) SetFloat(id PropertyID, v float32) {
	b.set(id, Param{Kind: ParamFloat, Float: v})
}

// SetVector sets a four-component parameter
func (b *ParamBlock) SetVector(id PropertyID, v [4]float32) {
	b.set(id, Param{Kind: ParamVector, Vector: v})
}

// SetTexture binds a texture parameter
func (b *ParamBlock) SetTexture(id PropertyID, t Texture) {
	b.set(id, Param{Kind: ParamTexture, Texture: t})
}

// Get returns the raw parameter
func (b *ParamBlock) Get(id PropertyID) (Param, bool) {
	if b == nil {
		return Param{}, false
	}
	p, ok := b.values[id]
	return p, ok
}

// Float returns a scalar parameter
func (b *ParamBlock) Float(id PropertyID) (float32, bool) {
	p, ok := b.Get(id)
	if !ok || p.Kind != ParamFloat {
		return 0, false
	}
	return p.Float, true
}

// Vector returns a four-component parameter
func (b *ParamBlock) Vector(id PropertyID) ([4]float32, bool) {
	p, ok := b.Get(id)
	if !ok || p.Kind != ParamVector {
		return [4]float32{}, false
	}
	return p.Vector, true
}

// Texture returns a texture parameter
func (b *ParamBlock) Texture(id PropertyID) (Texture, bool) {
	p, ok := b.Get(id)
	if !ok || p.Kind != ParamTexture {
		return nil, false
	}
	return p.Texture, true
}

// Len returns the number of parameters
func (b *ParamBlock) Len() int {
	if b == nil {
		return 0
	}
	return len(b.values)
}

// Clone returns an independent copy. Cloning nil yields an empty block.
func (b *ParamBlock) Clone() *ParamBlock {
	out := NewParamBlock()
	if b == nil {
		return out
	}
	for id, p := range b.values {
		out.values[id] = p
	}
	return out
}

// Merge copies every parameter of other into b, replacing existing values
func (b *ParamBlock) Merge(other *ParamBlock) *ParamBlock {
	if other == nil {
		return b
	}
	for id, p := range other.values {
		b.set(id, p)
	}
	return b
}

// Range calls fn for every parameter in ascending property order
func (b *ParamBlock) Range(fn func(id PropertyID, p Param)) {
	if b == nil {
		return
	}
	ids := make([]PropertyID, 0, len(b.values))
	for id := range b.values {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		fn(id, b.values[id])
	}
}
