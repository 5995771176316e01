package diff

// Field is one named value of a Snapshot
// Field 快照中的一个字段
type Field struct {
	Name  string
	Value any
}

// F builds a Field
func F(name string, value any) Field {
	return Field{Name: name, Value: value}
}

// Snapshot holds the field values of an entity at one instant.
// Fields keep the order they were added in, so diffs over the same kind are stable.
// Snapshot 实体在某一时刻的字段值，字段保持插入顺序
type Snapshot struct {
	keys   []string
	values map[string]any
}

// Of builds a Snapshot from fields; a repeated name overwrites the value but keeps its first position
// Of 根据字段构造快照，重复字段覆盖值但保留首次出现的位置
func Of(fields ...Field) Snapshot {
	s := Snapshot{}
	for _, f := range fields {
		s.Set(f.Name, f.Value)
	}
	return s
}

// Set assigns a field value
func (s *Snapshot) Set(name string, value any) {
	if s.values == nil {
		s.values = make(map[string]any)
	}
	if _, ok := s.values[name]; !ok {
		s.keys = append(s.keys, name)
	}
	s.values[name] = value
}

// Get returns the value of a field and whether it is present
func (s Snapshot) Get(name string) (any, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Has reports whether the field is present
func (s Snapshot) Has(name string) bool {
	_, ok := s.values[name]
	return ok
}

// Fields returns field names in insertion order
func (s Snapshot) Fields() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Len returns the number of fields
func (s Snapshot) Len() int {
	return len(s.keys)
}

// IsEmpty reports whether the snapshot has no fields
func (s Snapshot) IsEmpty() bool {
	return len(s.keys) == 0
}

// Project returns a snapshot restricted to the named fields, in this snapshot's order
// Project 返回只包含指定字段的快照，顺序与原快照一致
func (s Snapshot) Project(names ...string) Snapshot {
	keep := NewFieldSet(names...)
	out := Snapshot{}
	for _, k := range s.keys {
		if keep.Has(k) {
			out.Set(k, s.values[k])
		}
	}
	return out
}

// Map copies the snapshot into a plain map
func (s Snapshot) Map() map[string]any {
	out := make(map[string]any, len(s.keys))
	for _, k := range s.keys {
		out[k] = s.values[k]
	}
	return out
}

// FieldSet is a set of field names
// FieldSet 字段名集合
type FieldSet map[string]struct{}

// NewFieldSet builds a FieldSet
func NewFieldSet(names ...string) FieldSet {
	set := make(FieldSet, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// Has reports whether name is in the set; a nil set contains nothing
func (f FieldSet) Has(name string) bool {
	_, ok := f[name]
	return ok
}

// SystemFields are maintained by the persistence layer and never reported as changes
// SystemFields 由持久层维护的字段，不参与变更比较
var SystemFields = NewFieldSet("id", "version", "created_at", "updated_at", "updated_by")
