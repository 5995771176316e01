package diff

import (
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

var timeType = reflect.TypeOf(time.Time{})

// Equal reports whether two field values are the same.
//   - identifiers (uuid.UUID, ulid.ULID) compare by canonical string, also against a string holding one
//   - times compare by instant, whatever the location or wrapper type
//   - numbers compare by value across integer and float kinds
//   - nil pointers equal nil
//   - anything else uses reflect.DeepEqual
//
// Equal 判断两个字段值是否相同：标识符按规范字符串比较，时间按时刻比较，
// 数字按数值比较，nil 指针等同于 nil，其余使用 reflect.DeepEqual
func Equal(a, b any) bool {
	a, b = normalize(a), normalize(b)
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}

	ia, aIsID := identifier(a)
	ib, bIsID := identifier(b)
	if aIsID || bIsID {
		if !aIsID {
			ia, aIsID = canonical(a)
		}
		if !bIsID {
			ib, bIsID = canonical(b)
		}
		return aIsID && bIsID && ia == ib
	}

	if eq, ok := numericEqual(a, b); ok {
		return eq
	}

	return reflect.DeepEqual(a, b)
}

// normalize dereferences pointers and unwraps time wrappers so values compare by content.
// normalize 解引用指针并展开时间包装类型
func normalize(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Struct && rv.Type() != timeType && rv.Type().ConvertibleTo(timeType) {
		return rv.Convert(timeType).Interface()
	}
	return rv.Interface()
}

func identifier(v any) (string, bool) {
	switch id := v.(type) {
	case uuid.UUID:
		return id.String(), true
	case ulid.ULID:
		return id.String(), true
	}
	return "", false
}

// canonical parses a string holding an identifier into its canonical form
func canonical(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	if id, err := uuid.Parse(s); err == nil {
		return id.String(), true
	}
	if id, err := ulid.ParseStrict(s); err == nil {
		return id.String(), true
	}
	return s, true
}

func numericEqual(a, b any) (equal bool, ok bool) {
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	ka, kb := numberKind(ra.Kind()), numberKind(rb.Kind())
	if ka == 0 || kb == 0 {
		return false, false
	}
	switch {
	case ka == signed && kb == signed:
		return ra.Int() == rb.Int(), true
	case ka == unsigned && kb == unsigned:
		return ra.Uint() == rb.Uint(), true
	default:
		return asFloat(ra) == asFloat(rb), true
	}
}

const (
	signed = iota + 1
	unsigned
	floating
)

func numberKind(k reflect.Kind) int {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return signed
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return unsigned
	case reflect.Float32, reflect.Float64:
		return floating
	}
	return 0
}

func asFloat(v reflect.Value) float64 {
	switch numberKind(v.Kind()) {
	case signed:
		return float64(v.Int())
	case unsigned:
		return float64(v.Uint())
	}
	return v.Float()
}
