package templating

import (
	"fmt"
	"math"
	"reflect"
)

// indexHelper replaces the built-in index. A string key missing from a
// map[string]any yields a nil *Undefined instead of a zero value, so record
// lookups behave like field access.
func indexHelper(item any, keys ...any) (any, error) {
	v := item
	for _, key := range keys {
		if _, ok := v.(*Undefined); ok {
			return nil, fmt.Errorf("%w: index into undefined value", ErrUndefined)
		}
		if m, ok := v.(map[string]any); ok {
			k, ok := key.(string)
			if !ok {
				return nil, fmt.Errorf("%w: index: key %v is not a string", ErrFilter, key)
			}
			found, ok := m[k]
			if !ok {
				found = (*Undefined)(nil)
			}
			v = found
			continue
		}
		next, err := indexValue(reflect.ValueOf(v), key)
		if err != nil {
			return nil, err
		}
		v = next
	}
	return v, nil
}

func indexValue(item reflect.Value, key any) (any, error) {
	if !item.IsValid() {
		return nil, fmt.Errorf("%w: index of untyped nil", ErrFilter)
	}
	switch item.Kind() {
	case reflect.Slice, reflect.Array, reflect.String:
		i, ok := intValue(key)
		if !ok {
			return nil, fmt.Errorf("%w: index: cannot index %s with %T", ErrFilter, item.Type(), key)
		}
		if i < 0 || i >= int64(item.Len()) {
			return nil, fmt.Errorf("%w: index: index out of range: %d", ErrFilter, i)
		}
		return item.Index(int(i)).Interface(), nil
	case reflect.Map:
		k := reflect.ValueOf(key)
		if !k.IsValid() || !k.Type().AssignableTo(item.Type().Key()) {
			return nil, fmt.Errorf("%w: index: cannot index %s with %T", ErrFilter, item.Type(), key)
		}
		if found := item.MapIndex(k); found.IsValid() {
			return found.Interface(), nil
		}
		return reflect.Zero(item.Type().Elem()).Interface(), nil
	case reflect.Pointer, reflect.Interface:
		if item.IsNil() {
			return nil, fmt.Errorf("%w: index of nil %s", ErrFilter, item.Type())
		}
		return indexValue(item.Elem(), key)
	default:
		return nil, fmt.Errorf("%w: index: cannot index %s", ErrFilter, item.Type())
	}
}

// eqHelper replaces the built-in eq. A nil *Undefined equals only another
// undefined value and compares unequal to everything else without failing.
func eqHelper(arg1 any, arg2 ...any) (bool, error) {
	if len(arg2) == 0 {
		return false, fmt.Errorf("%w: eq: missing argument for comparison", ErrFilter)
	}
	for _, a := range arg2 {
		same, err := equal(arg1, a)
		if err != nil || same {
			return same, err
		}
	}
	return false, nil
}

// neHelper replaces the built-in ne, with the same undefined handling as eq.
func neHelper(arg1, arg2 any) (bool, error) {
	same, err := equal(arg1, arg2)
	if err != nil {
		return false, err
	}
	return !same, nil
}

// equal compares basic values by kind the way the built-in eq does:
// integers regardless of sign or size, strings including template.HTML.
func equal(a, b any) (bool, error) {
	_, undefA := a.(*Undefined)
	_, undefB := b.(*Undefined)
	if undefA || undefB {
		return undefA && undefB, nil
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if !va.IsValid() || !vb.IsValid() {
		return !va.IsValid() && !vb.IsValid(), nil
	}
	if x, ok := intValue(a); ok {
		if y, ok := intValue(b); ok {
			return x == y, nil
		}
	}
	switch {
	case isFloat(va) && isFloat(vb):
		return va.Float() == vb.Float(), nil
	case va.Kind() == reflect.String && vb.Kind() == reflect.String:
		return va.String() == vb.String(), nil
	case va.Kind() == reflect.Bool && vb.Kind() == reflect.Bool:
		return va.Bool() == vb.Bool(), nil
	case va.Type() == vb.Type() && va.Type().Comparable():
		return a == b, nil
	}
	return false, fmt.Errorf("%w: incompatible types for comparison: %T and %T", ErrFilter, a, b)
}

func intValue(v any) (int64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	}
	return 0, false
}

func isFloat(v reflect.Value) bool {
	return v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64
}
