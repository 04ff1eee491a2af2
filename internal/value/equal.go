package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Equal implements the VM's deep-equality relation: structural for
// strings/arrays/ranges, pointer-identity for closures and opaque
// objects (structs and enums compare structurally by field/payload, as
// they are data, not identity-bearing references). Nil is equal only to
// itself. Float equality is bit-exact after NaN-canonicalization; NaN is
// never equal to NaN, matching IEEE 754 and spec.md 4.1.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNil:
		return true
	case KindBool, KindI32, KindI64, KindU32, KindU64:
		return a.bits == b.bits
	case KindF64:
		af, _ := a.AsF64()
		bf, _ := b.AsF64()
		if math.IsNaN(af) || math.IsNaN(bf) {
			return false
		}
		return a.bits == b.bits
	case KindObject:
		return equalObjects(a.obj, b.obj)
	default:
		return false
	}
}

func equalObjects(a, b *Object) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case ObjString:
		return string(a.Str.Bytes) == string(b.Str.Bytes)
	case ObjArray:
		if len(a.Arr.Elems) != len(b.Arr.Elems) {
			return false
		}
		for i := range a.Arr.Elems {
			if !Equal(a.Arr.Elems[i], b.Arr.Elems[i]) {
				return false
			}
		}
		return true
	case ObjRange:
		return a.Rng.Current == b.Rng.Current && a.Rng.End == b.Rng.End && a.Rng.Inclusive == b.Rng.Inclusive
	case ObjStruct:
		if a.Struct.TypeName != b.Struct.TypeName || len(a.Struct.Fields) != len(b.Struct.Fields) {
			return false
		}
		for i := range a.Struct.Fields {
			if !Equal(a.Struct.Fields[i], b.Struct.Fields[i]) {
				return false
			}
		}
		return true
	case ObjEnum:
		if a.Enum.TypeName != b.Enum.TypeName || a.Enum.Variant != b.Enum.Variant || len(a.Enum.Payload) != len(b.Enum.Payload) {
			return false
		}
		for i := range a.Enum.Payload {
			if !Equal(a.Enum.Payload[i], b.Enum.Payload[i]) {
				return false
			}
		}
		return true
	case ObjClosure, ObjError, ObjIter:
		// Opaque/identity-bearing kinds: pointer identity only, already
		// handled by the `a == b` check above.
		return false
	default:
		return false
	}
}

// ToString produces the canonical textual form used by the `to_string`
// opcode and by print handlers: decimal for numbers, true/false for
// bool, nil for nil, bracketed elementwise form for arrays.
func ToString(v Value) string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		b, _ := v.AsBool()
		return strconv.FormatBool(b)
	case KindI32:
		n, _ := v.AsI32()
		return strconv.FormatInt(int64(n), 10)
	case KindI64:
		n, _ := v.AsI64()
		return strconv.FormatInt(n, 10)
	case KindU32:
		n, _ := v.AsU32()
		return strconv.FormatUint(uint64(n), 10)
	case KindU64:
		n, _ := v.AsU64()
		return strconv.FormatUint(n, 10)
	case KindF64:
		f, _ := v.AsF64()
		return formatFloat(f)
	case KindObject:
		return toStringObject(v.obj)
	default:
		return "<?>"
	}
}

func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return "nan"
	}
	if math.IsInf(f, 1) {
		return "inf"
	}
	if math.IsInf(f, -1) {
		return "-inf"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func toStringObject(o *Object) string {
	if o == nil {
		return "nil"
	}
	switch o.Kind {
	case ObjString:
		return o.Str.String()
	case ObjArray:
		parts := make([]string, len(o.Arr.Elems))
		for i, e := range o.Arr.Elems {
			parts[i] = ToString(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case ObjError:
		return o.Err.String()
	case ObjRange:
		op := ".."
		if o.Rng.Inclusive {
			op = "..="
		}
		return fmt.Sprintf("%d%s%d", o.Rng.Current, op, o.Rng.End)
	case ObjClosure:
		return fmt.Sprintf("<fn %s>", o.Closure.Name)
	case ObjStruct:
		parts := make([]string, len(o.Struct.Fields))
		for i, f := range o.Struct.Fields {
			parts[i] = ToString(f)
		}
		return o.Struct.TypeName + "{" + strings.Join(parts, ", ") + "}"
	case ObjEnum:
		parts := make([]string, len(o.Enum.Payload))
		for i, p := range o.Enum.Payload {
			parts[i] = ToString(p)
		}
		if len(parts) == 0 {
			return fmt.Sprintf("%s::%d", o.Enum.TypeName, o.Enum.Variant)
		}
		return fmt.Sprintf("%s::%d(%s)", o.Enum.TypeName, o.Enum.Variant, strings.Join(parts, ", "))
	case ObjIter:
		return "<iterator>"
	default:
		return "<object>"
	}
}
