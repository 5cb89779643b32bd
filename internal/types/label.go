package types

import "strings"

// Label returns a source-like rendering of id, e.g. "java.util.List<? extends T>[]".
func Label(in *Interner, id TypeID) string {
	var sb strings.Builder
	writeLabel(&sb, in, id, 0)
	return sb.String()
}

func writeLabel(sb *strings.Builder, in *Interner, id TypeID, depth int) {
	if in == nil || id == NoTypeID {
		sb.WriteByte('?')
		return
	}
	if depth > 8 {
		sb.WriteString("...")
		return
	}
	tt, ok := in.Lookup(id)
	if !ok {
		sb.WriteByte('?')
		return
	}
	switch {
	case tt.Kind.IsPrimitive():
		sb.WriteString(tt.Kind.String())
	case tt.Kind == KindClass:
		sb.WriteString(in.ClassName(id))
	case tt.Kind == KindTypeParam:
		sb.WriteString(in.TypeParamName(id))
	case tt.Kind == KindArray:
		writeLabel(sb, in, tt.Elem, depth+1)
		sb.WriteString("[]")
	case tt.Kind == KindParameterized:
		writeLabel(sb, in, tt.Elem, depth+1)
		sb.WriteByte('<')
		for i, arg := range in.TypeArgs(id) {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeLabel(sb, in, arg, depth+1)
		}
		sb.WriteByte('>')
	case tt.Kind == KindWildcard:
		sb.WriteByte('?')
		if tt.Variance != VarianceNone {
			sb.WriteByte(' ')
			sb.WriteString(tt.Variance.String())
			sb.WriteByte(' ')
			writeLabel(sb, in, tt.Elem, depth+1)
		}
	default:
		sb.WriteByte('?')
	}
}
