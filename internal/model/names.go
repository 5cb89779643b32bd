package model

// DisplayName renders a node for diagnostics and snapshots, e.g.
// "demo.Widget", "demo.Widget.compute", "demo.Widget.compute(amount)",
// "demo.Widget<T>".
func DisplayName(n Node) string {
	switch v := n.(type) {
	case *Type:
		return v.qualified
	case *Operation:
		return v.declaring.qualified + "." + v.name
	case *Field:
		return v.declaring.qualified + "." + v.name
	case *Parameter:
		return DisplayName(v.declaring) + "(" + v.name + ")"
	case *TypeParameter:
		return DisplayName(v.declarator) + "<" + v.name + ">"
	case nil:
		return "<nil>"
	default:
		return n.SimpleName()
	}
}
