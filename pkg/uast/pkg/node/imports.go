package node

// IsImport reports whether n is an import declaration.
func (targetNode *Node) IsImport() bool {
	return targetNode != nil && targetNode.Type == UASTImport
}

// ImportSpecifiers returns the bindings introduced by an import declaration.
// The result is empty for side-effect-only imports such as `import "x"` and
// `import {} from "x"`.
func (targetNode *Node) ImportSpecifiers() []*Node {
	if targetNode == nil {
		return nil
	}

	var specifiers []*Node

	for _, child := range targetNode.Children {
		if child.HasAnyRole(RoleSpecifier) {
			specifiers = append(specifiers, child)
		}
	}

	return specifiers
}

// ImportSource returns the module path literal of an import or re-export
// declaration, or nil when the node has none.
func (targetNode *Node) ImportSource() *Node {
	if targetNode == nil {
		return nil
	}

	for _, child := range targetNode.Children {
		if child.Type == UASTLiteral && child.HasAnyRole(RoleSource) {
			return child
		}
	}

	return nil
}

// SetLiteralValue replaces the value of a string literal. The original raw
// text is dropped so printers know to re-emit the literal.
func (targetNode *Node) SetLiteralValue(value string) {
	if targetNode == nil {
		return
	}

	targetNode.Token = value
	delete(targetNode.Props, PropRaw)
}

// IsRewritten reports whether a literal no longer carries its original raw text.
func (targetNode *Node) IsRewritten() bool {
	if targetNode == nil {
		return false
	}

	_, hasRaw := targetNode.Props[PropRaw]

	return !hasRaw
}
