package uast

import (
	"slices"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/sheinsight/lockmodule/pkg/uast/pkg/node"
)

// Grammar node kinds the converter maps explicitly.
const (
	kindProgram        = "program"
	kindImport         = "import_statement"
	kindImportClause   = "import_clause"
	kindImportRequire  = "import_require_clause"
	kindNamedImports   = "named_imports"
	kindImportSpec     = "import_specifier"
	kindNamespaceSpec  = "namespace_import"
	kindExport         = "export_statement"
	kindCall           = "call_expression"
	kindString         = "string"
	kindIdentifier     = "identifier"
	kindComment        = "comment"
	kindFunctionDecl   = "function_declaration"
	kindClassDecl      = "class_declaration"
	kindLexicalDecl    = "lexical_declaration"
	kindVariableDecl   = "variable_declaration"
	kindStatementBlock = "statement_block"

	fieldSource   = "source"
	fieldName     = "name"
	fieldAlias    = "alias"
	fieldFunction = "function"
)

// converter builds a program tree from a tree-sitter syntax tree.
type converter struct {
	source []byte
}

func (conv *converter) convert(tsNode sitter.Node) *node.Node {
	switch tsNode.Type() {
	case kindImport:
		return conv.convertImport(tsNode)
	case kindExport:
		return conv.convertExport(tsNode)
	case kindCall:
		return conv.convertCall(tsNode)
	case kindString:
		return conv.literal(tsNode, node.RoleLiteral)
	case kindIdentifier:
		return conv.leaf(tsNode, node.UASTIdentifier, node.RoleName)
	case kindComment:
		return conv.leaf(tsNode, node.UASTComment, node.RoleLiteral)
	}

	return conv.generic(tsNode, mappedType(tsNode.Type()))
}

func mappedType(kind string) node.Type {
	switch kind {
	case kindProgram:
		return node.UASTFile
	case kindFunctionDecl:
		return node.UASTFunction
	case kindClassDecl:
		return node.UASTClass
	case kindLexicalDecl, kindVariableDecl:
		return node.UASTVariable
	case kindStatementBlock:
		return node.UASTBlock
	default:
		return node.UASTSynthetic
	}
}

// generic converts a node and all of its named children.
func (conv *converter) generic(tsNode sitter.Node, nodeType node.Type) *node.Node {
	builder := node.NewBuilder().
		WithType(nodeType).
		WithPosition(positions(tsNode)).
		WithProps(map[string]string{node.PropKind: tsNode.Type()})

	if tsNode.ChildCount() == 0 {
		builder.WithToken(conv.text(tsNode))
	}

	for idx := range tsNode.NamedChildCount() {
		builder.WithChildren(conv.convert(tsNode.NamedChild(idx)))
	}

	return builder.Build()
}

// convertImport maps an import statement. Default, namespace and named
// bindings become Specifier children; the module path becomes the Source literal.
func (conv *converter) convertImport(tsNode sitter.Node) *node.Node {
	nodeType := node.Type(node.UASTImport)

	source := tsNode.ChildByFieldName(fieldSource)
	builder := node.NewBuilder().
		WithRoles(node.RoleImport, node.RoleDeclaration).
		WithPosition(positions(tsNode)).
		WithProps(map[string]string{node.PropKind: tsNode.Type()})

	for idx := range tsNode.NamedChildCount() {
		child := tsNode.NamedChild(idx)

		switch {
		case !source.IsNull() && sameNode(child, source):
			builder.WithChildren(conv.literal(child, node.RoleLiteral, node.RoleSource))
		case child.Type() == kindImportClause:
			builder.WithChildren(conv.importClause(child)...)
		case child.Type() == kindImportRequire:
			nodeType = node.UASTImportEquals
			builder.WithChildren(conv.generic(child, node.UASTSynthetic))
		default:
			builder.WithChildren(conv.convert(child))
		}
	}

	return builder.WithType(nodeType).Build()
}

func (conv *converter) importClause(clause sitter.Node) []*node.Node {
	var specifiers []*node.Node

	for idx := range clause.NamedChildCount() {
		child := clause.NamedChild(idx)

		switch child.Type() {
		case kindIdentifier:
			specifiers = append(specifiers, conv.leaf(child, node.UASTIdentifier, node.RoleSpecifier, node.RoleDefault))
		case kindNamespaceSpec:
			specifiers = append(specifiers, conv.namespaceSpecifier(child))
		case kindNamedImports:
			specifiers = append(specifiers, conv.namedSpecifiers(child)...)
		}
	}

	return specifiers
}

func (conv *converter) namespaceSpecifier(tsNode sitter.Node) *node.Node {
	spec := conv.leaf(tsNode, node.UASTIdentifier, node.RoleSpecifier, node.RoleNamespace)

	for idx := range tsNode.NamedChildCount() {
		child := tsNode.NamedChild(idx)
		if child.Type() == kindIdentifier {
			spec.Token = conv.text(child)
		}
	}

	return spec
}

func (conv *converter) namedSpecifiers(named sitter.Node) []*node.Node {
	var specifiers []*node.Node

	for idx := range named.NamedChildCount() {
		child := named.NamedChild(idx)
		if child.Type() != kindImportSpec {
			continue
		}

		spec := conv.leaf(child, node.UASTIdentifier, node.RoleSpecifier, node.RoleName)

		if name := child.ChildByFieldName(fieldName); !name.IsNull() {
			spec.Token = conv.text(name)
		}

		if alias := child.ChildByFieldName(fieldAlias); !alias.IsNull() {
			spec.Props[node.PropAlias] = conv.text(alias)
			spec.Roles = append(spec.Roles, node.RoleAlias)
		}

		specifiers = append(specifiers, spec)
	}

	return specifiers
}

// convertExport maps export statements. Re-exports keep their module path as a
// Source literal, but under an Export node.
func (conv *converter) convertExport(tsNode sitter.Node) *node.Node {
	source := tsNode.ChildByFieldName(fieldSource)
	builder := node.NewBuilder().
		WithType(node.UASTExport).
		WithRoles(node.RoleExported, node.RoleDeclaration).
		WithPosition(positions(tsNode)).
		WithProps(map[string]string{node.PropKind: tsNode.Type()})

	for idx := range tsNode.NamedChildCount() {
		child := tsNode.NamedChild(idx)

		if !source.IsNull() && sameNode(child, source) {
			builder.WithChildren(conv.literal(child, node.RoleLiteral, node.RoleSource))

			continue
		}

		builder.WithChildren(conv.convert(child))
	}

	return builder.Build()
}

// convertCall maps call expressions. The callee text is kept as the token so
// dynamic import() and require() calls are recognizable.
func (conv *converter) convertCall(tsNode sitter.Node) *node.Node {
	call := conv.generic(tsNode, node.UASTCall)
	call.Roles = []node.Role{node.RoleCall}

	if callee := tsNode.ChildByFieldName(fieldFunction); !callee.IsNull() {
		call.Token = conv.text(callee)
	}

	return call
}

func (conv *converter) literal(tsNode sitter.Node, roles ...node.Role) *node.Node {
	raw := conv.text(tsNode)

	// A literal without a UTF-8 value keeps its raw text and loses the Source
	// role, so it is never re-emitted from a lossy value.
	value, err := Unquote(raw)
	if err != nil {
		value = raw
		roles = slices.DeleteFunc(slices.Clone(roles), func(role node.Role) bool { return role == node.RoleSource })
	}

	return node.NewBuilder().
		WithType(node.UASTLiteral).
		WithToken(value).
		WithRoles(roles...).
		WithPosition(positions(tsNode)).
		WithProps(map[string]string{node.PropKind: tsNode.Type(), node.PropRaw: raw}).
		Build()
}

func (conv *converter) leaf(tsNode sitter.Node, nodeType node.Type, roles ...node.Role) *node.Node {
	return node.NewBuilder().
		WithType(nodeType).
		WithToken(conv.text(tsNode)).
		WithRoles(roles...).
		WithPosition(positions(tsNode)).
		WithProps(map[string]string{node.PropKind: tsNode.Type()}).
		Build()
}

func (conv *converter) text(tsNode sitter.Node) string {
	start := tsNode.StartByte()
	end := tsNode.EndByte()

	if start > end || end > uint(len(conv.source)) {
		return ""
	}

	return string(conv.source[start:end])
}

func sameNode(left, right sitter.Node) bool {
	return left.StartByte() == right.StartByte() &&
		left.EndByte() == right.EndByte() &&
		left.Type() == right.Type()
}

// positions returns the source positions of a node, 1-based for line/col.
func positions(tsNode sitter.Node) *node.Positions {
	start := tsNode.StartPoint()
	end := tsNode.EndPoint()

	return node.NewPositions(
		start.Row+1,
		start.Column+1,
		tsNode.StartByte(),
		end.Row+1,
		end.Column+1,
		tsNode.EndByte(),
	)
}
