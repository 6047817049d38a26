// Package node provides the canonical program tree node structure and the
// operations used to traverse and mutate it.
package node

import "slices"

// Node type constants.
const (
	UASTFile         = "File"
	UASTImport       = "Import"
	UASTImportEquals = "ImportEquals"
	UASTExport       = "Export"
	UASTCall         = "Call"
	UASTIdentifier   = "Identifier"
	UASTLiteral      = "Literal"
	UASTFunction     = "Function"
	UASTClass        = "Class"
	UASTVariable     = "Variable"
	UASTBlock        = "Block"
	UASTComment      = "Comment"
	UASTSynthetic    = "Synthetic"
)

// Role constants for syntactic and semantic labeling.
const (
	RoleImport      = "Import"
	RoleSpecifier   = "Specifier"
	RoleSource      = "Source"
	RoleName        = "Name"
	RoleAlias       = "Alias"
	RoleDefault     = "Default"
	RoleNamespace   = "Namespace"
	RoleLiteral     = "Literal"
	RoleCall        = "Call"
	RoleArgument    = "Argument"
	RoleExported    = "Exported"
	RoleDeclaration = "Declaration"
)

// Property keys.
const (
	// PropRaw holds the original source text of a literal. It is dropped when
	// the literal value is replaced.
	PropRaw = "raw"
	// PropKind holds the grammar node kind the node was built from.
	PropKind = "kind"
	// PropLanguage holds the grammar a File node was parsed with.
	PropLanguage = "language"
	// PropAlias holds the local name of an aliased import specifier.
	PropAlias = "alias"
)

// Role represents a syntactic/semantic label for a node.
type Role string

// Type represents a type label for a node.
type Type string

// Positions represents the byte and line/col offsets for a node.
// All fields are 1-based except StartOffset/EndOffset, which are byte offsets.
type Positions struct {
	StartLine   uint `json:"start_line,omitempty"`
	StartCol    uint `json:"start_col,omitempty"`
	StartOffset uint `json:"start_offset,omitempty"`
	EndLine     uint `json:"end_line,omitempty"`
	EndCol      uint `json:"end_col,omitempty"`
	EndOffset   uint `json:"end_offset,omitempty"`
}

// NewPositions builds a Positions value.
func NewPositions(startLine, startCol, startOffset, endLine, endCol, endOffset uint) *Positions {
	return &Positions{
		StartLine:   startLine,
		StartCol:    startCol,
		StartOffset: startOffset,
		EndLine:     endLine,
		EndCol:      endCol,
		EndOffset:   endOffset,
	}
}

// Node is the canonical program tree node.
//
// Fields:
//
//	ID: unique node identifier (optional).
//	Type: node type (e.g., "Import", "Literal").
//	Token: string value for leaf nodes; the decoded value for string literals.
//	Roles: semantic/syntactic roles (see Role).
//	Pos: source code position info (optional).
//	Props: additional properties (language-specific).
//	Children: child nodes (ordered).
type Node struct {
	ID       string            `json:"id,omitempty"`
	Token    string            `json:"token,omitempty"`
	Type     Type              `json:"type,omitempty"`
	Roles    []Role            `json:"roles,omitempty"`
	Pos      *Positions        `json:"pos,omitempty"`
	Props    map[string]string `json:"props,omitempty"`
	Children []*Node           `json:"children,omitempty"`
}

// NodeBuilder provides a fluent interface for building Node instances.
type NodeBuilder struct {
	node *Node
}

const initialChildCap = 4

// NewBuilder creates a new NodeBuilder.
func NewBuilder() *NodeBuilder {
	return &NodeBuilder{node: &Node{}}
}

// WithType sets the node type.
func (builder *NodeBuilder) WithType(nodeType Type) *NodeBuilder {
	builder.node.Type = nodeType

	return builder
}

// WithToken sets the node token.
func (builder *NodeBuilder) WithToken(token string) *NodeBuilder {
	builder.node.Token = token

	return builder
}

// WithRoles sets the node roles.
func (builder *NodeBuilder) WithRoles(roles ...Role) *NodeBuilder {
	builder.node.Roles = roles

	return builder
}

// WithPosition sets the node position.
func (builder *NodeBuilder) WithPosition(pos *Positions) *NodeBuilder {
	builder.node.Pos = pos

	return builder
}

// WithProps sets the node properties.
func (builder *NodeBuilder) WithProps(props map[string]string) *NodeBuilder {
	builder.node.Props = props

	return builder
}

// WithChildren appends children to the node.
func (builder *NodeBuilder) WithChildren(children ...*Node) *NodeBuilder {
	builder.node.Children = append(builder.node.Children, children...)

	return builder
}

// Build returns the final Node.
func (builder *NodeBuilder) Build() *Node {
	if builder.node.Children == nil {
		builder.node.Children = make([]*Node, 0, initialChildCap)
	}

	return builder.node
}

// Find returns all nodes in the tree (including root) for which predicate(node) is true.
// Traversal is pre-order. Returns nil if n is nil.
func (targetNode *Node) Find(predicate func(*Node) bool) []*Node {
	if targetNode == nil {
		return nil
	}

	var result []*Node

	targetNode.VisitPreOrder(func(curr *Node) {
		if predicate(curr) {
			result = append(result, curr)
		}
	})

	return result
}

// VisitPreOrder visits all nodes in pre-order (root, then children left-to-right).
func (targetNode *Node) VisitPreOrder(fn func(*Node)) {
	if targetNode == nil {
		return
	}

	targetNode.TransformInPlace(func(curr *Node) bool {
		fn(curr)

		return true
	})
}

// TransformInPlace walks the tree in pre-order, handing each node to fn.
// Children of a node are only visited when fn returns true for it.
//
//	root.TransformInPlace(func(n *node.Node) bool {
//	    if n.Type == node.UASTComment {
//	        n.Token = ""
//	    }
//	    return true // continue traversal
//	})
func (targetNode *Node) TransformInPlace(fn func(*Node) bool) {
	if targetNode == nil {
		return
	}

	stack := []*Node{targetNode}

	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if curr == nil || !fn(curr) {
			continue
		}

		for idx := len(curr.Children) - 1; idx >= 0; idx-- {
			stack = append(stack, curr.Children[idx])
		}
	}
}

// HasAnyRole checks if the node has any of the given roles.
func (targetNode *Node) HasAnyRole(roles ...Role) bool {
	if targetNode == nil || len(targetNode.Roles) == 0 {
		return false
	}

	for _, role := range roles {
		if slices.Contains(targetNode.Roles, role) {
			return true
		}
	}

	return false
}

// Prop returns the property value for key, or "" if unset.
func (targetNode *Node) Prop(key string) string {
	if targetNode == nil {
		return ""
	}

	return targetNode.Props[key]
}
