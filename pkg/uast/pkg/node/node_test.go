package node //nolint:testpackage // Tests need access to internal types.

import (
	"reflect"
	"testing"
)

func TestNodeEdgeCases(t *testing.T) {
	t.Parallel()

	n := &Node{}

	if n.Pos != nil {
		t.Errorf("Default Pos should be nil")
	}

	if len(n.Roles) != 0 {
		t.Errorf("Default Roles should be empty")
	}

	if len(n.Children) != 0 {
		t.Errorf("Default Children should be empty")
	}

	var nilNode *Node

	if nilNode.Find(func(*Node) bool { return true }) != nil {
		t.Errorf("Find on nil node should return nil")
	}

	if nilNode.Prop(PropRaw) != "" {
		t.Errorf("Prop on nil node should be empty")
	}
}

func makeTestTree() *Node {
	// Tree structure:
	//      root
	//     / |  \
	//   c1 c2  c3
	//  /      /  \
	// gc1   gc2 gc3.
	root := &Node{ID: "1", Type: "Root"}
	c1 := &Node{ID: "2", Type: "Child", Token: "c1"}
	c2 := &Node{ID: "3", Type: "Child", Token: "c2"}
	c3 := &Node{ID: "4", Type: "Child", Token: "c3"}
	gc1 := &Node{ID: "5", Type: "Grandchild", Token: "gc1"}
	gc2 := &Node{ID: "6", Type: "Grandchild", Token: "gc2"}
	gc3 := &Node{ID: "7", Type: "Grandchild", Token: "gc3"}
	c1.Children = []*Node{gc1}
	c3.Children = []*Node{gc2, gc3}
	root.Children = []*Node{c1, c2, c3}

	return root
}

func TestVisitPreOrder(t *testing.T) {
	t.Parallel()

	var ids []string

	makeTestTree().VisitPreOrder(func(n *Node) {
		ids = append(ids, n.ID)
	})

	want := []string{"1", "2", "5", "3", "4", "6", "7"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("pre-order = %v, want %v", ids, want)
	}
}

func TestTransformInPlaceSkipsSubtree(t *testing.T) {
	t.Parallel()

	var visited []string

	makeTestTree().TransformInPlace(func(n *Node) bool {
		visited = append(visited, n.ID)

		return n.ID != "4"
	})

	want := []string{"1", "2", "5", "3", "4"}
	if !reflect.DeepEqual(visited, want) {
		t.Errorf("visited = %v, want %v", visited, want)
	}
}

func TestNodeFind(t *testing.T) {
	t.Parallel()

	tree := makeTestTree()

	tests := []struct {
		name      string
		predicate func(*Node) bool
		want      int
	}{
		{"all", func(*Node) bool { return true }, 7},
		{"children", func(n *Node) bool { return n.Type == "Child" }, 3},
		{"grandchildren", func(n *Node) bool { return n.Type == "Grandchild" }, 3},
		{"none", func(n *Node) bool { return n.Type == "Missing" }, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := len(tree.Find(tt.predicate)); got != tt.want {
				t.Errorf("Find() returned %d nodes, want %d", got, tt.want)
			}
		})
	}
}

func TestBuilder(t *testing.T) {
	t.Parallel()

	lit := NewBuilder().
		WithType(UASTLiteral).
		WithToken("a/b").
		WithRoles(RoleLiteral, RoleSource).
		WithProps(map[string]string{PropRaw: `"a/b"`}).
		Build()

	if lit.Type != UASTLiteral || lit.Token != "a/b" {
		t.Fatalf("unexpected literal %v", lit)
	}

	if !lit.HasAnyRole(RoleSource) || lit.HasAnyRole(RoleSpecifier) {
		t.Errorf("unexpected roles %v", lit.Roles)
	}

	if lit.Children == nil {
		t.Errorf("Build should allocate children")
	}

	if lit.Prop(PropRaw) != `"a/b"` || lit.Prop(PropKind) != "" {
		t.Errorf("unexpected props %v", lit.Props)
	}
}

func TestImportAccessors(t *testing.T) {
	t.Parallel()

	src := NewBuilder().WithType(UASTLiteral).WithToken("a").WithRoles(RoleSource).
		WithProps(map[string]string{PropRaw: `'a'`}).Build()
	spec := NewBuilder().WithType(UASTIdentifier).WithToken("x").WithRoles(RoleSpecifier, RoleDefault).Build()
	imp := NewBuilder().WithType(UASTImport).WithChildren(spec, src).Build()

	if !imp.IsImport() {
		t.Fatalf("expected import")
	}

	if got := imp.ImportSpecifiers(); len(got) != 1 || got[0] != spec {
		t.Errorf("ImportSpecifiers() = %v", got)
	}

	if imp.ImportSource() != src {
		t.Errorf("ImportSource() did not return the literal")
	}

	if src.IsRewritten() {
		t.Errorf("literal with raw text should not be rewritten")
	}

	src.SetLiteralValue("b")

	if src.Token != "b" || !src.IsRewritten() {
		t.Errorf("SetLiteralValue did not replace the literal: %v", src)
	}

	bare := NewBuilder().WithType(UASTImport).WithChildren(&Node{Type: UASTLiteral, Token: "c"}).Build()
	if bare.ImportSource() != nil {
		t.Errorf("literal without Source role must not be the import source")
	}
}
