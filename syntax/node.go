// Copyright © 2024 The XCTLint authors

// Package syntax holds the parsed structure of a single Swift source file
// and the queries that lint rules run against it.
//
// The model mirrors the SourceKitten structure dictionary: every node has a
// kind, an optional name, byte offsets into the file text, an optional body
// range, and ordered children. Nodes are immutable once built. All queries in
// this package look at direct children only; rules that need to see into a
// body re-enter through the pattern matcher on the body's byte range.
package syntax

import (
	"fmt"
	"slices"
)

// Kind classifies a syntax node.
type Kind int

const (
	KindUnknown Kind = iota
	KindSourceFile
	KindClass
	KindStruct
	KindEnum
	KindExtension
	KindProtocol
	KindActor
	KindVarInstance
	KindVarType // static or class property
	KindMethodInstance
	KindMethodClass
	KindMethodStatic
	KindFunction // free or local function
	KindCall
	KindStatement
	KindClosure
	numKinds
)

var kindNames = [numKinds]string{
	KindUnknown:        "unknown",
	KindSourceFile:     "source.file",
	KindClass:          "decl.class",
	KindStruct:         "decl.struct",
	KindEnum:           "decl.enum",
	KindExtension:      "decl.extension",
	KindProtocol:       "decl.protocol",
	KindActor:          "decl.actor",
	KindVarInstance:    "decl.var.instance",
	KindVarType:        "decl.var.type",
	KindMethodInstance: "decl.function.method.instance",
	KindMethodClass:    "decl.function.method.class",
	KindMethodStatic:   "decl.function.method.static",
	KindFunction:       "decl.function.free",
	KindCall:           "expr.call",
	KindStatement:      "stmt",
	KindClosure:        "expr.closure",
}

func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return kindNames[KindUnknown]
	}
	return kindNames[k]
}

// MarshalText encodes the kind using its SourceKit-like name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// IsTypeDecl reports whether nodes of kind k declare a nominal type.
func (k Kind) IsTypeDecl() bool {
	switch k {
	case KindClass, KindStruct, KindEnum, KindExtension, KindProtocol, KindActor:
		return true
	}
	return false
}

// Node is one declaration, expression or statement in a parsed file.
type Node struct {
	kind       Kind
	name       string
	hasName    bool
	offset     int
	length     int
	nameOffset int
	body       Span
	hasBody    bool
	inherited  []string
	children   []*Node
}

// NodeOption sets an optional attribute while building a Node.
type NodeOption func(*Node)

// WithName sets the node name and the byte offset of the name in the file.
func WithName(name string, offset int) NodeOption {
	return func(n *Node) {
		n.name = name
		n.hasName = true
		n.nameOffset = offset
	}
}

// WithBody sets the byte range of the node body. The range must lie inside
// the node's own span; NewNode panics otherwise.
func WithBody(offset, length int) NodeOption {
	return func(n *Node) {
		n.body = Span{Offset: offset, Length: length}
		n.hasBody = true
	}
}

// WithInheritedTypes sets the ordered list of inherited type names.
func WithInheritedTypes(names ...string) NodeOption {
	return func(n *Node) {
		n.inherited = slices.Clone(names)
	}
}

// WithChildren sets the ordered children of the node. The node takes
// ownership of the children; they must not be shared with another parent.
func WithChildren(children ...*Node) NodeOption {
	return func(n *Node) {
		n.children = slices.Clone(children)
	}
}

// NewNode builds an immutable node spanning [offset, offset+length).
func NewNode(kind Kind, offset, length int, opts ...NodeOption) *Node {
	n := &Node{kind: kind, offset: offset, length: length}
	for _, o := range opts {
		o(n)
	}
	if n.hasBody && !n.Span().ContainsSpan(n.body) {
		panic(fmt.Sprintf("syntax: body %v outside of node span %v", n.body, n.Span()))
	}
	return n
}

func (n *Node) Kind() Kind { return n.kind }

// Name returns the node name, and false when the node has none.
func (n *Node) Name() (string, bool) { return n.name, n.hasName }

// Offset returns the byte offset where the node starts.
func (n *Node) Offset() int { return n.offset }

// Length returns the byte length of the node.
func (n *Node) Length() int { return n.length }

// Span returns the byte range covered by the node.
func (n *Node) Span() Span { return Span{Offset: n.offset, Length: n.length} }

// NameOffset returns the byte offset of the node name, or 0 when the node
// has no name.
func (n *Node) NameOffset() int {
	if !n.hasName {
		return 0
	}
	return n.nameOffset
}

// Body returns the body byte range, and false when the node has no body.
func (n *Node) Body() (Span, bool) { return n.body, n.hasBody }

// InheritedTypes returns a copy of the inherited type names.
func (n *Node) InheritedTypes() []string { return slices.Clone(n.inherited) }

// Children returns a copy of the ordered child list.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

// NumChildren returns the number of direct children.
func (n *Node) NumChildren() int { return len(n.children) }

// Child returns the i'th direct child.
func (n *Node) Child(i int) *Node { return n.children[i] }

// Walk calls fn for n and every descendant, depth-first in document order.
// depth is 0 for n itself. Returning false from fn skips the node's
// children.
func Walk(n *Node, fn func(node *Node, depth int) bool) {
	walkNode(n, 0, fn)
}

func walkNode(n *Node, depth int, fn func(*Node, int) bool) {
	if n == nil {
		return
	}
	if !fn(n, depth) {
		return
	}
	for _, child := range n.children {
		walkNode(child, depth+1, fn)
	}
}
