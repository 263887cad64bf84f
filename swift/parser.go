// Copyright © 2024 The XCTLint authors

// Package swift builds a syntax.File from Swift source using the
// tree-sitter Swift grammar.
//
// The resulting tree keeps only what lint rules query: type declarations,
// properties, functions, calls, and the statements and closures that nest
// calls. Every other grammar node is transparent; its interesting
// descendants are attached to the nearest kept ancestor, so a call written
// directly in a method body is a direct child of that method.
package swift

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/swift"

	"github.com/luthersystems/xctlint/syntax"
)

// Parser parses Swift source files. The zero value is ready to use and is
// safe for concurrent use.
type Parser struct{}

// Parse parses src. Files containing syntax errors still produce a tree;
// syntax.File.HasErrors reports them.
func (p Parser) Parse(ctx context.Context, filename string, src []byte) (*syntax.File, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(swift.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, errors.New("tree-sitter returned no root node")
	}

	b := &builder{src: src}
	children := b.children(root, scopeFile)
	file := syntax.NewNode(syntax.KindSourceFile, 0, len(src), syntax.WithChildren(children...))
	b.classify(root)

	return syntax.NewFile(filename, src, file, b.tokens, syntax.WithSyntaxErrors(root.HasError())), nil
}

// scope tells the builder what a function or property declaration means
// where it appears.
type scope int

const (
	scopeFile scope = iota
	scopeType
	scopeBody
)

type builder struct {
	src    []byte
	tokens []syntax.Token
}

func (b *builder) text(n *sitter.Node) string {
	return n.Content(b.src)
}

// children converts the named children of n, splicing transparent nodes.
func (b *builder) children(n *sitter.Node, sc scope) []*syntax.Node {
	var out []*syntax.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		out = append(out, b.convert(n.NamedChild(i), sc)...)
	}
	return out
}

func (b *builder) convert(n *sitter.Node, sc scope) []*syntax.Node {
	switch n.Type() {
	case "class_declaration":
		return []*syntax.Node{b.typeDecl(n)}
	case "protocol_declaration":
		return []*syntax.Node{b.protocolDecl(n)}
	case "function_declaration":
		return []*syntax.Node{b.function(n, sc)}
	case "init_declaration":
		return []*syntax.Node{b.special(n, "init")}
	case "deinit_declaration":
		return []*syntax.Node{b.special(n, "deinit")}
	case "property_declaration":
		return b.properties(n, sc)
	case "call_expression":
		return []*syntax.Node{b.call(n)}
	case "if_statement", "guard_statement", "for_statement", "while_statement",
		"repeat_while_statement", "switch_statement", "do_statement":
		return []*syntax.Node{b.container(n, syntax.KindStatement)}
	case "lambda_literal":
		return []*syntax.Node{b.container(n, syntax.KindClosure)}
	case "comment", "multiline_comment":
		return nil
	}
	if isStringLiteral(n.Type()) {
		return nil
	}
	return b.children(n, sc)
}

func (b *builder) container(n *sitter.Node, kind syntax.Kind) *syntax.Node {
	start, end := span(n)
	return syntax.NewNode(kind, start, end-start, syntax.WithChildren(b.children(n, scopeBody)...))
}

var declarationKinds = map[string]syntax.Kind{
	"class":     syntax.KindClass,
	"struct":    syntax.KindStruct,
	"enum":      syntax.KindEnum,
	"extension": syntax.KindExtension,
	"actor":     syntax.KindActor,
}

func (b *builder) typeDecl(n *sitter.Node) *syntax.Node {
	kind := b.declarationKind(n)
	start, end := span(n)
	opts := []syntax.NodeOption{}
	if name := n.ChildByFieldName("name"); name != nil {
		opts = append(opts, syntax.WithName(compact(b.text(name)), int(name.StartByte())))
	}

	var inherited []string
	var body *sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "inheritance_specifier":
			t := child
			if from := child.ChildByFieldName("inherits_from"); from != nil {
				t = from
			}
			inherited = append(inherited, compact(b.text(t)))
		case "class_body", "enum_class_body":
			body = child
		}
	}
	if len(inherited) > 0 {
		opts = append(opts, syntax.WithInheritedTypes(inherited...))
	}
	if body != nil {
		opts = append(opts, bodyOption(body))
		opts = append(opts, syntax.WithChildren(b.children(body, scopeType)...))
	}
	return syntax.NewNode(kind, start, end-start, opts...)
}

// declarationKind reads the keyword introducing a type declaration.
func (b *builder) declarationKind(n *sitter.Node) syntax.Kind {
	if dk := n.ChildByFieldName("declaration_kind"); dk != nil {
		if k, ok := declarationKinds[b.text(dk)]; ok {
			return k
		}
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.IsNamed() {
			continue
		}
		if k, ok := declarationKinds[child.Type()]; ok {
			return k
		}
	}
	return syntax.KindClass
}

func (b *builder) protocolDecl(n *sitter.Node) *syntax.Node {
	start, end := span(n)
	var opts []syntax.NodeOption
	if name := n.ChildByFieldName("name"); name != nil {
		opts = append(opts, syntax.WithName(compact(b.text(name)), int(name.StartByte())))
	}
	if body := n.ChildByFieldName("body"); body != nil {
		opts = append(opts, bodyOption(body))
	}
	return syntax.NewNode(syntax.KindProtocol, start, end-start, opts...)
}

func (b *builder) function(n *sitter.Node, sc scope) *syntax.Node {
	kind := syntax.KindFunction
	if sc == scopeType {
		kind = syntax.KindMethodInstance
		switch {
		case b.hasModifier(n, "class"):
			kind = syntax.KindMethodClass
		case b.hasModifier(n, "static"):
			kind = syntax.KindMethodStatic
		}
	}
	start, end := span(n)
	var opts []syntax.NodeOption
	if name := n.ChildByFieldName("name"); name != nil {
		opts = append(opts, syntax.WithName(b.signature(n, b.text(name)), int(name.StartByte())))
	}
	if body := n.ChildByFieldName("body"); body != nil {
		opts = append(opts, bodyOption(body))
		opts = append(opts, syntax.WithChildren(b.children(body, scopeBody)...))
	}
	return syntax.NewNode(kind, start, end-start, opts...)
}

// special converts initializers and deinitializers into instance methods.
func (b *builder) special(n *sitter.Node, keyword string) *syntax.Node {
	start, end := span(n)
	name := keyword
	if keyword == "init" {
		name = b.signature(n, keyword)
	}
	nameOffset := start
	if i := strings.Index(b.text(n), keyword); i >= 0 {
		nameOffset += i
	}
	opts := []syntax.NodeOption{syntax.WithName(name, nameOffset)}
	if body := n.ChildByFieldName("body"); body != nil {
		opts = append(opts, bodyOption(body))
		opts = append(opts, syntax.WithChildren(b.children(body, scopeBody)...))
	}
	return syntax.NewNode(syntax.KindMethodInstance, start, end-start, opts...)
}

// signature renders a SourceKit style function name: ident(label:label:).
func (b *builder) signature(n *sitter.Node, ident string) string {
	var sb strings.Builder
	sb.WriteString(ident)
	sb.WriteByte('(')
	for i := 0; i < int(n.NamedChildCount()); i++ {
		param := n.NamedChild(i)
		if param.Type() != "parameter" {
			continue
		}
		label := param.ChildByFieldName("external_name")
		if label == nil {
			label = param.ChildByFieldName("name")
		}
		if label != nil {
			sb.WriteString(b.text(label))
		} else {
			sb.WriteByte('_')
		}
		sb.WriteByte(':')
	}
	sb.WriteByte(')')
	return sb.String()
}

// hasModifier reports whether keyword appears among the modifiers written
// before the declaration keyword of n.
func (b *builder) hasModifier(n *sitter.Node, keyword string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case "func", "var", "let", "value_binding_pattern":
			return false
		case "attribute":
			continue
		}
		for _, word := range strings.Fields(b.text(child)) {
			if word == keyword {
				return true
			}
		}
	}
	return false
}

func (b *builder) properties(n *sitter.Node, sc scope) []*syntax.Node {
	if sc != scopeType {
		// local variables only matter for the calls in their initializers
		return b.children(n, sc)
	}
	kind := syntax.KindVarInstance
	if b.hasModifier(n, "static") || b.hasModifier(n, "class") {
		kind = syntax.KindVarType
	}
	start, end := span(n)

	type pending struct {
		name     *sitter.Node
		body     *sitter.Node
		children []*syntax.Node
	}
	var props []*pending
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "pattern":
			props = append(props, &pending{name: child})
			continue
		case "modifiers", "value_binding_pattern", "type_annotation":
			continue
		}
		if len(props) == 0 {
			continue
		}
		cur := props[len(props)-1]
		switch child.Type() {
		case "computed_property", "willset_didset_block":
			cur.body = child
		default:
			cur.children = append(cur.children, b.convert(child, scopeBody)...)
		}
	}

	out := make([]*syntax.Node, 0, len(props))
	for _, p := range props {
		ident := firstOfType(p.name, "simple_identifier")
		if ident == nil {
			ident = p.name
		}
		opts := []syntax.NodeOption{syntax.WithName(b.text(ident), int(ident.StartByte()))}
		if p.body != nil {
			opts = append(opts, bodyOption(p.body))
		}
		if len(p.children) > 0 {
			opts = append(opts, syntax.WithChildren(p.children...))
		}
		out = append(out, syntax.NewNode(kind, start, end-start, opts...))
	}
	return out
}

func (b *builder) call(n *sitter.Node) *syntax.Node {
	start, end := span(n)
	var opts []syntax.NodeOption
	var children []*syntax.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if i == 0 && child.Type() != "call_suffix" {
			opts = append(opts, syntax.WithName(compact(b.text(child)), int(child.StartByte())))
			if child.Type() != "simple_identifier" && child.Type() != "navigation_expression" {
				children = append(children, b.convert(child, scopeBody)...)
			} else {
				children = append(children, b.children(child, scopeBody)...)
			}
			continue
		}
		children = append(children, b.convert(child, scopeBody)...)
	}
	if len(children) > 0 {
		opts = append(opts, syntax.WithChildren(children...))
	}
	return syntax.NewNode(syntax.KindCall, start, end-start, opts...)
}

// classify records comment and string literal spans in document order.
func (b *builder) classify(n *sitter.Node) {
	typ := n.Type()
	switch {
	case typ == "comment" || typ == "multiline_comment":
		kind := syntax.TokenComment
		text := b.text(n)
		if strings.HasPrefix(text, "///") || strings.HasPrefix(text, "/**") {
			kind = syntax.TokenDocComment
		}
		b.tokens = append(b.tokens, syntax.Token{Kind: kind, Span: spanOf(n)})
		return
	case isStringLiteral(typ):
		b.tokens = append(b.tokens, syntax.Token{Kind: syntax.TokenString, Span: spanOf(n)})
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		b.classify(n.Child(i))
	}
}

func isStringLiteral(typ string) bool {
	switch typ {
	case "line_string_literal", "multi_line_string_literal", "raw_string_literal":
		return true
	}
	return false
}

func firstOfType(n *sitter.Node, typ string) *sitter.Node {
	if n.Type() == typ {
		return n
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if found := firstOfType(n.NamedChild(i), typ); found != nil {
			return found
		}
	}
	return nil
}

// bodyOption records the inside of a braced block, excluding the braces.
func bodyOption(block *sitter.Node) syntax.NodeOption {
	start, end := span(block)
	if end-start < 2 {
		return syntax.WithBody(start, 0)
	}
	return syntax.WithBody(start+1, end-start-2)
}

func span(n *sitter.Node) (int, int) {
	return int(n.StartByte()), int(n.EndByte())
}

func spanOf(n *sitter.Node) syntax.Span {
	start, end := span(n)
	return syntax.Span{Offset: start, Length: end - start}
}

// compact removes whitespace, so that "super . setUp" names the same
// callee as "super.setUp".
func compact(s string) string {
	return strings.Join(strings.Fields(s), "")
}
