// Copyright © 2024 The XCTLint authors

package syntax

import (
	"slices"
	"strings"
)

// FindClasses returns the direct children of root that are class
// declarations inheriting from one of baseNames.
func FindClasses(root *Node, baseNames []string) []*Node {
	var out []*Node
	for _, child := range root.children {
		if child.kind != KindClass {
			continue
		}
		if slices.ContainsFunc(child.inherited, func(t string) bool {
			return slices.Contains(baseNames, t)
		}) {
			out = append(out, child)
		}
	}
	return out
}

// StoredProperties returns the instance properties of class that have no
// body. Computed and observed properties are excluded.
func StoredProperties(class *Node) []*Node {
	var out []*Node
	for _, child := range class.children {
		if child.kind == KindVarInstance && !child.hasBody {
			out = append(out, child)
		}
	}
	return out
}

// Methods returns the direct children of class whose kind is one of kinds
// and whose name is one of names.
func Methods(class *Node, names []string, kinds []Kind) []*Node {
	var out []*Node
	for _, child := range class.children {
		if !child.hasName {
			continue
		}
		if slices.Contains(kinds, child.kind) && slices.Contains(names, child.name) {
			out = append(out, child)
		}
	}
	return out
}

// Method returns the first instance method of class called name.
func Method(class *Node, name string) *Node {
	return firstChild(class, KindMethodInstance, name)
}

// ClassMethod returns the first class (type-level) method of class called
// name.
func ClassMethod(class *Node, name string) *Node {
	return firstChild(class, KindMethodClass, name)
}

// Call returns the first direct child of scope calling callee.
func Call(scope *Node, callee string) *Node {
	return firstChild(scope, KindCall, callee)
}

func firstChild(parent *Node, kind Kind, name string) *Node {
	if parent == nil {
		return nil
	}
	for _, child := range parent.children {
		if child.kind == kind && child.hasName && child.name == name {
			return child
		}
	}
	return nil
}

// SuperCallName returns the callee name of a call to the base
// implementation of method: the method name up to its parameter list,
// prefixed with "super.". A method named "setUp()" yields "super.setUp".
func SuperCallName(method *Node) (string, bool) {
	if method == nil || !method.hasName {
		return "", false
	}
	ident, _, _ := strings.Cut(method.name, "(")
	if ident == "" {
		return "", false
	}
	return "super." + ident, true
}
