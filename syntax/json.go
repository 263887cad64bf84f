// Copyright © 2024 The XCTLint authors

package syntax

import "encoding/json"

// structure is the SourceKitten-style JSON shape of a node.
type structure struct {
	Kind           Kind            `json:"key.kind"`
	Name           *string         `json:"key.name,omitempty"`
	Offset         int             `json:"key.offset"`
	Length         int             `json:"key.length"`
	NameOffset     *int            `json:"key.nameoffset,omitempty"`
	BodyOffset     *int            `json:"key.bodyoffset,omitempty"`
	BodyLength     *int            `json:"key.bodylength,omitempty"`
	InheritedTypes []inheritedType `json:"key.inheritedtypes,omitempty"`
	Substructure   []*Node         `json:"key.substructure,omitempty"`
}

type inheritedType struct {
	Name string `json:"key.name"`
}

// MarshalJSON encodes the node and its subtree using SourceKitten
// structure keys.
func (n *Node) MarshalJSON() ([]byte, error) {
	s := structure{
		Kind:         n.kind,
		Offset:       n.offset,
		Length:       n.length,
		Substructure: n.children,
	}
	if n.hasName {
		name, off := n.name, n.nameOffset
		s.Name = &name
		s.NameOffset = &off
	}
	if n.hasBody {
		off, length := n.body.Offset, n.body.Length
		s.BodyOffset = &off
		s.BodyLength = &length
	}
	for _, t := range n.inherited {
		s.InheritedTypes = append(s.InheritedTypes, inheritedType{Name: t})
	}
	return json.Marshal(s)
}
