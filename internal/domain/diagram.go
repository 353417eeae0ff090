package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// Default dimensions and counters for a fresh diagram.
const (
	DefaultEntityWidth = 220
	FirstEntityID      = 1
	FirstLinkNo        = 1
)

// ErrMalformedDiagram is returned when a persisted payload fails shape validation.
var ErrMalformedDiagram = errors.New("malformed diagram")

// Cardinality is the relationship marker drawn at one end of a link.
type Cardinality string

const (
	CardinalityOne     Cardinality = "one"
	CardinalityMany    Cardinality = "many"
	CardinalityZeroOne Cardinality = "zero-one"
)

// Valid reports whether c is one of the known markers.
func (c Cardinality) Valid() bool {
	switch c {
	case CardinalityOne, CardinalityMany, CardinalityZeroOne:
		return true
	}
	return false
}

// ParseCardinality converts a user string into a Cardinality.
func ParseCardinality(s string) (Cardinality, error) {
	c := Cardinality(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown cardinality %q (expected one, many or zero-one)", s)
	}
	return c, nil
}

// Field is one typed row of an entity.
type Field struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
	Meta string `json:"meta,omitempty" yaml:"meta,omitempty"` // e.g. PK, FK
}

// DefaultField is substituted whenever an entity would end up with no fields.
func DefaultField() Field {
	return Field{Name: "id", Type: "int", Meta: "PK"}
}

// Node is an entity box on the canvas.
type Node struct {
	ID     int     `json:"id" yaml:"id"` // 0 means unassigned
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height,omitempty" yaml:"height,omitempty"` // Derived every frame, never trusted on load
	Title  string  `json:"title" yaml:"title"`
	Fields []Field `json:"fields" yaml:"fields"`
}

// UnmarshalJSON accepts ids that are missing or not integral and leaves them
// unassigned so the store can repair them.
func (n *Node) UnmarshalJSON(data []byte) error {
	type nodeAlias Node
	var raw struct {
		nodeAlias
		ID any `json:"id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*n = Node(raw.nodeAlias)
	n.ID, _ = ParseJSONInt(raw.ID)
	return nil
}

// Link is a directed, numbered edge between two entities.
type Link struct {
	ID              string      `json:"id" yaml:"id"`
	From            int         `json:"from" yaml:"from"`
	To              int         `json:"to" yaml:"to"`
	Num             int         `json:"num,omitempty" yaml:"num,omitempty"` // 0 means unassigned
	FromCardinality Cardinality `json:"fromCardinality" yaml:"fromCardinality"`
	ToCardinality   Cardinality `json:"toCardinality" yaml:"toCardinality"`
}

// UnmarshalJSON tolerates a missing or non-integral num.
func (l *Link) UnmarshalJSON(data []byte) error {
	type linkAlias Link
	var raw struct {
		linkAlias
		Num any `json:"num"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*l = Link(raw.linkAlias)
	l.Num, _ = ParseJSONInt(raw.Num)
	return nil
}

// Diagram is the persisted load/save shape.
type Diagram struct {
	Nodes        []Node `json:"nodes" yaml:"nodes"`
	Links        []Link `json:"links" yaml:"links"`
	NextEntityID int    `json:"nextEntityId" yaml:"nextEntityId"`
	NextLinkNo   int    `json:"nextLinkNo" yaml:"nextLinkNo"`
}

// NewDiagram returns an empty diagram with both counters at 1.
func NewDiagram() *Diagram {
	return &Diagram{
		Nodes:        []Node{},
		Links:        []Link{},
		NextEntityID: FirstEntityID,
		NextLinkNo:   FirstLinkNo,
	}
}

// Clone creates a deep copy of the diagram
func (d *Diagram) Clone() *Diagram {
	if d == nil {
		return nil
	}

	clone := &Diagram{
		Nodes:        make([]Node, len(d.Nodes)),
		Links:        make([]Link, len(d.Links)),
		NextEntityID: d.NextEntityID,
		NextLinkNo:   d.NextLinkNo,
	}
	for i, n := range d.Nodes {
		n.Fields = append([]Field(nil), n.Fields...)
		clone.Nodes[i] = n
	}
	copy(clone.Links, d.Links)
	return clone
}

// DecodeDiagram validates and decodes a persisted payload. Anything that is
// not an object with array-valued nodes and links is rejected wholesale.
func DecodeDiagram(data []byte) (*Diagram, error) {
	var shape map[string]json.RawMessage
	if err := json.Unmarshal(data, &shape); err != nil || shape == nil {
		return nil, fmt.Errorf("%w: not an object", ErrMalformedDiagram)
	}

	d := NewDiagram()
	if err := decodeArray(shape["nodes"], &d.Nodes); err != nil {
		return nil, fmt.Errorf("%w: nodes: %v", ErrMalformedDiagram, err)
	}
	if err := decodeArray(shape["links"], &d.Links); err != nil {
		return nil, fmt.Errorf("%w: links: %v", ErrMalformedDiagram, err)
	}

	d.NextEntityID = decodeCounter(shape["nextEntityId"])
	d.NextLinkNo = decodeCounter(shape["nextLinkNo"])
	return d, nil
}

// EncodeDiagram serializes d in the persisted shape.
func EncodeDiagram(d *Diagram) ([]byte, error) {
	return json.Marshal(d)
}

func decodeArray[T any](raw json.RawMessage, out *[]T) error {
	if len(raw) == 0 || raw[0] != '[' {
		return errors.New("not an array")
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return err
	}
	if items == nil {
		items = []T{}
	}
	*out = items
	return nil
}

func decodeCounter(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 1
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 1
	}
	n, ok := ParseJSONInt(v)
	if !ok {
		return 1
	}
	return n
}

// ParseJSONInt converts a decoded JSON value into an int when it holds an
// integral number.
func ParseJSONInt(v any) (int, bool) {
	switch value := v.(type) {
	case int:
		return value, true
	case int64:
		return int(value), true
	case float64:
		if !math.IsInf(value, 0) && !math.IsNaN(value) && math.Trunc(value) == value {
			return int(value), true
		}
	case json.Number:
		if parsed, err := value.Int64(); err == nil {
			return int(parsed), true
		}
	}
	return 0, false
}
