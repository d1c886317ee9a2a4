package shape

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON writes the rect with its "type" discriminator.
func (r *Rect) MarshalJSON() ([]byte, error) {
	type plain Rect
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*plain
	}{KindRect, (*plain)(r)})
}

// MarshalJSON writes the circle with its "type" discriminator.
func (c *Circle) MarshalJSON() ([]byte, error) {
	type plain Circle
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*plain
	}{KindCircle, (*plain)(c)})
}

// MarshalJSON writes the text with its "type" discriminator.
func (t *Text) MarshalJSON() ([]byte, error) {
	type plain Text
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*plain
	}{KindText, (*plain)(t)})
}

// MarshalJSON writes the polygon with its "type" discriminator. Area fields,
// when present, are inlined next to the polygon fields.
func (p *Polygon) MarshalJSON() ([]byte, error) {
	type plain Polygon
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*plain
	}{KindPolygon, (*plain)(p)})
}

// Decode builds a shape from one JSON object, dispatching on "type". Missing
// common fields take the NewBase defaults.
func Decode(data []byte) (Shape, error) {
	var head struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("failed to read shape type: %w", err)
	}

	var s Shape
	switch head.Type {
	case KindRect:
		s = &Rect{Base: NewBase("", 0, 0)}
	case KindCircle:
		s = &Circle{Base: NewBase("", 0, 0)}
	case KindText:
		s = &Text{Base: NewBase("", 0, 0)}
	case KindPolygon:
		s = &Polygon{Base: NewBase("", 0, 0)}
	default:
		return nil, fmt.Errorf("unknown shape type %q", head.Type)
	}

	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", head.Type, err)
	}
	if p, ok := s.(*Polygon); ok && p.Area != nil && p.Rows == nil {
		p.Rows = []Row{}
	}
	return s, nil
}

// MarshalList encodes a shape list as a JSON array.
func MarshalList(shapes []Shape) ([]byte, error) {
	if shapes == nil {
		shapes = []Shape{}
	}
	return json.Marshal(shapes)
}

// UnmarshalList decodes a JSON array written by MarshalList.
func UnmarshalList(data []byte) ([]Shape, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse shape list: %w", err)
	}
	shapes := make([]Shape, 0, len(raw))
	for i, r := range raw {
		s, err := Decode(r)
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
		shapes = append(shapes, s)
	}
	return shapes, nil
}

// List is a shape slice that marshals with type discriminators, for embedding
// in larger documents.
type List []Shape

// MarshalJSON implements json.Marshaler.
func (l List) MarshalJSON() ([]byte, error) {
	return MarshalList(l)
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *List) UnmarshalJSON(data []byte) error {
	shapes, err := UnmarshalList(data)
	if err != nil {
		return err
	}
	*l = shapes
	return nil
}
