package curve

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Document is the serialized form of a curve asset.
//
//	interp: cubic
//	keys: [[0, 0], [0.5, 0.8], [2, 1]]
//
// Keys may also be written as {time: 0, value: 0} mappings.
type Document struct {
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`
	Interp Interp `json:"interp" yaml:"interp"`
	Keys   []Key  `json:"keys" yaml:"keys"`
}

// Build validates the document and returns the curve.
func (d Document) Build() (*KeyCurve, error) {
	return NewKeyCurve(d.Name, d.Interp, d.Keys...)
}

// DocumentOf returns the serializable form of c.
func DocumentOf(c *KeyCurve) Document {
	return Document{Name: c.name, Interp: c.interp, Keys: c.Keys()}
}

func (k *Key) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		var pair []float64
		if err := node.Decode(&pair); err != nil {
			return err
		}
		return k.fromPair(pair)
	}
	type plain Key
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*k = Key(p)
	return nil
}

func (k *Key) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err == nil {
		return k.fromPair(pair)
	}
	type plain Key
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*k = Key(p)
	return nil
}

func (k *Key) fromPair(pair []float64) error {
	if len(pair) != 2 {
		return fmt.Errorf("%w: key needs [time, value], got %d numbers", ErrInvalidKeys, len(pair))
	}
	k.Time, k.Value = pair[0], pair[1]
	return nil
}

func (c *KeyCurve) UnmarshalYAML(node *yaml.Node) error {
	var d Document
	if err := node.Decode(&d); err != nil {
		return err
	}
	built, err := d.Build()
	if err != nil {
		return err
	}
	*c = *built
	return nil
}

func (c *KeyCurve) MarshalYAML() (any, error) {
	return DocumentOf(c), nil
}

func (c *KeyCurve) UnmarshalJSON(data []byte) error {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	built, err := d.Build()
	if err != nil {
		return err
	}
	*c = *built
	return nil
}

func (c *KeyCurve) MarshalJSON() ([]byte, error) {
	return json.Marshal(DocumentOf(c))
}

// LoadYAML reads a single curve document.
func LoadYAML(r io.Reader) (*KeyCurve, error) {
	var d Document
	if err := yaml.NewDecoder(r).Decode(&d); err != nil {
		return nil, err
	}
	return d.Build()
}

// LoadJSON reads a single curve document.
func LoadJSON(r io.Reader) (*KeyCurve, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, err
	}
	return d.Build()
}
