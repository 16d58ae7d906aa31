package tileset

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/ostracod-imaging/ostracod/ostracod"
)

// Validator checks extras metadata payloads against a JSON Schema.  Compile
// the schema once and reuse the validator across tiles.
type Validator struct {
	compiledSchema *jsonschema.Schema
}

// NewValidator compiles the given JSON Schema document.
func NewValidator(schemaData []byte) (*Validator, error) {
	sch, err := jsonschema.CompileString("schema.json", string(schemaData))
	if err != nil {
		return nil, fmt.Errorf("can't compile metadata schema: %v", err)
	}
	return &Validator{compiledSchema: sch}, nil
}

// ValidateExtras checks one extras payload against the schema.  The payload
// is normalized through JSON so Go-native values validate the way their
// JSON forms would.
func (v *Validator) ValidateExtras(extras map[string]interface{}) error {
	data, err := json.Marshal(extras)
	if err != nil {
		return fmt.Errorf("extras not JSON-encodable: %v", err)
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	return v.compiledSchema.Validate(doc)
}

// ValidateTile checks the extras registered under one key.
func (v *Validator) ValidateTile(m *Metadata, key ostracod.TileKey) error {
	extras, err := m.Get(key)
	if err != nil {
		return err
	}
	if err := v.ValidateExtras(extras); err != nil {
		return fmt.Errorf("tile %s: %v", key, err)
	}
	return nil
}

// ValidateAll checks the extras of every tile registered in the metadata.
func (v *Validator) ValidateAll(m *Metadata) error {
	for key, extras := range m.tileExtras {
		if err := v.ValidateExtras(extras); err != nil {
			return fmt.Errorf("tile %s: %v", key, err)
		}
	}
	return nil
}
