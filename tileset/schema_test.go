package tileset

import (
	"strings"
	"testing"

	"github.com/ostracod-imaging/ostracod/ostracod"
)

const tileExtrasSchema = `{
	"type": "object",
	"required": ["fov"],
	"properties": {
		"fov": {"type": "string"},
		"exposure_ms": {"type": "number", "minimum": 0}
	}
}`

func TestValidatorExtras(t *testing.T) {
	v, err := NewValidator([]byte(tileExtrasSchema))
	if err != nil {
		t.Fatalf("Error compiling schema: %v\n", err)
	}

	good := map[string]interface{}{"fov": "fov_000", "exposure_ms": 50}
	if err := v.ValidateExtras(good); err != nil {
		t.Errorf("Expected valid extras to pass: %v\n", err)
	}

	missingFov := map[string]interface{}{"exposure_ms": 50}
	if err := v.ValidateExtras(missingFov); err == nil {
		t.Errorf("Expected extras missing required field to fail\n")
	}

	negativeExposure := map[string]interface{}{"fov": "fov_000", "exposure_ms": -3}
	if err := v.ValidateExtras(negativeExposure); err == nil {
		t.Errorf("Expected extras with negative exposure to fail\n")
	}
}

func TestValidatorRegistry(t *testing.T) {
	v, err := NewValidator([]byte(tileExtrasSchema))
	if err != nil {
		t.Fatalf("Error compiling schema: %v\n", err)
	}

	goodTile := makeTile(0, 0, 0, "fov_000")
	badTile := &testTile{
		indices: map[ostracod.Dim]int{ostracod.DimRound: 0, ostracod.DimCh: 1},
		extras:  map[string]interface{}{"exposure_ms": 50},
	}
	m, err := NewMetadata(&testTileSet{tiles: []Tile{goodTile, badTile}})
	if err != nil {
		t.Fatalf("Error building metadata registry: %v\n", err)
	}

	goodKey, _ := ostracod.NewTileKey(0, 0, 0)
	if err := v.ValidateTile(m, goodKey); err != nil {
		t.Errorf("Expected conforming tile to pass: %v\n", err)
	}
	badKey, _ := ostracod.NewTileKey(0, 1, 0)
	if err := v.ValidateTile(m, badKey); err == nil {
		t.Errorf("Expected non-conforming tile to fail\n")
	}
	err = v.ValidateAll(m)
	if err == nil {
		t.Fatalf("Expected ValidateAll to catch non-conforming tile\n")
	}
	if !strings.Contains(err.Error(), badKey.String()) {
		t.Errorf("Expected validation error to name offending tile, got: %v\n", err)
	}
}

func TestValidatorBadSchema(t *testing.T) {
	if _, err := NewValidator([]byte(`{"type": 42}`)); err == nil {
		t.Errorf("Expected error compiling malformed schema\n")
	}
}
