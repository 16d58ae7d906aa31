/*
	Package tileset indexes the free-form extras metadata attached to a tile
	collection and to the individual tiles making up that collection.
*/
package tileset

import (
	"errors"
	"fmt"

	"github.com/ostracod-imaging/ostracod/ostracod"
)

var (
	// ErrTileNotFound is returned by Get when no tile was registered under
	// the queried key.
	ErrTileNotFound = errors.New("no tile registered under key")

	// ErrMissingIndex is returned during construction when a tile lacks a
	// required round or channel index.
	ErrMissingIndex = errors.New("tile missing required index")

	// ErrDuplicateKey is returned during strict construction when two tiles
	// map to the same (round, ch, z) key.
	ErrDuplicateKey = errors.New("duplicate tile key")
)

// Tile is the view of a single image plane needed to register its metadata.
// Implementations are owned by the upstream loader.
type Tile interface {
	// Indices returns the discrete dimension indices placing this tile
	// within the acquisition.  DimRound and DimCh are required.  DimZ is
	// optional and defaults to 0.
	Indices() map[ostracod.Dim]int

	// Extras returns the free-form metadata attached to this tile.
	Extras() map[string]interface{}
}

// TileSet is a collection of tiles plus collection-level metadata.
type TileSet interface {
	// Tiles returns every tile in the collection.
	Tiles() []Tile

	// Extras returns the free-form metadata attached to the collection.
	Extras() map[string]interface{}
}

// Option configures registry construction.
type Option func(*builder)

type builder struct {
	strict bool
}

// WithStrictKeys makes construction fail with ErrDuplicateKey if two tiles
// share a (round, ch, z) key.  The default lets the later tile win.
func WithStrictKeys() Option {
	return func(b *builder) {
		b.strict = true
	}
}

// Metadata retains the extras metadata from a TileSet and from each of the
// tiles making up that TileSet, addressable by TileKey.  A registry is built
// once and is read-only afterward, so concurrent reads need no locking.
type Metadata struct {
	tileExtras map[ostracod.TileKey]map[string]interface{}
	extras     map[string]interface{}
}

// NewMetadata builds a registry from a tile collection.  Any tile missing a
// round or channel index aborts the whole construction; no partially built
// registry is ever returned.
func NewMetadata(ts TileSet, opts ...Option) (*Metadata, error) {
	var b builder
	for _, opt := range opts {
		opt(&b)
	}

	tiles := ts.Tiles()
	tileExtras := make(map[ostracod.TileKey]map[string]interface{}, len(tiles))
	for i, tile := range tiles {
		indices := tile.Indices()
		round, found := indices[ostracod.DimRound]
		if !found {
			return nil, fmt.Errorf("tile %d: %w: %q", i, ErrMissingIndex, ostracod.DimRound)
		}
		ch, found := indices[ostracod.DimCh]
		if !found {
			return nil, fmt.Errorf("tile %d: %w: %q", i, ErrMissingIndex, ostracod.DimCh)
		}
		z := 0
		if zIndex, found := indices[ostracod.DimZ]; found {
			z = zIndex
		}
		key, err := ostracod.NewTileKey(round, ch, z)
		if err != nil {
			return nil, fmt.Errorf("tile %d: %v", i, err)
		}
		if _, found := tileExtras[key]; found {
			if b.strict {
				return nil, fmt.Errorf("%w: tile %d maps to already registered %s", ErrDuplicateKey, i, key)
			}
			ostracod.Debugf("Tile %d overwrites extras previously registered under %s\n", i, key)
		}
		tileExtras[key] = tile.Extras()
	}
	ostracod.Debugf("Registered extras metadata for %d tiles\n", len(tileExtras))

	return &Metadata{
		tileExtras: tileExtras,
		extras:     ts.Extras(),
	}, nil
}

// Get returns the extras metadata for the tile registered under the given
// key.  Only exact key matches succeed.
func (m *Metadata) Get(key ostracod.TileKey) (map[string]interface{}, error) {
	extras, found := m.tileExtras[key]
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrTileNotFound, key)
	}
	return extras, nil
}

// Keys returns the key of every registered tile.  Order is unspecified.
func (m *Metadata) Keys() []ostracod.TileKey {
	keys := make([]ostracod.TileKey, 0, len(m.tileExtras))
	for key := range m.tileExtras {
		keys = append(keys, key)
	}
	return keys
}

// Len returns the number of registered tiles.
func (m *Metadata) Len() int {
	return len(m.tileExtras)
}

// Extras returns the collection-level extras metadata captured at
// construction.  The returned map is the collection's own payload, not a
// copy.
func (m *Metadata) Extras() map[string]interface{} {
	return m.extras
}
