/*
	This file handles persistence of intensity tables to single-file,
	self-describing containers.
*/

package intensity

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"os"

	"github.com/DmitriyVTitov/size"
	"github.com/dustin/go-humanize"

	"github.com/ostracod-imaging/ostracod/ostracod"
)

// ErrCorruptFile is returned by Load when a file exists but is not a valid
// intensity table container, distinct from I/O errors for missing or
// unreadable paths.
var ErrCorruptFile = errors.New("not a valid intensity table file")

// magic marks the start of every saved intensity table.
var magic = []byte("OSTRITBL")

func init() {
	// Attribute values travel as interface{} within the gob payload.
	// Scalar kinds are pre-registered by gob; the composites are not.
	gob.Register(map[string]interface{}{})
	gob.Register([]interface{}{})
}

// tableDisk is the gob image of a Table inside the container payload.
type tableDisk struct {
	Dims   []string
	Shape  []int
	Values []float32
	Coords map[string]Coord
	Attrs  map[string]interface{}
}

// Save writes the table to a single file at the given path, overwriting any
// existing file.  The in-memory table is left untouched.
func Save(t *Table, path string) error {
	if t == nil {
		return fmt.Errorf("can't save nil intensity table")
	}
	disk := tableDisk{
		Dims:   t.dims,
		Shape:  t.shape,
		Values: t.values,
		Coords: t.coords,
		Attrs:  t.attrs,
	}
	data, err := ostracod.Serialize(disk, ostracod.Snappy, ostracod.CRC32)
	if err != nil {
		return fmt.Errorf("can't serialize intensity table: %v", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(magic); err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		return err
	}

	ostracod.Infof("Saved %s, %s in memory, to %s, %s on disk\n", t,
		humanize.Bytes(uint64(size.Of(t))), path, humanize.Bytes(uint64(len(magic)+len(data))))
	return nil
}

// Load reconstructs a table from a file written by Save.  A missing or
// unreadable path surfaces as the underlying I/O error; a present but
// malformed file surfaces as ErrCorruptFile.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) < len(magic) || !bytes.Equal(data[:len(magic)], magic) {
		return nil, fmt.Errorf("%w: %s: bad magic", ErrCorruptFile, path)
	}
	var disk tableDisk
	if err := ostracod.Deserialize(data[len(magic):], &disk); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptFile, path, err)
	}
	t, err := fromDisk(disk)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptFile, path, err)
	}

	ostracod.Infof("Loaded %s from %s, %s on disk\n", t, path, humanize.Bytes(uint64(len(data))))
	return t, nil
}

// fromDisk rebuilds a Table through the validating constructors so an
// internally inconsistent container is rejected rather than admitted.
func fromDisk(disk tableDisk) (*Table, error) {
	t, err := NewTableFromValues(disk.Dims, disk.Shape, disk.Values)
	if err != nil {
		return nil, err
	}
	if disk.Values == nil {
		// Gob elides empty slices; an empty table still needs a non-nil
		// zero-length value slice for its accessors.
		t.values = make([]float32, 0)
	}
	for name, c := range disk.Coords {
		if err := t.SetCoord(name, c); err != nil {
			return nil, err
		}
	}
	for name, value := range disk.Attrs {
		if err := t.SetAttr(name, value); err != nil {
			return nil, err
		}
	}
	return t, nil
}
