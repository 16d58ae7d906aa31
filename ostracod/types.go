/*
	This file defines the discrete imaging dimensions and the tile
	coordinate key used to address tiles throughout ostracod.
*/

package ostracod

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
)

// Dim identifies one of the discrete dimensions of an acquisition.
type Dim string

const (
	// DimRound is the imaging round (cycle) dimension.
	DimRound Dim = "r"

	// DimCh is the fluorescence channel dimension.
	DimCh Dim = "c"

	// DimZ is the depth plane dimension.
	DimZ Dim = "z"

	// DimX and DimY are the spatial pixel dimensions.  They appear as axis
	// names in derived datasets; tiles are addressed only by (round, ch, z).
	DimX Dim = "x"
	DimY Dim = "y"
)

// TileKeySize is the number of bytes in the byte encoding of a TileKey.
const TileKeySize = 12

// TileKey uniquely identifies a tile within an acquisition by its
// (round, channel, z plane) triple.  TileKeys are immutable values:
// keys built from equal triples compare equal with == and may be used
// directly as map keys.
type TileKey struct {
	round, ch, z uint32
}

// NewTileKey returns a TileKey over the given indices, which must all be
// non-negative.
func NewTileKey(round, ch, z int) (TileKey, error) {
	if round < 0 || ch < 0 || z < 0 {
		return TileKey{}, fmt.Errorf("tile key indices must be non-negative, got (round %d, ch %d, z %d)", round, ch, z)
	}
	return TileKey{uint32(round), uint32(ch), uint32(z)}, nil
}

// Round returns the imaging round index of this key.
func (k TileKey) Round() int {
	return int(k.round)
}

// Ch returns the channel index of this key.
func (k TileKey) Ch() int {
	return int(k.ch)
}

// Z returns the z plane index of this key.
func (k TileKey) Z() int {
	return int(k.z)
}

// Bytes returns a fixed-size encoding of this key.  Components are written
// big endian so keys ascending in (round, ch, z) order yield
// lexicographically ascending byte strings.
func (k TileKey) Bytes() []byte {
	buf := make([]byte, TileKeySize)
	binary.BigEndian.PutUint32(buf[0:4], k.round)
	binary.BigEndian.PutUint32(buf[4:8], k.ch)
	binary.BigEndian.PutUint32(buf[8:12], k.z)
	return buf
}

// TileKeyFromBytes returns the TileKey encoded at the start of the slice.
func TileKeyFromBytes(b []byte) (TileKey, error) {
	if len(b) < TileKeySize {
		return TileKey{}, fmt.Errorf("tile key encoding requires %d bytes, got %d", TileKeySize, len(b))
	}
	return TileKey{
		round: binary.BigEndian.Uint32(b[0:4]),
		ch:    binary.BigEndian.Uint32(b[4:8]),
		z:     binary.BigEndian.Uint32(b[8:12]),
	}, nil
}

// Hash provides a consistent mapping from a TileKey to an integer in [0, n).
// Equal keys always produce equal hash values.
func (k TileKey) Hash(n int) int {
	hash := fnv.New32()
	_, err := hash.Write(k.Bytes())
	if err != nil {
		Criticalf("Could not write to fnv hash in TileKey.Hash()\n")
		return 0
	}
	return int(hash.Sum32()) % n
}

func (k TileKey) String() string {
	return fmt.Sprintf("round: %d ch: %d z: %d", k.round, k.ch, k.z)
}
