package ostracod

import (
	"bytes"
	"strings"
	"testing"
)

func TestTileKeyEquality(t *testing.T) {
	a, err := NewTileKey(3, 1, 7)
	if err != nil {
		t.Fatalf("Error creating tile key: %v\n", err)
	}
	b, err := NewTileKey(3, 1, 7)
	if err != nil {
		t.Fatalf("Error creating tile key: %v\n", err)
	}
	if a != b {
		t.Errorf("Keys with equal indices should be equal: %s vs %s\n", a, b)
	}
	for _, other := range []TileKey{
		mustKey(t, 4, 1, 7),
		mustKey(t, 3, 2, 7),
		mustKey(t, 3, 1, 8),
		mustKey(t, 0, 0, 0),
	} {
		if a == other {
			t.Errorf("Key %s should not equal %s\n", a, other)
		}
	}

	// Equal keys must be interchangeable as map keys.
	m := map[TileKey]string{a: "payload"}
	if got, found := m[b]; !found || got != "payload" {
		t.Errorf("Equal key did not retrieve map entry keyed by its twin\n")
	}
}

func TestTileKeyHash(t *testing.T) {
	a := mustKey(t, 12, 3, 40)
	b := mustKey(t, 12, 3, 40)
	const n = 97
	if a.Hash(n) != b.Hash(n) {
		t.Errorf("Equal keys hashed differently: %d vs %d\n", a.Hash(n), b.Hash(n))
	}
	if h := a.Hash(n); h < 0 || h >= n {
		t.Errorf("Hash %d outside of [0, %d)\n", h, n)
	}

	// An XOR of the three fields would collide for any permutation of the
	// same indices.  The byte-codec hash should separate at least some of
	// these permuted keys.
	perms := []TileKey{
		mustKey(t, 12, 3, 40),
		mustKey(t, 12, 40, 3),
		mustKey(t, 3, 12, 40),
		mustKey(t, 3, 40, 12),
		mustKey(t, 40, 12, 3),
		mustKey(t, 40, 3, 12),
	}
	distinct := make(map[int]struct{})
	for _, key := range perms {
		distinct[key.Hash(1 << 20)] = struct{}{}
	}
	if len(distinct) < 2 {
		t.Errorf("Permuted keys all hashed to the same value\n")
	}
}

func TestTileKeyValidation(t *testing.T) {
	for _, bad := range [][3]int{{-1, 0, 0}, {0, -1, 0}, {0, 0, -1}} {
		if _, err := NewTileKey(bad[0], bad[1], bad[2]); err == nil {
			t.Errorf("Expected error creating key from %v\n", bad)
		}
	}
	if _, err := NewTileKey(0, 0, 0); err != nil {
		t.Errorf("Unexpected error creating zero key: %v\n", err)
	}
}

func TestTileKeyBytes(t *testing.T) {
	key := mustKey(t, 2, 11, 5)
	b := key.Bytes()
	if len(b) != TileKeySize {
		t.Fatalf("Expected %d bytes for key encoding, got %d\n", TileKeySize, len(b))
	}
	key2, err := TileKeyFromBytes(b)
	if err != nil {
		t.Fatalf("Error decoding key bytes: %v\n", err)
	}
	if key != key2 {
		t.Errorf("Key did not survive byte round-trip: %s vs %s\n", key, key2)
	}
	if _, err := TileKeyFromBytes(b[:TileKeySize-1]); err == nil {
		t.Errorf("Expected error decoding truncated key bytes\n")
	}
}

// Keys ascending in (round, ch, z) order must yield lexicographically
// ascending byte strings.
func TestTileKeyBytesOrdering(t *testing.T) {
	var last []byte
	var lastKey TileKey
	for _, indices := range [][3]int{
		{0, 0, 0}, {0, 0, 9}, {0, 3, 0}, {1, 0, 0}, {1, 0, 255}, {1, 2, 0}, {2, 0, 0},
	} {
		key := mustKey(t, indices[0], indices[1], indices[2])
		b := key.Bytes()
		if last != nil && bytes.Compare(last, b) >= 0 {
			t.Errorf("%s -> %s yields non-ascending binary: %x >= %x\n", lastKey, key, last, b)
		}
		last = b
		lastKey = key
	}
}

func TestTileKeyString(t *testing.T) {
	s := mustKey(t, 1, 2, 3).String()
	for _, want := range []string{"round: 1", "ch: 2", "z: 3"} {
		if !strings.Contains(s, want) {
			t.Errorf("Key string %q missing %q\n", s, want)
		}
	}
}

func mustKey(t *testing.T, round, ch, z int) TileKey {
	t.Helper()
	key, err := NewTileKey(round, ch, z)
	if err != nil {
		t.Fatalf("Error creating tile key (%d, %d, %d): %v\n", round, ch, z, err)
	}
	return key
}
