package manifest

import (
	"path/filepath"
	"testing"
)

func TestValidateAcceptsWellFormedFloorSizes(t *testing.T) {
	m := Manifest{FloorSizes: []int{7, 4, 2, 1}}
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if m.Levels() != 4 {
		t.Errorf("Levels() = %d, want 4", m.Levels())
	}
}

func TestValidateRejectsBadHalving(t *testing.T) {
	m := Manifest{FloorSizes: []int{7, 3, 2, 1}} // ceil(7/2) = 4, not 3
	if err := m.Validate(); err == nil {
		t.Fatal("expected Validate to reject a floor_sizes sequence that doesn't halve")
	}
}

func TestValidateRejectsMissingRoot(t *testing.T) {
	m := Manifest{FloorSizes: []int{7, 4, 2}} // doesn't end at 1
	if err := m.Validate(); err == nil {
		t.Fatal("expected Validate to reject a top level with more than one element")
	}
}

func TestValidateRejectsEmpty(t *testing.T) {
	m := Manifest{}
	if err := m.Validate(); err == nil {
		t.Fatal("expected Validate to reject an empty manifest")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest")
	want := Manifest{FloorSizes: []int{5, 3, 2, 1}}

	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.FloorSizes) != len(want.FloorSizes) {
		t.Fatalf("FloorSizes = %v, want %v", got.FloorSizes, want.FloorSizes)
	}
	for i := range want.FloorSizes {
		if got.FloorSizes[i] != want.FloorSizes[i] {
			t.Errorf("FloorSizes[%d] = %d, want %d", i, got.FloorSizes[i], want.FloorSizes[i])
		}
	}
}

func TestSaveLoadIDsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ids")
	want := []int64{10, 20, 30}

	if err := SaveIDs(path, want); err != nil {
		t.Fatalf("SaveIDs: %v", err)
	}
	got, err := LoadIDs(path)
	if err != nil {
		t.Fatalf("LoadIDs: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ids[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}
