package ingest

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempCSV(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "moduli.csv")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write temp csv: %v", err)
	}
	return path
}

func TestLoadModuliHappyPath(t *testing.T) {
	path := writeTempCSV(t, "1,ignored,91\n2,ignored,143\n3,ignored,221\n")

	ids, moduli, err := LoadModuli(path)
	if err != nil {
		t.Fatalf("LoadModuli: %v", err)
	}
	if len(ids) != 3 || len(moduli) != 3 {
		t.Fatalf("got %d ids, %d moduli, want 3 and 3", len(ids), len(moduli))
	}
	wantIDs := []int64{1, 2, 3}
	for i, id := range wantIDs {
		if ids[i] != id {
			t.Errorf("ids[%d] = %d, want %d", i, ids[i], id)
		}
	}
	if moduli[0].Int64() != 91 {
		t.Errorf("moduli[0] = %s, want 91", moduli[0])
	}
}

func TestLoadModuliWrongColumnCount(t *testing.T) {
	path := writeTempCSV(t, "1,ignored\n")

	_, _, err := LoadModuli(path)
	if err == nil {
		t.Fatal("expected an error for a row with too few columns")
	}
}

func TestLoadModuliNonNumericID(t *testing.T) {
	path := writeTempCSV(t, "not-an-id,ignored,91\n")

	_, _, err := LoadModuli(path)
	if err == nil {
		t.Fatal("expected an error for a non-numeric id")
	}
}

func TestLoadModuliNonNumericModulus(t *testing.T) {
	path := writeTempCSV(t, "1,ignored,not-a-number\n")

	_, _, err := LoadModuli(path)
	if err == nil {
		t.Fatal("expected an error for a non-numeric modulus")
	}
}

func TestLoadModuliZeroModulus(t *testing.T) {
	path := writeTempCSV(t, "1,ignored,0\n")

	_, _, err := LoadModuli(path)
	if err == nil {
		t.Fatal("expected an error for a zero modulus")
	}
}

func TestLoadModuliMissingFile(t *testing.T) {
	_, _, err := LoadModuli(filepath.Join(t.TempDir(), "does-not-exist.csv"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
