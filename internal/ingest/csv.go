// Package ingest reads the input moduli table (C6 in SPEC_FULL.md): a CSV
// file of id, <ignored>, modulus_decimal rows.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/big"
	"os"
	"strconv"

	"github.com/batchgcd/batchgcd/internal/bgerrors"
	"github.com/batchgcd/batchgcd/internal/bigint"
)

// DefaultPath is the conventional location of the input table.
const DefaultPath = "data/moduli.csv"

// LoadModuli reads path and returns the ids and moduli in row order. Only
// columns 0 (id) and 2 (modulus_decimal) are consumed; column 1 is
// tolerated and ignored. A row with the wrong column count, a non-integer
// id, or a non-numeric modulus is an InputFormatError naming the row.
func LoadModuli(path string) (ids []int64, moduli []*big.Int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // validated per-row below, for a clearer error message

	row := 0
	for {
		record, readErr := r.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, nil, &bgerrors.InputFormatError{Row: row, Reason: readErr.Error()}
		}

		if len(record) != 3 {
			return nil, nil, &bgerrors.InputFormatError{
				Row:    row,
				Reason: fmt.Sprintf("expected 3 columns, got %d", len(record)),
			}
		}

		id, parseErr := strconv.ParseInt(record[0], 10, 64)
		if parseErr != nil {
			return nil, nil, &bgerrors.InputFormatError{
				Row:    row,
				Reason: fmt.Sprintf("column 0 (id) is not a valid integer: %v", parseErr),
			}
		}

		n, parseErr := bigint.ParseDecimal(record[2])
		if parseErr != nil {
			return nil, nil, &bgerrors.InputFormatError{
				Row:    row,
				Reason: fmt.Sprintf("column 2 (modulus) is not a valid base-10 integer: %v", parseErr),
			}
		}
		if n.Sign() == 0 {
			return nil, nil, &bgerrors.InvariantError{Reason: fmt.Sprintf("modulus at row %d is zero", row)}
		}

		ids = append(ids, id)
		moduli = append(moduli, n)
		row++
	}

	return ids, moduli, nil
}
