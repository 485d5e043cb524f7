package io

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/nodegroup/pkg/errors"
	"github.com/matzehuels/nodegroup/pkg/ident"
)

// ReadTable converts a CSV table into pairs.
//
// The header row names identifier types; every other row holds the names of
// identifiers that belong together. For each unordered pair of columns
// (c1, c2), in header order, and each row where both cells are non-empty, the
// pair (c1::cell1, c2::cell2) is emitted:
//
//	user,org,team
//	alice,acme,core
//	bob,acme,
//
// yields user::alice$org::acme, user::bob$org::acme, user::alice$team::core and
// org::acme$team::core. Cells are trimmed of surrounding whitespace.
//
// Header names must be unique and must not contain a separator. Cell values
// become names as they are, except that a cell containing "$" or a control
// character is rejected so the pairs survive a round trip through a pair
// file. ReadTable does not close r.
func ReadTable(r io.Reader) ([]ident.Pair, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("decode csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return TablePairs(records[0], records[1:])
}

// TablePairs is the conversion behind [ReadTable] for already-split rows.
// Rows shorter than the header are treated as having empty trailing cells;
// extra cells are an error.
func TablePairs(header []string, rows [][]string) ([]ident.Pair, error) {
	cols := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if err := errors.ValidateField(h); err != nil {
			return nil, fmt.Errorf("column %d: %w", i+1, err)
		}
		if seen[h] {
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate column %q", h)
		}
		seen[h] = true
		cols[i] = h
	}
	for i, row := range rows {
		if len(row) > len(cols) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "row %d has %d cells, header has %d", i+2, len(row), len(cols))
		}
		for c, v := range row {
			if err := errors.ValidateName(strings.TrimSpace(v)); err != nil {
				return nil, errors.New(errors.ErrCodeInvalidIdentifier, "row %d, column %d (%s): %s", i+2, c+1, cols[c], errors.UserMessage(err))
			}
		}
	}

	cell := func(row []string, c int) string {
		if c >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[c])
	}

	var pairs []ident.Pair
	for c1 := 0; c1 < len(cols); c1++ {
		for c2 := c1 + 1; c2 < len(cols); c2++ {
			for _, row := range rows {
				v1, v2 := cell(row, c1), cell(row, c2)
				if v1 == "" || v2 == "" {
					continue
				}
				pairs = append(pairs, ident.NewPair(ident.New(cols[c1], v1), ident.New(cols[c2], v2)))
			}
		}
	}
	return pairs, nil
}
