package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/nodegroup/pkg/ident"
)

type groupList struct {
	Groups [][]ident.ID `json:"groups"`
}

// WriteGroupsJSON encodes groups as {"groups": [[...], ...]} with canonical
// identifier strings. A nil or empty grouping encodes as an empty array.
func WriteGroupsJSON(groups [][]ident.ID, w io.Writer) error {
	out := groupList{Groups: groups}
	if out.Groups == nil {
		out.Groups = [][]ident.ID{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadGroupsJSON decodes the output of [WriteGroupsJSON].
// ReadGroupsJSON does not close r.
func ReadGroupsJSON(r io.Reader) ([][]ident.ID, error) {
	var data groupList
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if data.Groups == nil {
		data.Groups = [][]ident.ID{}
	}
	return data.Groups, nil
}

// WriteGroupsText writes one group per line, members separated by ", ".
func WriteGroupsText(groups [][]ident.ID, w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, members := range groups {
		parts := make([]string, len(members))
		for i, id := range members {
			parts[i] = id.String()
		}
		if _, err := fmt.Fprintln(bw, strings.Join(parts, ", ")); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WritePairs writes pairs in the line-oriented text format read by
// [ReadPairs].
func WritePairs(pairs []ident.Pair, w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, p := range pairs {
		if _, err := fmt.Fprintln(bw, p.String()); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ExportPairs writes pairs to a text file at path.
// This is a convenience wrapper around [WritePairs] for file-based output.
func ExportPairs(pairs []ident.Pair, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WritePairs(pairs, f)
}
