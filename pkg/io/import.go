package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/nodegroup/pkg/errors"
	"github.com/matzehuels/nodegroup/pkg/ident"
)

// Format names an on-disk pair encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// FormatFor returns the pair format implied by a file name's extension.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".csv":
		return FormatCSV
	}
	return FormatText
}

type pairList struct {
	Pairs []string `json:"pairs"`
}

// ReadPairs decodes canonical pair lines from r.
// Blank lines and lines whose first non-space character is '#' are skipped;
// surrounding whitespace is trimmed. ReadPairs does not close r.
func ReadPairs(r io.Reader) ([]ident.Pair, error) {
	var pairs []ident.Pair
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		p, err := ident.ParsePair(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		pairs = append(pairs, p)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return pairs, nil
}

// ReadPairsJSON decodes a {"pairs": [...]} document from r.
// ReadPairsJSON does not close r.
func ReadPairsJSON(r io.Reader) ([]ident.Pair, error) {
	var data pairList
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	pairs := make([]ident.Pair, 0, len(data.Pairs))
	for i, s := range data.Pairs {
		p, err := ident.ParsePair(s)
		if err != nil {
			return nil, fmt.Errorf("pair %d: %w", i, err)
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}

// Read decodes pairs from r in the given format.
func Read(r io.Reader, format Format) ([]ident.Pair, error) {
	switch format {
	case FormatText:
		return ReadPairs(r)
	case FormatJSON:
		return ReadPairsJSON(r)
	case FormatCSV:
		return ReadTable(r)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown pair format %q", format)
}

// ImportPairs reads the pair file at path, choosing the decoder with
// [FormatFor]. A missing file is reported as ErrCodeFileNotFound.
func ImportPairs(path string) ([]ident.Pair, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "pair file %s not found", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, FormatFor(path))
}
