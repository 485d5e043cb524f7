package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/nodegroup/pkg/pipeline"
)

// stdinBase names outputs derived from stdin input.
const stdinBase = "groups"

// isTextFormat reports whether a format is printable to a terminal.
func isTextFormat(format string) bool {
	switch format {
	case pipeline.FormatText, pipeline.FormatJSON, pipeline.FormatDOT:
		return true
	}
	return false
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .json, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		if input == "-" || input == "" {
			return stdinBase
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeArtifacts writes rendered artifacts in the order of formats.
//
// A single printable format without -o goes to stdout. A single format with
// -o goes to that exact path. Anything else is written next to the base path
// as base.<format>, one file per format.
func writeArtifacts(stdout io.Writer, artifacts map[string][]byte, formats []string, output, input string) error {
	if len(formats) == 1 {
		format := formats[0]
		data := artifacts[format]
		switch {
		case output == "-" || (output == "" && isTextFormat(format)):
			_, err := stdout.Write(data)
			return err
		case output != "":
			return writeFile(output, data)
		}
	}

	base := basePath(output, input)
	for _, format := range formats {
		path := fmt.Sprintf("%s.%s", base, format)
		if err := writeFile(path, artifacts[format]); err != nil {
			return err
		}
	}
	return nil
}

// writeFile writes data to path and reports it.
func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printFile(path)
	return nil
}
