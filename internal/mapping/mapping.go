// Package mapping loads the file that groups raw transaction categories into overall categories.
//
// The file holds one entry per line in the form
//
//	Restaurants: Food
//	Paycheck: Income
//
// Both sides are trimmed. Blank lines are ignored; any other line that is not exactly one
// non-empty key and a value separated by a single colon is an error.
package mapping

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Veraticus/mintflow/internal/common"
	"github.com/Veraticus/mintflow/internal/model"
)

// DefaultPath is where the mapping file is looked up when none is configured.
const DefaultPath = "./data/transfer_dictionary.txt"

// LoadFile reads and parses the mapping file at path.
func LoadFile(path string) (model.CategoryMapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.CategoryMapping{}, fmt.Errorf("failed to open category mapping: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Parse(f, path)
}

// Parse reads mapping entries from r. name is used in error messages.
// A repeated key keeps its last value.
func Parse(r io.Reader, name string) (model.CategoryMapping, error) {
	entries := make(map[string]string)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Split(line, ":")
		if len(parts) != 2 {
			return model.CategoryMapping{}, &common.MappingFileError{Path: name, Line: lineNo, Text: line}
		}
		key := strings.TrimSpace(parts[0])
		if key == "" {
			return model.CategoryMapping{}, &common.MappingFileError{Path: name, Line: lineNo, Text: line}
		}
		entries[key] = strings.TrimSpace(parts[1])
	}
	if err := scanner.Err(); err != nil {
		return model.CategoryMapping{}, fmt.Errorf("failed to read category mapping %s: %w", name, err)
	}

	return model.NewCategoryMapping(entries), nil
}
