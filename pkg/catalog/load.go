package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/qnkhuat/chesspuzzle/pkg/puzzle"
)

//go:embed puzzles.json
var bundled []byte

// Load decodes a JSON array of puzzles and builds a catalog from it.
func Load(r io.Reader, opts ...Option) (*Catalog, error) {
	var puzzles []puzzle.Puzzle
	if err := json.NewDecoder(r).Decode(&puzzles); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	return New(puzzles, opts...)
}

// LoadFile reads a catalog from a JSON file.
func LoadFile(path string, opts ...Option) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()
	c, err := Load(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Default is the catalog bundled with the binary.
func Default(opts ...Option) (*Catalog, error) {
	return Load(bytes.NewReader(bundled), opts...)
}

// Open returns the catalog at path, or the bundled one when path is empty.
func Open(path string, opts ...Option) (*Catalog, error) {
	if path == "" {
		return Default(opts...)
	}
	return LoadFile(path, opts...)
}
