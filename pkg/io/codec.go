package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/treematch/pkg/errors"
	"github.com/matzehuels/treematch/pkg/tree"
)

// Format is a document encoding.
type Format string

// Supported document formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the format from a file extension. Unknown extensions
// fail with INVALID_FORMAT.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported tree file extension %q (want .json, .yaml or .toml)", filepath.Ext(path))
}

// Read decodes a document in the given format from r and builds its tree.
// Read does not close r.
func Read(r io.Reader, f Format) (*tree.Tree, error) {
	var doc Document
	var err error
	switch f {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&doc)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&doc)
	case FormatTOML:
		_, err = toml.NewDecoder(r).Decode(&doc)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", f)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", f)
	}
	return doc.Tree()
}

// Write encodes t in the given format to w.
func Write(t *tree.Tree, w io.Writer, f Format) error {
	doc := FromTree(t)
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", f)
	}
	return nil
}

// Import reads the tree file at path, choosing the format by extension.
func Import(path string) (*tree.Tree, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()
	t, err := Read(file, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Export writes t to path, choosing the format by extension.
func Export(t *tree.Tree, path string) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()
	return Write(t, file, f)
}
