package prompts

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// catalogFile is the on-disk layout of a prompt catalog.
type catalogFile struct {
	Prompts []Spec `yaml:"prompts"`
}

// LoadFile reads a YAML prompt catalog. The catalog is decoded but not
// validated; pass the result to New or Validate.
func LoadFile(path string) ([]Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt catalog %q: %w", path, err)
	}

	specs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt catalog %q: %w", path, err)
	}
	return specs, nil
}

// Parse decodes a YAML prompt catalog. Unknown fields are rejected.
//
//	prompts:
//	  - id: listing-autofill.v2
//	    version: "2"
//	    system: |
//	      You write marketplace listings from product photos.
//	    output_schema_ref: listing-autofill@1
//	    rollout_status: active
func Parse(data []byte) ([]Spec, error) {
	var file catalogFile

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	return file.Prompts, nil
}

// Marshal encodes specs in the catalog file layout.
func Marshal(specs []Spec) ([]byte, error) {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(catalogFile{Prompts: specs}); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
