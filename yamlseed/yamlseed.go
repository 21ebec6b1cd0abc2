// Package yamlseed streams the documents out of a modules.yaml file.
// modules.yaml is a multi-document YAML stream (document boundaries
// marked with "---"), one module stream or module-defaults declaration
// per document; gopkg.in/yaml.v3's Decoder already decodes one document
// per Decode call, so this package is a thin loop around it plus the
// envelope-then-payload two-step decode modules.yaml's discriminated
// union shape needs.
package yamlseed

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/acksell/rpmscan/rpmmd"
)

// Each decodes every document in r's YAML stream into its envelope
// (document kind, format version, raw data node) and invokes fn with
// each one. Callers that only care about one document kind should use
// Modules or Defaults instead.
func Each(r io.Reader, fn func(rpmmd.ModuleDocument) error) error {
	dec := yaml.NewDecoder(r)
	for {
		var doc rpmmd.ModuleDocument
		err := dec.Decode(&doc)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("yamlseed: decode document: %w", err)
		}
		if err := fn(doc); err != nil {
			return err
		}
	}
}

// Modules streams every modulemd document's decoded ModuleMDData,
// skipping modulemd-defaults documents.
func Modules(r io.Reader, fn func(rpmmd.ModuleMDData) error) error {
	return Each(r, func(doc rpmmd.ModuleDocument) error {
		if doc.Document != rpmmd.DocumentModuleMD {
			return nil
		}
		data, err := doc.DecodeModuleMD()
		if err != nil {
			return fmt.Errorf("yamlseed: decode modulemd payload: %w", err)
		}
		return fn(data)
	})
}

// Defaults streams every modulemd-defaults document's decoded
// DefaultsData, skipping modulemd documents.
func Defaults(r io.Reader, fn func(rpmmd.DefaultsData) error) error {
	return Each(r, func(doc rpmmd.ModuleDocument) error {
		if doc.Document != rpmmd.DocumentDefaults {
			return nil
		}
		data, err := doc.DecodeDefaults()
		if err != nil {
			return fmt.Errorf("yamlseed: decode defaults payload: %w", err)
		}
		return fn(data)
	})
}
