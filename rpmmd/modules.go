package rpmmd

import "gopkg.in/yaml.v3"

// ModuleDocument is one YAML document out of a modules.yaml stream. Every
// document starts with the same envelope (document kind and format
// version); Data's shape depends on Document, so it is decoded into a raw
// yaml.Node here and resolved into a ModuleMDData or DefaultsData by
// DecodeModuleMD or DecodeDefaults once Document is known.
type ModuleDocument struct {
	Document string    `yaml:"document"`
	Version  int       `yaml:"version"`
	Data     yaml.Node `yaml:"data"`
}

// Chunk kinds a modules.yaml document can carry.
const (
	DocumentModuleMD  = "modulemd"
	DocumentDefaults  = "modulemd-defaults"
)

// DecodeModuleMD decodes d.Data as a module stream definition. Call only
// when d.Document == DocumentModuleMD.
func (d *ModuleDocument) DecodeModuleMD() (ModuleMDData, error) {
	var data ModuleMDData
	if err := d.Data.Decode(&data); err != nil {
		return ModuleMDData{}, err
	}
	return data, nil
}

// DecodeDefaults decodes d.Data as a module's default-stream declaration.
// Call only when d.Document == DocumentDefaults.
func (d *ModuleDocument) DecodeDefaults() (DefaultsData, error) {
	var data DefaultsData
	if err := d.Data.Decode(&data); err != nil {
		return DefaultsData{}, err
	}
	return data, nil
}

// ModuleMDData describes one module stream: its name/stream/version/
// context/arch identity, the RPM components that make it up, and the
// profiles that install subsets of those components.
type ModuleMDData struct {
	Name         string             `yaml:"name"`
	Stream       string             `yaml:"stream"`
	Version      uint64             `yaml:"version"`
	Context      string             `yaml:"context"`
	Arch         string             `yaml:"arch"`
	Summary      string             `yaml:"summary"`
	Description  string             `yaml:"description"`
	License      License            `yaml:"license"`
	Dependencies []Dependency       `yaml:"dependencies"`
	References   map[string]string  `yaml:"references"`
	Profiles     map[string]Profile `yaml:"profiles"`
	API          Rpms               `yaml:"api"`
	Filter       Rpms               `yaml:"filter"`
	Components   Components         `yaml:"components"`
	Artifacts    Rpms               `yaml:"artifacts"`
}

// License lists the SPDX-ish license short names covering the module
// itself and the content it ships.
type License struct {
	Module  []string `yaml:"module"`
	Content []string `yaml:"content"`
}

// Dependency is one { buildrequires: {...}, requires: {...} } entry: the
// other module streams this one was built against, and depends on at
// runtime, each keyed by module name to a list of acceptable streams.
type Dependency struct {
	BuildRequires map[string][]string `yaml:"buildrequires"`
	Requires      map[string][]string `yaml:"requires"`
}

// Profile is a named, installable subset of a module stream's RPMs.
type Profile struct {
	Description string   `yaml:"description"`
	Rpms        []string `yaml:"rpms"`
}

// Rpms wraps the handful of modulemd sections that are just a flat RPM
// name list under an "rpms" key (api, filter, artifacts).
type Rpms struct {
	Rpms []string `yaml:"rpms"`
}

// Components is the components.rpms section: the source packages that
// were built to produce this module stream's artifacts.
type Components struct {
	Rpms map[string]Component `yaml:"rpms"`
}

// Component describes one source RPM component of a module stream.
type Component struct {
	Rationale  string   `yaml:"rationale"`
	Repository string   `yaml:"repository"`
	Ref        string   `yaml:"ref"`
	Buildorder int      `yaml:"buildorder"`
	Arches     []string `yaml:"arches"`
	Multilib   []string `yaml:"multilib"`
}

// DefaultsData declares the default stream (and default profiles per
// stream) for a module name, independent of any one stream's own
// metadata.
type DefaultsData struct {
	Module   string              `yaml:"module"`
	Stream   string              `yaml:"stream"`
	Profiles map[string][]string `yaml:"profiles"`
}
