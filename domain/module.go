package domain

import "github.com/google/uuid"

// ModuleAttrs is a module's natural key within one repository: its name
// and default stream declaration are per-repository, since two
// repositories can declare different default streams for a module of
// the same name.
type ModuleAttrs struct {
	RepoID uuid.UUID
	Name   string
	Stream string
}

// Module is one module-defaults declaration: which stream of a named
// module a repository considers the default, and which profile of that
// stream is installed by default per stream name.
type Module struct {
	ID              uuid.UUID
	RepoID          uuid.UUID
	Name            string
	Stream          string
	DefaultProfiles map[string][]string
}

// StreamAttrs is a module stream's natural key: repository, module name,
// stream, build version and context together identify one published
// build of a module stream.
type StreamAttrs struct {
	RepoID  uuid.UUID
	Name    string
	Stream  string
	Version uint64
	Context string
}

// ModuleStream is one published build of a module stream: the RPM
// components and profiles that make it up.
type ModuleStream struct {
	ID       uuid.UUID
	RepoID   uuid.UUID
	Name     string
	Stream   string
	Version  uint64
	Context  string
	Arch     string
	Profiles map[string][]string
	Rpms     []string
}
