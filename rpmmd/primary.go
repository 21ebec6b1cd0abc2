package rpmmd

import "encoding/xml"

// Primary is the root of primary.xml: the full package listing for a
// repository. It is rarely decoded whole — xmlseed.Packages streams
// individual <package> elements out of it instead — but the type is kept
// for callers that do want it fully materialized (small repositories,
// tests).
type Primary struct {
	XMLName  xml.Name  `xml:"metadata"`
	Packages []Package `xml:"package"`
}

// Package is one <package type="rpm"> entry from primary.xml.
type Package struct {
	Type        string         `xml:"type,attr"`
	Name        string         `xml:"name"`
	Arch        string         `xml:"arch"`
	Version     PackageVersion `xml:"version"`
	Checksum    Checksum       `xml:"checksum"`
	Summary     string         `xml:"summary"`
	Description string         `xml:"description"`
	Packager    string         `xml:"packager"`
	URL         string         `xml:"url"`
	Time        PackageTime    `xml:"time"`
	Size        PackageSize    `xml:"size"`
	Location    Location       `xml:"location"`
	Format      Format         `xml:"format"`
}

// PackageVersion is an RPM NEVRA's version-bearing fields.
type PackageVersion struct {
	Epoch   string `xml:"epoch,attr"`
	Version string `xml:"ver,attr"`
	Release string `xml:"rel,attr"`
}

// PackageTime carries the two timestamps primary.xml records for a
// package: when its sources were last changed, and when it was built.
type PackageTime struct {
	File  int64 `xml:"file,attr"`
	Build int64 `xml:"build,attr"`
}

// PackageSize carries the package's installed, archive and download
// sizes in bytes.
type PackageSize struct {
	Package   int64 `xml:"package,attr"`
	Installed int64 `xml:"installed,attr"`
	Archive   int64 `xml:"archive,attr"`
}

// Format is the <format> block of a primary.xml package entry: RPM header
// fields plus the provides/requires/conflicts/obsoletes dependency lists.
// Of these, the sync pipeline stores only License; child elements with no
// field here are ignored by encoding/xml.
type Format struct {
	License     string       `xml:"http://linux.duke.edu/metadata/rpm license"`
	Vendor      string       `xml:"http://linux.duke.edu/metadata/rpm vendor"`
	Group       string       `xml:"http://linux.duke.edu/metadata/rpm group"`
	BuildHost   string       `xml:"http://linux.duke.edu/metadata/rpm buildhost"`
	SourceRPM   string       `xml:"http://linux.duke.edu/metadata/rpm sourcerpm"`
	Provides    []EntryRef   `xml:"http://linux.duke.edu/metadata/rpm provides>entry"`
	Requires    []EntryRef   `xml:"http://linux.duke.edu/metadata/rpm requires>entry"`
	Conflicts   []EntryRef   `xml:"http://linux.duke.edu/metadata/rpm conflicts>entry"`
	Obsoletes   []EntryRef   `xml:"http://linux.duke.edu/metadata/rpm obsoletes>entry"`
}

// EntryRef is one rpm:entry dependency reference (name plus an optional
// version comparison).
type EntryRef struct {
	Name  string `xml:"name,attr"`
	Flags string `xml:"flags,attr"`
	Epoch string `xml:"epoch,attr"`
	Ver   string `xml:"ver,attr"`
	Rel   string `xml:"rel,attr"`
}
