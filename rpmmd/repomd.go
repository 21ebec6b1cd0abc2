// Package rpmmd holds the wire-format document types for RPM repository
// metadata: the repomd.xml index, primary.xml package listings,
// updateinfo.xml advisories, and modules.yaml module definitions. These
// are plain decode targets for encoding/xml and gopkg.in/yaml.v3 — no
// behavior lives here beyond the DecodeModuleMD/DecodeDefaults methods
// that resolve a modules.yaml document's payload once its kind is known.
package rpmmd

import "encoding/xml"

// RepoMD is the root of repomd.xml: an index of the other metadata files
// that make up a repository, keyed by Type.
type RepoMD struct {
	XMLName  xml.Name       `xml:"repomd"`
	Revision string         `xml:"revision"`
	Data     []RepoMDRecord `xml:"data"`
}

// Type enumerates the metadata kinds a repomd.xml <data type="..."> entry
// can name. Type holds the attribute's raw text, so a type with no
// constant below (for example a *_zck variant) still decodes, as its own
// string value, rather than failing the whole document; TypeUnknown is
// the value of an entry with no type attribute.
type Type string

const (
	TypePrimary        Type = "primary"
	TypeFilelists      Type = "filelists"
	TypeOther          Type = "other"
	TypeUpdateInfo     Type = "updateinfo"
	TypeModules        Type = "modules"
	TypeGroup          Type = "group"
	TypeGroupGz        Type = "group_gz"
	TypePrestoDelta    Type = "prestodelta"
	TypeUnknown        Type = ""
)

// RepoMDRecord describes one metadata file referenced from repomd.xml:
// its type, where to fetch it relative to the repository root, and the
// checksums needed to verify the download.
type RepoMDRecord struct {
	Type         Type     `xml:"type,attr"`
	Checksum     Checksum `xml:"checksum"`
	OpenChecksum Checksum `xml:"open-checksum"`
	Location     Location `xml:"location"`
	Timestamp    int64    `xml:"timestamp"`
	Size         int64    `xml:"size"`
	OpenSize     int64    `xml:"open-size"`
}

// Checksum is a <checksum type="sha256">deadbeef...</checksum>-shaped
// element, used for both the compressed and decompressed digest.
type Checksum struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

// Location is a repodata <location href="..."/> element: a path relative
// to the repository's base URL.
type Location struct {
	Href string `xml:"href,attr"`
}
