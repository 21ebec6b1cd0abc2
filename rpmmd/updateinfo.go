package rpmmd

import "encoding/xml"

// UpdateInfo is the root of updateinfo.xml: the set of advisories
// (security/bugfix/enhancement updates) published against a repository.
type UpdateInfo struct {
	XMLName xml.Name `xml:"updates"`
	Updates []Update `xml:"update"`
}

// Update is one advisory: an ID, a type (security, bugfix, enhancement),
// descriptive text, and the set of package/module builds it covers.
type Update struct {
	Type        string      `xml:"type,attr"`
	ID          string      `xml:"id"`
	Title       string      `xml:"title"`
	Release     string      `xml:"release"`
	Severity    string      `xml:"severity"`
	Issued      Date        `xml:"issued"`
	Updated     Date        `xml:"updated"`
	Description string      `xml:"description"`
	References  []Reference `xml:"references>reference"`
	PkgList     []PkgList   `xml:"pkglist>collection"`
}

// Date is updateinfo.xml's <issued date="..."/>-shaped timestamp: a
// freeform date string, not parsed here since its format varies across
// repository generators.
type Date struct {
	Date string `xml:"date,attr"`
}

// Reference is one <reference> pointing at an external tracker (a CVE, a
// bug, a vendor advisory).
type Reference struct {
	Href  string `xml:"href,attr"`
	ID    string `xml:"id,attr"`
	Type  string `xml:"type,attr"`
	Title string `xml:"title,attr"`
}

// PkgList is one <collection> of builds an advisory applies to, together
// with the module context those builds were built against, if any.
type PkgList struct {
	Short   string         `xml:"short,attr"`
	Module  *UpdateModule  `xml:"module"`
	Package []UpdatePkg    `xml:"package"`
}

// UpdateModule identifies the module stream context a pkglist collection
// applies to.
type UpdateModule struct {
	Name    string `xml:"name,attr"`
	Stream  string `xml:"stream,attr"`
	Version string `xml:"version,attr"`
	Context string `xml:"context,attr"`
	Arch    string `xml:"arch,attr"`
}

// UpdatePkg is one package build named inside an advisory's pkglist.
type UpdatePkg struct {
	Name     string `xml:"name,attr"`
	Epoch    string `xml:"epoch,attr"`
	Version  string `xml:"version,attr"`
	Release  string `xml:"release,attr"`
	Arch     string `xml:"arch,attr"`
	Filename string `xml:"filename"`
}
