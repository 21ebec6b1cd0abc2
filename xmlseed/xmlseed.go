// Package xmlseed streams one repeated element out of a large RPM
// metadata XML document — <package> out of primary.xml, <update> out of
// updateinfo.xml — without ever materializing the whole document. It
// walks the token stream looking for the element's start tag and hands
// each match to encoding/xml's own DecodeElement, so memory use stays
// proportional to a single element's subtree rather than the document.
package xmlseed

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/acksell/rpmscan/rpmmd"
)

// Each decodes every top-level-or-nested element named elementLocal out
// of r, in document order, invoking fn with each decoded value. Reading
// stops and the error is returned unchanged the moment fn returns a
// non-nil error, so a caller that only wants the first N matches can stop
// the whole scan by returning a sentinel error.
func Each[T any](r io.Reader, elementLocal string, fn func(T) error) error {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("xmlseed: read token: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != elementLocal {
			continue
		}
		var v T
		if err := dec.DecodeElement(&v, &start); err != nil {
			return fmt.Errorf("xmlseed: decode <%s>: %w", elementLocal, err)
		}
		if err := fn(v); err != nil {
			return err
		}
	}
}

// Packages streams each <package> element out of a primary.xml document.
func Packages(r io.Reader, fn func(rpmmd.Package) error) error {
	return Each[rpmmd.Package](r, "package", fn)
}

// Updates streams each <update> element out of an updateinfo.xml
// document.
func Updates(r io.Reader, fn func(rpmmd.Update) error) error {
	return Each[rpmmd.Update](r, "update", fn)
}
