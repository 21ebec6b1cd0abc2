// Package repolist loads a product repolist document — the JSON index
// naming every content set a downstream consumer cares about — and
// expands each content set's templated base URL into the concrete
// repository URLs SyncAll fans syncing out across.
package repolist

import (
	"encoding/json"
	"fmt"
)

// Repolist is the root of a repolist document: every product it
// describes, each publishing one or more content sets.
type Repolist struct {
	Products []Product `json:"products"`
}

// Product is one named product (a distribution, a platform release)
// and the content sets it publishes.
type Product struct {
	Name        string                `json:"product"`
	ContentSets map[string]ContentSet `json:"content_sets"`
}

// ContentSet names one repository's templated base URL plus the
// dimensions ($basearch, $releasever) it is published across. A
// dimension left empty contributes exactly one (unsubstituted) value to
// Expand's cartesian product rather than zero.
type ContentSet struct {
	BaseURL    OneOrMany `json:"baseurl"`
	BaseArch   []string  `json:"basearch,omitempty"`
	ReleaseVer []string  `json:"releasever,omitempty"`
}

// OneOrMany decodes a JSON field that is sometimes a single string and
// sometimes an array of strings into a single []string shape, the way
// repolist documents in the wild are inconsistent about whether a
// content set has one base URL or several.
type OneOrMany []string

func (o *OneOrMany) UnmarshalJSON(b []byte) error {
	var single string
	if err := json.Unmarshal(b, &single); err == nil {
		*o = []string{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*o = many
	return nil
}

func (o OneOrMany) MarshalJSON() ([]byte, error) {
	if len(o) == 1 {
		return json.Marshal(o[0])
	}
	return json.Marshal([]string(o))
}

// Parse decodes a repolist document.
func Parse(b []byte) (Repolist, error) {
	var rl Repolist
	if err := json.Unmarshal(b, &rl); err != nil {
		return Repolist{}, fmt.Errorf("repolist: parse document: %w", err)
	}
	return rl, nil
}
