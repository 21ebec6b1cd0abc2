package repolist

import "strings"

// Expand turns a content set's templated base URL(s) into the concrete
// set of repository URLs it names: the cartesian product of BaseURL,
// BaseArch and ReleaseVer, with $basearch and $releasever substituted in
// and duplicate results collapsed. An empty BaseArch or ReleaseVer
// contributes one pass-through value rather than eliminating the
// dimension, so a content set that never varies by architecture still
// yields its base URL unexpanded instead of yielding nothing.
func Expand(cs ContentSet) []string {
	arches := cs.BaseArch
	if len(arches) == 0 {
		arches = []string{""}
	}
	vers := cs.ReleaseVer
	if len(vers) == 0 {
		vers = []string{""}
	}

	seen := make(map[string]struct{})
	var urls []string
	for _, base := range cs.BaseURL {
		for _, arch := range arches {
			for _, ver := range vers {
				u := base
				if arch != "" {
					u = strings.ReplaceAll(u, "$basearch", arch)
				}
				if ver != "" {
					u = strings.ReplaceAll(u, "$releasever", ver)
				}
				if _, dup := seen[u]; dup {
					continue
				}
				seen[u] = struct{}{}
				urls = append(urls, u)
			}
		}
	}
	return urls
}
