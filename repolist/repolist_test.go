package repolist_test

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/acksell/rpmscan/repolist"
)

func TestParseAcceptsSingleAndMultipleBaseURLs(t *testing.T) {
	doc := []byte(`{
		"products": [
			{
				"product": "Example Linux 10",
				"content_sets": {
					"baseos": {"baseurl": "https://cdn.example/10/$basearch/baseos/os", "basearch": ["x86_64", "aarch64"]},
					"appstream": {"baseurl": ["https://cdn.example/10/appstream/os", "https://mirror.example/10/appstream/os"]}
				}
			}
		]
	}`)

	rl, err := repolist.Parse(doc)
	require.NoError(t, err)
	require.Len(t, rl.Products, 1)

	baseos := rl.Products[0].ContentSets["baseos"]
	require.Equal(t, repolist.OneOrMany{"https://cdn.example/10/$basearch/baseos/os"}, baseos.BaseURL)

	appstream := rl.Products[0].ContentSets["appstream"]
	require.Len(t, appstream.BaseURL, 2)
}

func TestExpandSubstitutesDimensionsAndDedupes(t *testing.T) {
	cs := repolist.ContentSet{
		BaseURL:  repolist.OneOrMany{"https://cdn.example/10/$basearch/baseos/os"},
		BaseArch: []string{"x86_64", "aarch64"},
	}
	urls := repolist.Expand(cs)
	sort.Strings(urls)
	require.Equal(t, []string{
		"https://cdn.example/10/aarch64/baseos/os",
		"https://cdn.example/10/x86_64/baseos/os",
	}, urls)
}

func TestExpandWithNoDimensionsPassesThroughUnexpanded(t *testing.T) {
	cs := repolist.ContentSet{BaseURL: repolist.OneOrMany{"https://cdn.example/10/appstream/os"}}
	urls := repolist.Expand(cs)
	require.Equal(t, []string{"https://cdn.example/10/appstream/os"}, urls)
}

func TestExpandCartesianProductAcrossArchAndReleasever(t *testing.T) {
	cs := repolist.ContentSet{
		BaseURL:    repolist.OneOrMany{"https://cdn.example/$releasever/$basearch/os"},
		BaseArch:   []string{"x86_64", "aarch64"},
		ReleaseVer: []string{"9", "10"},
	}
	urls := repolist.Expand(cs)
	sort.Strings(urls)
	require.Equal(t, []string{
		"https://cdn.example/10/aarch64/os",
		"https://cdn.example/10/x86_64/os",
		"https://cdn.example/9/aarch64/os",
		"https://cdn.example/9/x86_64/os",
	}, urls)
}

// One content set's sync failure is logged and does not stop the others
// or fail the overall SyncAll call.
func TestSyncAllContinuesPastOneFailure(t *testing.T) {
	rl := repolist.Repolist{
		Products: []repolist.Product{{
			Name: "example",
			ContentSets: map[string]repolist.ContentSet{
				"ok":   {BaseURL: repolist.OneOrMany{"https://cdn.example/ok"}},
				"fail": {BaseURL: repolist.OneOrMany{"https://cdn.example/fail"}},
			},
		}},
	}

	var mu sync.Mutex
	var succeeded []string
	var failedCount int32

	err := repolist.SyncAll(context.Background(), rl, 4, nil, func(ctx context.Context, url string) error {
		if url == "https://cdn.example/fail" {
			atomic.AddInt32(&failedCount, 1)
			return context.DeadlineExceeded
		}
		mu.Lock()
		succeeded = append(succeeded, url)
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"https://cdn.example/ok"}, succeeded)
	require.EqualValues(t, 1, failedCount)
}
