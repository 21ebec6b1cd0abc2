package yamlseed_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/acksell/rpmscan/rpmmd"
	"github.com/acksell/rpmscan/yamlseed"
)

const sampleModules = `document: modulemd
version: 2
data:
  name: nodejs
  stream: "18"
  version: 9020020240101000000
  context: abcd
  arch: x86_64
  summary: Javascript runtime
  license:
    module: [MIT]
  profiles:
    default:
      rpms: [nodejs, npm]
---
document: modulemd-defaults
version: 1
data:
  module: nodejs
  stream: "18"
  profiles:
    "18": [default]
`

func TestEachDecodesBothDocumentKinds(t *testing.T) {
	var kinds []string
	err := yamlseed.Each(strings.NewReader(sampleModules), func(doc rpmmd.ModuleDocument) error {
		kinds = append(kinds, doc.Document)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"modulemd", "modulemd-defaults"}, kinds)
}

func TestModulesSkipsDefaultsDocuments(t *testing.T) {
	var mods []rpmmd.ModuleMDData
	err := yamlseed.Modules(strings.NewReader(sampleModules), func(m rpmmd.ModuleMDData) error {
		mods = append(mods, m)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, mods, 1)
	require.Equal(t, "nodejs", mods[0].Name)
	require.Equal(t, "18", mods[0].Stream)
	require.Equal(t, []string{"nodejs", "npm"}, mods[0].Profiles["default"].Rpms)
}

func TestDefaultsSkipsModuleDocuments(t *testing.T) {
	var defs []rpmmd.DefaultsData
	err := yamlseed.Defaults(strings.NewReader(sampleModules), func(d rpmmd.DefaultsData) error {
		defs = append(defs, d)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, defs, 1)
	require.Equal(t, "nodejs", defs[0].Module)
	require.Equal(t, []string{"default"}, defs[0].Profiles["18"])
}
