package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandTree(t *testing.T) {
	root := NewRootCommand()

	names := make([]string, 0)
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "featurize")
	assert.Contains(t, names, "predict")
	assert.Contains(t, names, "serve")

	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
	assert.NotNil(t, root.PersistentFlags().Lookup("log-level"))
}

func TestFeaturizeRequiresInput(t *testing.T) {
	root := NewRootCommand()
	root.SetArgs([]string{"featurize"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input")
}

func TestReadStructureXYZ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "water.xyz")
	require.NoError(t, os.WriteFile(path, []byte(
		"3\nwater\nO 0 0 0\nH 0.9584 0 0\nH -0.2396 0.9279 0\n"), 0o644))

	s, err := readStructure(path)
	require.NoError(t, err)
	assert.Equal(t, "water", s.Name())
	assert.Equal(t, []int{8, 1, 1}, s.Species())
}

func TestReadStructureJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pair.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
	  "name": "pair",
	  "sites": [{"species": 30, "position": [0,0,0]}, {"species": 8, "position": [2,0,0]}]
	}`), 0o644))

	s, err := readStructure(path)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
	assert.InDelta(t, 2.0, s.Distance(0, 1), 1e-12)
}

func TestReadStructureMissingFile(t *testing.T) {
	_, err := readStructure(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoadConfigAppliesLogLevelOverride(t *testing.T) {
	opts := &rootOptions{logLevel: "debug"}
	cfg, err := opts.loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}
