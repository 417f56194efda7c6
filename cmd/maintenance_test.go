package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv("STORE_DRIVER", "memory")
	t.Cleanup(func() { catalogFile = "" })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append(args, "--log-level", "error"))
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestSeedCommand(t *testing.T) {
	out := runCommand(t, "seed")
	assert.Equal(t, "seeded 10 animals and 6 quiz questions (6 linked)\n", out)
}

func TestSeedCommandFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
animals:
  - name: Axolotl
    category: Amphibian
questions:
  - question: Where do axolotls live in the wild?
    options: [Mexico, Peru, Japan, Kenya]
    correctAnswer: 0
    animal: Axolotl
    difficulty: hard
`), 0o600))

	out := runCommand(t, "seed", "--file", path)
	assert.Equal(t, "seeded 1 animals and 1 quiz questions (1 linked)\n", out)
}

func TestBackfillLikesCommand(t *testing.T) {
	out := runCommand(t, "backfill", "likes")
	assert.Equal(t, "matched 0 posts, modified 0\n", out)
}
