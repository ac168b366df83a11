package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func envMap(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), "[crate]\nname = \"demo\"\n")
	nested := filepath.Join(root, "src", "deep")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	path, ok, err := FindManifest(nested)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, filepath.Join(root, ManifestName), path)
}

func TestLoadManifest(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), `
[crate]
name = "demo"
root = "src"

[expand]
syntax = "tree-sitter"
jobs = 3
cache = false
max_diagnostics = 7
`)
	m, ok, err := LoadManifest(root)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "demo", m.Config.Crate.Name)
	require.Equal(t, filepath.Join(root, "src"), m.SourceRoot())

	s := Defaults()
	s.ApplyManifest(m)
	require.Equal(t, Settings{
		Crate:          "demo",
		Root:           filepath.Join(root, "src"),
		Syntax:         SyntaxTreeSitter,
		Jobs:           3,
		Cache:          false,
		MaxDiagnostics: 7,
	}, s)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		target  error
	}{
		{"missing crate", "[expand]\njobs = 1\n", ErrMissingCrate},
		{"empty name", "[crate]\nname = \"  \"\n", ErrMissingCrate},
		{"bad toml", "[crate\nname = 1", ErrManifestInvalid},
		{"unknown key", "[crate]\nname = \"x\"\nedition = 2021\n", ErrManifestInvalid},
		{"bad syntax", "[crate]\nname = \"x\"\n[expand]\nsyntax = \"yacc\"\n", ErrManifestInvalid},
		{"negative jobs", "[crate]\nname = \"x\"\n[expand]\njobs = -1\n", ErrManifestInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ManifestName)
			writeFile(t, path, tt.content)
			_, err := LoadConfig(path)
			require.ErrorIs(t, err, tt.target)
		})
	}
}

func TestDefaultsWithoutManifest(t *testing.T) {
	s, m, err := Resolve(t.TempDir(), envMap(nil))
	require.NoError(t, err)
	require.Nil(t, m)
	require.Equal(t, Defaults(), s)
}

func TestEnvOverridesManifest(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), "[crate]\nname = \"demo\"\n[expand]\njobs = 2\ncache = true\n")

	s, m, err := Resolve(root, envMap(map[string]string{
		EnvJobs:           "8",
		EnvCache:          "false",
		EnvSyntax:         "tree-sitter",
		EnvMaxDiagnostics: " 5 ",
	}))
	require.NoError(t, err)
	require.NotNil(t, m)
	require.Equal(t, 8, s.Jobs)
	require.False(t, s.Cache)
	require.Equal(t, SyntaxTreeSitter, s.Syntax)
	require.Equal(t, 5, s.MaxDiagnostics)
	require.Equal(t, "demo", s.Crate)
}

func TestEnvErrors(t *testing.T) {
	s := Defaults()
	err := s.ApplyEnv(envMap(map[string]string{
		EnvJobs:   "many",
		EnvCache:  "perhaps",
		EnvSyntax: "yacc",
	}))
	require.Error(t, err)
	require.Contains(t, err.Error(), EnvJobs)
	require.Contains(t, err.Error(), EnvCache)
	require.Contains(t, err.Error(), EnvSyntax)
	require.Equal(t, Defaults(), s)
}

func TestLoadDotEnv(t *testing.T) {
	const key = "MEXPAND_TEST_DOTENV_VALUE"
	dir := t.TempDir()
	require.NoError(t, LoadDotEnv(dir))

	writeFile(t, filepath.Join(dir, ".env"), key+"=from-file\n")
	t.Cleanup(func() { _ = os.Unsetenv(key) })
	require.NoError(t, LoadDotEnv(dir))
	require.Equal(t, "from-file", os.Getenv(key))

	t.Setenv(key, "preset")
	require.NoError(t, LoadDotEnv(dir))
	require.Equal(t, "preset", os.Getenv(key))
}

func TestCombineIsLengthPrefixed(t *testing.T) {
	a := Combine([]byte("ab"), []byte("c"))
	b := Combine([]byte("a"), []byte("bc"))
	require.NotEqual(t, a, b)
	require.Equal(t, a, Combine([]byte("ab"), []byte("c")))
	require.False(t, a.IsZero())
	require.Len(t, a.String(), 64)
}
