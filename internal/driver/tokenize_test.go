package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"mexpand/internal/project"
	"mexpand/internal/token"
)

func TestTokenize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.rs")
	require.NoError(t, os.WriteFile(path, []byte("line!(x)"), 0o600))

	res, err := Tokenize(path, 0)
	require.NoError(t, err)
	require.Zero(t, res.Bag.Len())
	require.Len(t, res.Tokens, 6)
	require.Equal(t, token.EOF, res.Tokens[len(res.Tokens)-1].Kind)
	require.Equal(t, "line", res.Tokens[0].Text)
}

func TestParseBackends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.rs")
	require.NoError(t, os.WriteFile(path, []byte("fn f() { line!(); std::column![] }\n"), 0o600))

	for _, syntax := range []project.Syntax{project.SyntaxNative, project.SyntaxTreeSitter} {
		res, err := Parse(path, syntax, 10)
		require.NoError(t, err, syntax)
		require.Equal(t, uint32(2), res.Tree.NumCalls(), syntax)
		calls := res.Tree.Calls()
		require.Equal(t, "line", calls[0].Name())
		require.Equal(t, []string{"std", "column"}, calls[1].Path())
	}
}

func TestTokenizeMissingFile(t *testing.T) {
	_, err := Tokenize(filepath.Join(t.TempDir(), "none.rs"), 0)
	require.ErrorIs(t, err, os.ErrNotExist)
}
