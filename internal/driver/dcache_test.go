package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"mexpand/internal/project"
	"mexpand/internal/source"
)

func spanOf(start, end uint32) source.Span { return source.Span{Start: start, End: end} }

func TestDiskCachePutGet(t *testing.T) {
	cache, err := NewDiskCache(t.TempDir())
	require.NoError(t, err)
	key := project.Combine([]byte("k"))

	var out CachedFile
	ok, err := cache.Get(key, &out)
	require.NoError(t, err)
	require.False(t, ok)

	in := &CachedFile{
		Path:       "src/lib.rs",
		Expansions: []CachedExpansion{{Name: "line", Start: 3, End: 10, Output: "1"}},
		Diagnostics: []CachedDiagnostic{{
			Severity: 2, Code: 6001, Message: "m", Path: "/x/src/lib.rs",
			Notes: []CachedNote{{Path: "/x/src/lib.rs", Message: "n"}},
		}},
	}
	require.NoError(t, cache.Put(key, in))

	ok, err = cache.Get(key, &out)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, diskCacheSchemaVersion, out.Schema)
	require.Equal(t, in.Expansions, out.Expansions)
	require.Equal(t, in.Diagnostics, out.Diagnostics)

	entries, err := os.ReadDir(filepath.Join(cache.Dir(), "files"))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
}

func TestDiskCacheSchemaMismatchIsMiss(t *testing.T) {
	cache, err := NewDiskCache(t.TempDir())
	require.NoError(t, err)
	key := project.Combine([]byte("old"))

	// запись, оставленная прошлой версией формата
	data, err := msgpack.Marshal(&CachedFile{Schema: diskCacheSchemaVersion + 1, Path: "a.rs"})
	require.NoError(t, err)
	p := cache.pathFor(key)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, data, 0o600))

	var out CachedFile
	ok, err := cache.Get(key, &out)
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, out.Path)
}

func TestDiskCacheCorruptEntry(t *testing.T) {
	cache, err := NewDiskCache(t.TempDir())
	require.NoError(t, err)
	key := project.Combine([]byte("bad"))
	p := cache.pathFor(key)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte{0xc1}, 0o600))

	var out CachedFile
	_, err = cache.Get(key, &out)
	require.Error(t, err)
}

func TestOpenDiskCacheUsesXDG(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", base)
	cache, err := OpenDiskCache("mexpand")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(base, "mexpand"), cache.Dir())

	dir, err := ClearCache("mexpand")
	require.NoError(t, err)
	require.Equal(t, cache.Dir(), dir)
	_, err = os.Stat(dir)
	require.NoError(t, err)
}

func TestNilDiskCache(t *testing.T) {
	var cache *DiskCache
	require.NoError(t, cache.Put(project.Digest{}, &CachedFile{}))
	ok, err := cache.Get(project.Digest{}, &CachedFile{})
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, cache.DropAll())
}
