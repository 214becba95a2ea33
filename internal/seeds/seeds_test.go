package seeds

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadSkipsBlanksAndComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seeds.txt")
	require.NoError(t, os.WriteFile(path, []byte(
		"https://do312.com/events\n\n# a comment\n  https://www.lpzoo.org/events  \n",
	), 0o644))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{
		"https://do312.com/events",
		"https://www.lpzoo.org/events",
	}, got)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
}

func TestExpandQueryPagination(t *testing.T) {
	got := Expand([]string{"https://do312.com/events"})
	require.Len(t, got, 20) // seed plus pages 2..20
	require.Equal(t, "https://do312.com/events", got[0])
	require.Equal(t, "https://do312.com/events?page=2", got[1])
	require.Equal(t, "https://do312.com/events?page=20", got[19])
}

func TestExpandPathPagination(t *testing.T) {
	got := Expand([]string{"https://www.lpzoo.org/events/"})
	require.Len(t, got, 10) // seed plus pages 2..10
	require.Equal(t, "https://www.lpzoo.org/events/page/2/", got[1])
	require.Equal(t, "https://www.lpzoo.org/events/page/10/", got[9])
}

func TestExpandUnderscoreParam(t *testing.T) {
	got := Expand([]string{"https://www.chicagomag.com/events/"})
	require.Equal(t, "https://www.chicagomag.com/events/?_page=2", got[1])
}

func TestExpandUnknownSitePassesThrough(t *testing.T) {
	got := Expand([]string{"https://example.test/whats-on"})
	require.Equal(t, []string{"https://example.test/whats-on"}, got)
}

func TestExpandDeduplicates(t *testing.T) {
	got := Expand([]string{"https://do312.com/events", "https://do312.com/events"})
	require.Len(t, got, 20)
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expanded.txt")
	require.NoError(t, Write(path, []string{"https://a.test/", "https://b.test/"}))
	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"https://a.test/", "https://b.test/"}, got)
}
