package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	r := Default()

	require.NotZero(t, r.Len())
	for _, name := range r.Names() {
		d, ok := r.Get(name)
		require.True(t, ok)
		assert.NotEmpty(t, d.URL)
		assert.NotEmpty(t, d.Selector)
		assert.NotEmpty(t, d.Origin())
	}
}

func TestRegistryPreservesOrderAndRejectsDuplicates(t *testing.T) {
	r := NewRegistry(
		Descriptor{Name: "B", URL: "https://b.example/", Selector: "div"},
		Descriptor{Name: "A", URL: "https://a.example/", Selector: "div"},
		Descriptor{Name: "B", URL: "https://dup.example/", Selector: "div"},
	)

	assert.Equal(t, []string{"B", "A"}, r.Names())

	d, ok := r.Get("B")
	require.True(t, ok)
	assert.Equal(t, "https://b.example/", d.URL)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestDescriptorPageURL(t *testing.T) {
	d := Descriptor{URL: "https://site.example/projects/"}

	assert.Equal(t, "https://site.example/projects/?page=2", d.PageURL(2))
}

func TestDescriptorOrigin(t *testing.T) {
	assert.Equal(t, "https://site.example", Descriptor{URL: "https://site.example/projects/"}.Origin())
	assert.Equal(t, "http://site.example", Descriptor{URL: "http://site.example"}.Origin())
	assert.Empty(t, Descriptor{URL: "not a url"}.Origin())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	data := `
- name: FL.ru
  url: https://www.fl.ru/projects/
  selector: div.b-post
  title_selector: a.b-post__link
  description_selector: div.b-post__body
  price_selector: div.b-post__price
  date_selector: div.b-post__foot
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	r, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"FL.ru"}, r.Names())
	d, _ := r.Get("FL.ru")
	assert.Equal(t, "a.b-post__link", d.TitleSelector)
}

func TestLoadFileRejectsIncompleteSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- name: Broken\n"), 0o644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte(""), 0o644))
	_, err = LoadFile(empty)
	assert.Error(t, err)
}
