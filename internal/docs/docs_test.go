package docs

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// TestLoadDispatch tests extension-based dispatch.
func TestLoadDispatch(t *testing.T) {
	loader := NewLoader()
	dir := t.TempDir()

	t.Run("txt", func(t *testing.T) {
		path := writeFile(t, dir, "note.txt", []byte("hello world"))
		text, err := loader.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "hello world", text)
	})

	t.Run("md", func(t *testing.T) {
		path := writeFile(t, dir, "readme.md", []byte("# Title\n\nBody."))
		text, err := loader.Load(path)
		require.NoError(t, err)
		assert.Contains(t, text, "Body.")
	})

	t.Run("uppercase extension", func(t *testing.T) {
		path := writeFile(t, dir, "SHOUT.TXT", []byte("loud"))
		text, err := loader.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "loud", text)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := writeFile(t, dir, "image.webp", []byte{0x52, 0x49})
		_, err := loader.Load(path)
		require.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loader.Load(filepath.Join(dir, "nope.txt"))
		require.Error(t, err)
	})
}

// TestDecodeText tests the encoding fallback chain.
func TestDecodeText(t *testing.T) {
	t.Run("utf-8 passes through", func(t *testing.T) {
		text, err := decodeText("a.txt", []byte("héllo"))
		require.NoError(t, err)
		assert.Equal(t, "héllo", text)
	})

	t.Run("latin-1 fallback", func(t *testing.T) {
		// "café" encoded as latin-1; 0xE9 alone is invalid utf-8.
		text, err := decodeText("a.txt", []byte{'c', 'a', 'f', 0xE9})
		require.NoError(t, err)
		assert.Equal(t, "café", text)
	})

	t.Run("utf-16 little endian with BOM", func(t *testing.T) {
		// BOM FF FE then "hi" as utf-16le.
		text, err := decodeText("a.txt", []byte{0xFF, 0xFE, 'h', 0x00, 'i', 0x00})
		require.NoError(t, err)
		assert.Equal(t, "hi", text)
	})

	t.Run("utf-16 big endian with BOM", func(t *testing.T) {
		text, err := decodeText("a.txt", []byte{0xFE, 0xFF, 0x00, 'h', 0x00, 'i'})
		require.NoError(t, err)
		assert.Equal(t, "hi", text)
	})

	t.Run("binary content fails to decode", func(t *testing.T) {
		_, err := decodeText("a.txt", []byte{0x80, 0x00, 0x01, 0x00, 0xFF})
		require.ErrorIs(t, err, ErrDecodeFailure)
	})
}

// writeDOCX builds a minimal Word document with the given paragraphs.
func writeDOCX(t *testing.T, dir, name string, paragraphs []string) string {
	t.Helper()
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)

	doc := `<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`
	for _, p := range paragraphs {
		doc += `<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`
	}
	doc += `</w:body></w:document>`

	_, err = w.Write([]byte(doc))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return path
}

// TestLoadDOCX tests Word document text extraction.
func TestLoadDOCX(t *testing.T) {
	loader := NewLoader()
	dir := t.TempDir()

	t.Run("paragraphs joined by newlines", func(t *testing.T) {
		path := writeDOCX(t, dir, "doc.docx", []string{"First paragraph.", "Second paragraph."})
		text, err := loader.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "First paragraph.\nSecond paragraph.", text)
	})

	t.Run("zip without document.xml", func(t *testing.T) {
		path := filepath.Join(dir, "empty.docx")
		f, err := os.Create(path)
		require.NoError(t, err)
		zw := zip.NewWriter(f)
		require.NoError(t, zw.Close())
		require.NoError(t, f.Close())

		_, err = loader.Load(path)
		require.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("not a zip", func(t *testing.T) {
		path := writeFile(t, dir, "fake.docx", []byte("plain text, not a zip"))
		_, err := loader.Load(path)
		require.Error(t, err)
	})
}

// TestIsSupported tests the extension allowlist.
func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("a.txt"))
	assert.True(t, IsSupported("a.md"))
	assert.True(t, IsSupported("a.pdf"))
	assert.True(t, IsSupported("A.DOCX"))
	assert.False(t, IsSupported("a.csv"))
	assert.False(t, IsSupported("a"))
}

// TestWalk tests directory discovery with ignore patterns.
func TestWalk(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", []byte("a"))
	writeFile(t, dir, "b.md", []byte("b"))
	writeFile(t, dir, "skip.log", []byte("log"))
	writeFile(t, dir, "nested/c.txt", []byte("c"))
	writeFile(t, dir, "node_modules/d.txt", []byte("d"))

	t.Run("collects supported files, sorted", func(t *testing.T) {
		paths, err := Walk(dir, []string{"node_modules/"})
		require.NoError(t, err)
		require.Len(t, paths, 3)
		assert.Equal(t, filepath.Join(dir, "a.txt"), paths[0])
		assert.Equal(t, filepath.Join(dir, "b.md"), paths[1])
		assert.Equal(t, filepath.Join(dir, "nested", "c.txt"), paths[2])
	})

	t.Run("ignore patterns filter files", func(t *testing.T) {
		paths, err := Walk(dir, []string{"*.txt", "node_modules/"})
		require.NoError(t, err)
		require.Len(t, paths, 1)
		assert.Equal(t, filepath.Join(dir, "b.md"), paths[0])
	})

	t.Run("single supported file root", func(t *testing.T) {
		paths, err := Walk(filepath.Join(dir, "a.txt"), nil)
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(dir, "a.txt")}, paths)
	})

	t.Run("single unsupported file root", func(t *testing.T) {
		_, err := Walk(filepath.Join(dir, "skip.log"), nil)
		require.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("missing root", func(t *testing.T) {
		_, err := Walk(filepath.Join(dir, "missing"), nil)
		require.Error(t, err)
	})
}
