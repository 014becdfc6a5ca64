package archive

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lihungbin/PlanetaryComputer/util"
)

type mockArchiveEntry struct {
	name string
	body string
}

func encodeMockArchive(t *testing.T, entries []mockArchiveEntry) []byte {
	var buffer bytes.Buffer
	gzipWriter := gzip.NewWriter(&buffer)
	tarWriter := tar.NewWriter(gzipWriter)
	for _, entry := range entries {
		err := tarWriter.WriteHeader(&tar.Header{
			Name:     entry.name,
			Typeflag: tar.TypeReg,
			Mode:     0o644,
			Size:     int64(len(entry.body)),
		})
		assert.Nil(t, err)
		_, err = tarWriter.Write([]byte(entry.body))
		assert.Nil(t, err)
	}
	assert.Nil(t, tarWriter.Close())
	assert.Nil(t, gzipWriter.Close())
	return buffer.Bytes()
}

func TestDownload(t *testing.T) {
	archive := encodeMockArchive(t, []mockArchiveEntry{
		{"test-collection/item-001/visual.tif", "raster bytes"},
		{"test-collection/item-001/metadata.json", `{"id":"item-001"}`},
	})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/archive/test-collection", r.URL.Path)
		w.Header().Set("Content-Type", "application/gzip")
		w.Write(archive)
	}))
	defer server.Close()
	client := &Context{BaseStacURL: server.URL}
	destDir := t.TempDir()

	extracted, err := Download(context.Background(), client, "test-collection", destDir)

	assert.Nil(t, err)
	assert.Len(t, extracted, 2)
	contents, err := os.ReadFile(filepath.Join(destDir, "test-collection", "item-001", "metadata.json"))
	assert.Nil(t, err)
	assert.Equal(t, `{"id":"item-001"}`, string(contents))
}

func TestDownload_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()
	client := &Context{BaseStacURL: server.URL}

	_, err := Download(context.Background(), client, "bogus", t.TempDir())

	assert.NotNil(t, err)
	assert.True(t, util.IsClientErr(err))
}

func TestDownload_NotGzip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("plain text, not an archive"))
	}))
	defer server.Close()
	client := &Context{BaseStacURL: server.URL}

	_, err := Download(context.Background(), client, "test-collection", t.TempDir())

	assert.NotNil(t, err)
}

func TestExtract_TraversalEntriesStayContained(t *testing.T) {
	archive := encodeMockArchive(t, []mockArchiveEntry{
		{"../../escape.txt", "outside"},
	})
	destDir := t.TempDir()

	extracted, err := extract(&util.BasicLogContext{}, bytes.NewReader(archive), destDir)

	assert.Nil(t, err)
	assert.Len(t, extracted, 1)
	assert.True(t, strings.HasPrefix(extracted[0], destDir+string(os.PathSeparator)))
	_, err = os.Stat(filepath.Join(destDir, "escape.txt"))
	assert.Nil(t, err)
}

func TestSecurePath(t *testing.T) {
	target, err := securePath("/tmp/dest", "a/b.tif")
	assert.Nil(t, err)
	assert.Equal(t, filepath.Join("/tmp/dest", "a", "b.tif"), target)

	target, err = securePath("/tmp/dest", "../../../etc/passwd")
	assert.Nil(t, err)
	assert.Equal(t, filepath.Join("/tmp/dest", "etc", "passwd"), target)
}
