package transkribus

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acdh-oeaw/transkribus-utils/internal/errs"
)

const sampleDocMETS = `<?xml version="1.0" encoding="UTF-8"?>
<mets:mets xmlns:mets="http://www.loc.gov/METS/"><mets:dmdSec ID="DMD1"/></mets:mets>`

func TestSaveMETSToFile(t *testing.T) {
	f, srv := newFakeTranskribus(t)
	f.mets[101] = sampleDocMETS
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/out", 0755))
	c := f.client(srv, fs)

	path, err := c.SaveMETSToFile(context.Background(), 101, 7, "/out")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/out", "101_mets.xml"), path)

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<mets:dmdSec ID="DMD1"/>`)
}

func TestSaveMETSToMissingDirectory(t *testing.T) {
	f, srv := newFakeTranskribus(t)
	f.mets[101] = sampleDocMETS
	fs := afero.NewMemMapFs()
	c := f.client(srv, fs)

	path, err := c.SaveMETSToFile(context.Background(), 101, 7, "/does/not/exist")
	assert.Empty(t, path)
	assert.ErrorIs(t, err, errs.ErrIO)
	assert.Equal(t, 0, f.callCount("/collections/7/101/mets"))

	exists, err := afero.Exists(fs, "/does/not/exist/101_mets.xml")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGetImageNames(t *testing.T) {
	f, srv := newFakeTranskribus(t)
	f.imageNames[101] = "IMG_0001.jpg\nIMG_0002.jpg\n\n"
	f.failPaths["/collections/7/102/imageNames"] = 500
	c := f.client(srv, afero.NewMemMapFs())
	ctx := context.Background()

	names, err := c.GetImageNames(ctx, 101, 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"IMG_0001.jpg", "IMG_0002.jpg"}, names)

	names, err = c.GetImageNames(ctx, 102, 7)
	assert.Error(t, err)
	assert.NotNil(t, names)
	assert.Empty(t, names)
}

func TestCollectionToMETSFilter(t *testing.T) {
	f, srv := newFakeTranskribus(t)
	f.documents[7] = []DocumentSummary{{DocID: 100}, {DocID: 101}, {DocID: 102}}
	for _, id := range []int{100, 101, 102} {
		f.mets[id] = sampleDocMETS
		f.imageNames[id] = "IMG_0001.jpg"
	}
	fs := afero.NewMemMapFs()
	c := f.client(srv, fs)

	ids, err := c.CollectionToMETS(context.Background(), 7, "/export", []string{"101"})
	require.NoError(t, err)
	assert.Equal(t, []int{101}, ids)

	files, err := afero.ReadDir(fs, "/export/7")
	require.NoError(t, err)
	var names []string
	for _, fi := range files {
		names = append(names, fi.Name())
	}
	assert.ElementsMatch(t, []string{"101_mets.xml", "101_image_name.xml"}, names)
	assert.Equal(t, 0, f.callCount("/collections/7/100/mets"))
	assert.Equal(t, 0, f.callCount("/collections/7/102/mets"))
}

func TestCollectionToMETSContinuesPastFailures(t *testing.T) {
	f, srv := newFakeTranskribus(t)
	f.documents[7] = []DocumentSummary{{DocID: 100}, {DocID: 101}, {DocID: 102}}
	f.mets[100] = sampleDocMETS
	f.mets[102] = sampleDocMETS
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/export/7", 0755))
	c := f.client(srv, fs)

	ids, err := c.CollectionToMETS(context.Background(), 7, "/export", nil)
	assert.Equal(t, []int{100, 101, 102}, ids)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document 101")

	for _, name := range []string{"100_mets.xml", "102_mets.xml", "101_image_name.xml"} {
		exists, statErr := afero.Exists(fs, filepath.Join("/export/7", name))
		require.NoError(t, statErr)
		assert.True(t, exists, name)
	}
}

func TestParseDocIDs(t *testing.T) {
	ids := parseDocIDs([]string{"101", " 7 ", "abc"})
	assert.Len(t, ids, 2)
	assert.Contains(t, ids, 101)
	assert.Contains(t, ids, 7)
}
