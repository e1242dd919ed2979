package pdf

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandon/mcp-spark/pkg/types"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testTemplateStore(t *testing.T) *TemplateStore {
	t.Helper()
	return NewTemplateStore(t.TempDir(), testLogger())
}

func w9Template() types.Template {
	return types.Template{
		Name:        "w9",
		Description: "W-9 tax form",
		Fields: []types.TemplateField{
			{FieldName: "name", Page: 1, X: 72, Y: 700, FontSize: 11, Type: "text"},
			{FieldName: "date", Page: 1, X: 400, Y: 120, FontSize: 11, Type: "date"},
			{FieldName: "signature", Page: 1, X: 72, Y: 120, Type: "signature", Width: 150},
		},
	}
}

func TestTemplateSaveAndGet(t *testing.T) {
	store := testTemplateStore(t)

	res, err := store.Save(w9Template())
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "saved", res.Status)

	got, err := store.Get("w9")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "W-9 tax form", got.Description)
	require.Len(t, got.Fields, 3)
	assert.Equal(t, "signature", got.Fields[2].Type)
	assert.InDelta(t, 150, got.Fields[2].Width, 0.001)
}

func TestTemplateSaveOverwrites(t *testing.T) {
	store := testTemplateStore(t)

	tpl := w9Template()
	_, err := store.Save(tpl)
	require.NoError(t, err)

	tpl.Description = "updated"
	tpl.Fields = tpl.Fields[:1]
	_, err = store.Save(tpl)
	require.NoError(t, err)

	got, err := store.Get("w9")
	require.NoError(t, err)
	assert.Equal(t, "updated", got.Description)
	assert.Len(t, got.Fields, 1)
}

func TestTemplateSaveRejectsBadInput(t *testing.T) {
	store := testTemplateStore(t)

	bad := w9Template()
	bad.Name = "../escape"
	_, err := store.Save(bad)
	assert.ErrorContains(t, err, "invalid template name")

	empty := w9Template()
	empty.Fields = nil
	_, err = store.Save(empty)
	assert.ErrorContains(t, err, "no fields")
}

func TestTemplateGetMissing(t *testing.T) {
	store := testTemplateStore(t)

	got, err := store.Get("nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTemplateDelete(t *testing.T) {
	store := testTemplateStore(t)
	_, err := store.Save(w9Template())
	require.NoError(t, err)

	res, err := store.Delete("w9")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "deleted", res.Status)

	// Deleting again reports the miss instead of failing.
	res, err = store.Delete("w9")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "not found", res.Status)
}

func TestTemplateList(t *testing.T) {
	store := testTemplateStore(t)

	zeta := w9Template()
	zeta.Name = "zeta"
	_, err := store.Save(zeta)
	require.NoError(t, err)
	_, err = store.Save(w9Template())
	require.NoError(t, err)

	// Malformed files get skipped, not surfaced.
	require.NoError(t, os.WriteFile(filepath.Join(store.dir, "broken.json"), []byte("{oops"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(store.dir, "notes.txt"), []byte("hi"), 0644))

	list, err := store.List()
	require.NoError(t, err)
	require.Len(t, list.Templates, 2)
	assert.Equal(t, 2, list.Total)
	assert.Equal(t, "w9", list.Templates[0].Name)
	assert.Equal(t, "zeta", list.Templates[1].Name)
}

func TestTemplateListEmptyDir(t *testing.T) {
	store := NewTemplateStore(filepath.Join(t.TempDir(), "never-created"), testLogger())

	list, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, list.Templates)
}
