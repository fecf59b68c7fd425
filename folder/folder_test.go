package folder

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simdex/simdex/label"
	st "github.com/simdex/simdex/settings"
	"github.com/simdex/simdex/store"
)

func TestMain(m *testing.M) {
	st.ResetSettings()
	os.Exit(m.Run())
}

func newTestFolders(t *testing.T) *Folders {
	fcs, err := store.NewMemoryStore()
	require.Nil(t, err)
	labels, err := label.NewMemoryLabelStore()
	require.Nil(t, err)
	return &Folders{Store: fcs, Labels: labels}
}

func TestIDNameConversion(t *testing.T) {
	assert.Equal(t, "The Id", IDToName("The_Id"))
	assert.Equal(t, "The_Id", NameToID("The Id"))
	assert.Equal(t, "plain", NameToID(IDToName("plain")))
}

func TestAddFolderValidation(t *testing.T) {
	f := newTestFolders(t)
	ctx := context.Background()
	assert.True(t, errors.Is(f.AddFolder(ctx, "has space", ""), ErrInvalidID))
	assert.True(t, errors.Is(f.AddFolder(ctx, "has/slash", ""), ErrInvalidID))
	assert.True(t, errors.Is(f.AddFolder(ctx, "", ""), ErrInvalidID))
	assert.Nil(t, f.AddFolder(ctx, "Valid_Id", ""))
}

func TestFoldersPerAnnotator(t *testing.T) {
	f := newTestFolders(t)
	ctx := context.Background()
	require.Nil(t, f.AddFolder(ctx, "Cases", "alice"))
	require.Nil(t, f.AddFolder(ctx, "Archive", "alice"))
	require.Nil(t, f.AddFolder(ctx, "Private", "bob"))
	require.Nil(t, f.AddFolder(ctx, "Shared", ""))

	folders, err := f.Folders(ctx, "alice")
	require.Nil(t, err)
	assert.Equal(t, []string{"Archive", "Cases"}, folders)

	folders, err = f.Folders(ctx, "")
	require.Nil(t, err)
	assert.Equal(t, []string{"Shared"}, folders, "anonymous folders belong to the default annotator")

	folders, err = f.Folders(ctx, "carol")
	require.Nil(t, err)
	assert.Empty(t, folders)
}

func TestEmptyFolderHasNoSubfolders(t *testing.T) {
	f := newTestFolders(t)
	ctx := context.Background()
	require.Nil(t, f.AddFolder(ctx, "Cases", ""))
	subs, err := f.Subfolders(ctx, "Cases", "")
	require.Nil(t, err)
	assert.Empty(t, subs)
}

func TestAddItemCreatesSubfolder(t *testing.T) {
	f := newTestFolders(t)
	ctx := context.Background()
	require.Nil(t, f.AddFolder(ctx, "Cases", ""))
	require.Nil(t, f.AddItem(ctx, "Cases", "Open", "doc1", "page3", ""))
	require.Nil(t, f.AddItem(ctx, "Cases", "Open", "doc2", "", ""))
	require.Nil(t, f.AddItem(ctx, "Cases", "Closed", "doc3", "", ""))

	subs, err := f.Subfolders(ctx, "Cases", "")
	require.Nil(t, err)
	assert.Equal(t, []string{"Closed", "Open"}, subs)

	items, err := f.Items(ctx, "Cases", "Open", "")
	require.Nil(t, err)
	assert.Equal(t, []Item{
		{ContentID: "doc1", SubtopicID: "page3"},
		{ContentID: "doc2"},
	}, items)

	items, err = f.Items(ctx, "Cases", "Closed", "")
	require.Nil(t, err)
	assert.Equal(t, []Item{{ContentID: "doc3"}}, items)
}

func TestAddItemToMissingFolder(t *testing.T) {
	f := newTestFolders(t)
	err := f.AddItem(context.Background(), "Ghost", "Open", "doc1", "", "")
	assert.True(t, errors.Is(err, ErrFolderNotFound))
}

func TestSubfoldersOfMissingFolder(t *testing.T) {
	f := newTestFolders(t)
	_, err := f.Subfolders(context.Background(), "Ghost", "")
	assert.True(t, errors.Is(err, ErrFolderNotFound))
}

func TestParentSubfolders(t *testing.T) {
	f := newTestFolders(t)
	ctx := context.Background()
	require.Nil(t, f.AddFolder(ctx, "Cases", "alice"))
	require.Nil(t, f.AddFolder(ctx, "Other", "alice"))
	require.Nil(t, f.AddFolder(ctx, "Bobs", "bob"))
	require.Nil(t, f.AddItem(ctx, "Cases", "Open", "doc1", "", "alice"))
	require.Nil(t, f.AddItem(ctx, "Other", "Misc", "doc1", "", "alice"))
	require.Nil(t, f.AddItem(ctx, "Bobs", "Stuff", "doc1", "", "bob"))

	parents, err := f.ParentSubfolders(ctx, "doc1", "alice")
	require.Nil(t, err)
	assert.Equal(t, []Parent{
		{FolderID: "Cases", SubfolderID: "Open"},
		{FolderID: "Other", SubfolderID: "Misc"},
	}, parents, "other annotators' folders must not leak")
}

func TestFoldersOfDifferentAnnotatorsDoNotCollide(t *testing.T) {
	f := newTestFolders(t)
	ctx := context.Background()
	require.Nil(t, f.AddFolder(ctx, "Cases", "alice"))
	_, err := f.Subfolders(ctx, "Cases", "bob")
	assert.True(t, errors.Is(err, ErrFolderNotFound))
}
