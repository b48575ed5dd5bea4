package resource

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sharedrive/sharedrive/internal/db"
	"github.com/sharedrive/sharedrive/internal/xassert"
	"github.com/sharedrive/sharedrive/internal/xerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader_ReadTree(t *testing.T) {
	t.Run("a nested tree is built from flat rows", func(t *testing.T) {
		tester := newTester(t)
		require.NoError(t, db.BatchCreate(tester.dbClient, []db.Resource{
			{ID: 1, Kind: db.ResourceKindFolder, Name: "folder1", OwnerID: 1},
			{ID: 2, Kind: db.ResourceKindFolder, Name: "folder2", OwnerID: 1, ParentID: 1},
			{ID: 3, Kind: db.ResourceKindFile, Name: "file3", OwnerID: 1, ParentID: 2},
			{ID: 4, Kind: db.ResourceKindFile, Name: "file4", OwnerID: 2},
			{ID: 5, Kind: db.ResourceKindFolder, Name: "folder5", OwnerID: 2},
		}))

		got, gotErr := tester.getReader().ReadTree()
		require.NoError(t, gotErr)

		want := Folder{
			ID: db.RootFolderID,
			Children: []*Folder{
				{
					ID: 1, Name: "folder1", OwnerID: 1,
					Children: []*Folder{
						{
							ID: 2, Name: "folder2", OwnerID: 1, ParentID: 1,
							ChildFiles: []*File{
								{ID: 3, Name: "file3", OwnerID: 1, ParentID: 2},
							},
						},
					},
				},
				{ID: 5, Name: "folder5", OwnerID: 2},
			},
			ChildFiles: []*File{
				{ID: 4, Name: "file4", OwnerID: 2},
			},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("ReadTree() mismatch. Diff: %s", diff)
		}
	})

	t.Run("an empty table gives a bare root", func(t *testing.T) {
		tester := newTester(t)
		got, gotErr := tester.getReader().ReadTree()
		require.NoError(t, gotErr)
		assert.Empty(t, got.Children)
		assert.Empty(t, got.ChildFiles)
	})

	t.Run("a parent cycle in the rows is an inconsistency", func(t *testing.T) {
		tester := newTester(t)
		require.NoError(t, db.BatchCreate(tester.dbClient, []db.Resource{
			{ID: 1, Kind: db.ResourceKindFolder, Name: "folder1", OwnerID: 1, ParentID: 2},
			{ID: 2, Kind: db.ResourceKindFolder, Name: "folder2", OwnerID: 1, ParentID: 1},
		}))

		_, gotErr := tester.getReader().ReadTree()
		assert.ErrorIs(t, gotErr, xerrors.ErrInconsistency)
	})

	t.Run("a file with a dangling parent is an inconsistency", func(t *testing.T) {
		tester := newTester(t)
		require.NoError(t, db.BatchCreate(tester.dbClient, []db.Resource{
			{ID: 1, Kind: db.ResourceKindFolder, Name: "folder1", OwnerID: 1},
			{ID: 2, Kind: db.ResourceKindFile, Name: "file2", OwnerID: 1, ParentID: 999},
		}))

		_, gotErr := tester.getReader().ReadTree()
		assert.ErrorIs(t, gotErr, xerrors.ErrInconsistency)
	})

	t.Run("a chain deeper than the cap is an inconsistency", func(t *testing.T) {
		tester := newTester(t)
		require.NoError(t, db.BatchCreate(tester.dbClient, folderChain(MaxTreeDepth+2)))

		_, gotErr := tester.getReader().ReadTree()
		assert.ErrorIs(t, gotErr, xerrors.ErrInconsistency)
	})
}

// folderChain builds rows for folders nested length levels deep, folder i
// inside folder i-1.
func folderChain(length int) []db.Resource {
	rows := make([]db.Resource, 0, length)
	for i := 1; i <= length; i++ {
		rows = append(rows, db.Resource{
			ID:       uint(i),
			Kind:     db.ResourceKindFolder,
			Name:     fmt.Sprintf("folder%d", i),
			OwnerID:  1,
			ParentID: uint(i - 1),
		})
	}
	return rows
}

func TestReader_ReadFolder(t *testing.T) {
	tester := newTester(t)
	require.NoError(t, db.BatchCreate(tester.dbClient, []db.Resource{
		{ID: 1, Kind: db.ResourceKindFolder, Name: "folder1", OwnerID: 1},
		{ID: 2, Kind: db.ResourceKindFolder, Name: "folder2", OwnerID: 1, ParentID: 1},
	}))
	reader := tester.getReader()

	got, gotErr := reader.ReadFolder(2)
	require.NoError(t, gotErr)
	assert.Equal(t, "folder2", got.Name)

	root, gotErr := reader.ReadFolder(db.RootFolderID)
	require.NoError(t, gotErr)
	assert.Len(t, root.Children, 1)

	_, gotErr = reader.ReadFolder(999)
	assert.ErrorIs(t, gotErr, ErrFolderNotFound)
}

func TestReader_ReadResource(t *testing.T) {
	tester := newTester(t)
	require.NoError(t, db.BatchCreate(tester.dbClient, []db.Resource{
		{ID: 1, Kind: db.ResourceKindFolder, Name: "folder1", OwnerID: 1},
		{ID: 2, Kind: db.ResourceKindFile, Name: "file2", OwnerID: 1, ParentID: 1},
	}))
	reader := tester.getReader()

	testCases := []struct {
		name    string
		ref     Ref
		wantErr error
	}{
		{name: "a folder", ref: FolderRef(1)},
		{name: "a file", ref: FileRef(2)},
		{name: "a folder id is not a file", ref: FileRef(1), wantErr: ErrFileNotFound},
		{name: "an unknown folder", ref: FolderRef(999), wantErr: ErrFolderNotFound},
		{name: "an unknown kind", ref: Ref{Kind: "symlink", ID: 1}, wantErr: xerrors.ErrInvalidArgument},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, gotErr := reader.ReadResource(tc.ref)
			if tc.wantErr != nil {
				assert.ErrorIs(t, gotErr, tc.wantErr)
				return
			}
			require.NoError(t, gotErr)
			assert.Equal(t, tc.ref.ID, got.ID)
			assert.Equal(t, tc.ref.Kind, got.Kind)
		})
	}
}

func TestReader_ReadAncestors(t *testing.T) {
	tester := newTester(t)
	require.NoError(t, db.BatchCreate(tester.dbClient, []db.Resource{
		{ID: 1, Kind: db.ResourceKindFolder, Name: "folder1", OwnerID: 1},
		{ID: 2, Kind: db.ResourceKindFolder, Name: "folder2", OwnerID: 1, ParentID: 1},
		{ID: 3, Kind: db.ResourceKindFile, Name: "file3", OwnerID: 1, ParentID: 2},
	}))

	got, gotErr := tester.getReader().ReadAncestors([]uint{1, 3})
	require.NoError(t, gotErr)

	// folder1 is top level, so only file3 has ancestors
	require.Len(t, got, 1)
	xassert.ElementsMatch(t,
		[]uint{1, 2},
		[]uint{got[3][0].ID, got[3][1].ID},
	)
}
