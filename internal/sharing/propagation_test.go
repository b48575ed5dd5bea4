package sharing

import (
	"testing"

	"github.com/sharedrive/sharedrive/internal/db"
	"github.com/sharedrive/sharedrive/internal/resource"
	"github.com/sharedrive/sharedrive/internal/xerrors"
	"github.com/sharedrive/sharedrive/internal/xlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropagator_OnResourceCreated(t *testing.T) {
	t.Run("a new file inherits the folder's shares", func(t *testing.T) {
		tester := newTester(t)
		owner := tester.createUser(t, "owner")
		viewer := tester.createUser(t, "viewer")
		editor := tester.createUser(t, "editor")

		folder, err := tester.resourceService.CreateFolder("Reports", owner.ID, 0)
		require.NoError(t, err)
		tester.mustShare(t, db.Share{
			ResourceKind: db.ResourceKindFolder,
			ResourceID:   folder.ID,
			GrantedToID:  viewer.ID,
			GrantedByID:  owner.ID,
			CanRead:      true,
		})
		tester.mustShare(t, db.Share{
			ResourceKind: db.ResourceKindFolder,
			ResourceID:   folder.ID,
			GrantedToID:  editor.ID,
			GrantedByID:  owner.ID,
			CanRead:      true,
			CanEdit:      true,
		})

		file, err := tester.resourceService.CreateFile("summary.pdf", owner.ID, folder.ID)
		require.NoError(t, err)

		got, err := tester.readShare(t, resource.FileRef(file.ID), viewer.ID)
		require.NoError(t, err)
		assert.True(t, got.CanRead)
		assert.False(t, got.CanEdit)
		assert.Equal(t, owner.ID, got.GrantedByID)

		got, err = tester.readShare(t, resource.FileRef(file.ID), editor.ID)
		require.NoError(t, err)
		assert.True(t, got.CanEdit)
	})

	t.Run("a new subfolder inherits the parent's shares", func(t *testing.T) {
		tester := newTester(t)
		owner := tester.createUser(t, "owner")
		viewer := tester.createUser(t, "viewer")

		parent, err := tester.resourceService.CreateFolder("Reports", owner.ID, 0)
		require.NoError(t, err)
		tester.mustShare(t, db.Share{
			ResourceKind: db.ResourceKindFolder,
			ResourceID:   parent.ID,
			GrantedToID:  viewer.ID,
			GrantedByID:  owner.ID,
			CanRead:      true,
		})

		child, err := tester.resourceService.CreateFolder("2026", owner.ID, parent.ID)
		require.NoError(t, err)

		got, err := tester.readShare(t, resource.FolderRef(child.ID), viewer.ID)
		require.NoError(t, err)
		assert.True(t, got.CanRead)
	})

	t.Run("the copy is a snapshot, not a subscription", func(t *testing.T) {
		tester := newTester(t)
		owner := tester.createUser(t, "owner")
		viewer := tester.createUser(t, "viewer")

		parent, err := tester.resourceService.CreateFolder("Reports", owner.ID, 0)
		require.NoError(t, err)
		file, err := tester.resourceService.CreateFile("early.txt", owner.ID, parent.ID)
		require.NoError(t, err)

		// the share arrives after the file was created
		tester.mustShare(t, db.Share{
			ResourceKind: db.ResourceKindFolder,
			ResourceID:   parent.ID,
			GrantedToID:  viewer.ID,
			GrantedByID:  owner.ID,
			CanRead:      true,
		})

		_, err = tester.readShare(t, resource.FileRef(file.ID), viewer.ID)
		assert.ErrorIs(t, err, db.ErrRecordNotFound)
	})

	t.Run("a top level resource inherits nothing", func(t *testing.T) {
		tester := newTester(t)
		owner := tester.createUser(t, "owner")

		file, err := tester.resourceService.CreateFile("loose.txt", owner.ID, 0)
		require.NoError(t, err)

		shares, err := tester.dbClient.Share().FindAllByResource(db.ResourceKindFile, file.ID)
		require.NoError(t, err)
		assert.Empty(t, shares)
	})

	t.Run("no share is copied for the new resource's owner", func(t *testing.T) {
		tester := newTester(t)
		owner := tester.createUser(t, "owner")
		collaborator := tester.createUser(t, "collaborator")

		parent, err := tester.resourceService.CreateFolder("Shared", owner.ID, 0)
		require.NoError(t, err)
		tester.mustShare(t, db.Share{
			ResourceKind: db.ResourceKindFolder,
			ResourceID:   parent.ID,
			GrantedToID:  collaborator.ID,
			GrantedByID:  owner.ID,
			CanRead:      true,
			CanEdit:      true,
		})

		// the collaborator creates a file inside the shared folder; the
		// folder's share for them must not become a self grant
		file, err := tester.resourceService.CreateFile("notes.txt", collaborator.ID, parent.ID)
		require.NoError(t, err)

		_, err = tester.readShare(t, resource.FileRef(file.ID), collaborator.ID)
		assert.ErrorIs(t, err, db.ErrRecordNotFound)
	})
}

func TestPropagator_PropagateGrant(t *testing.T) {
	t.Run("a subtree deeper than the cap aborts as corrupt", func(t *testing.T) {
		tester := newTester(t)
		owner := tester.createUser(t, "owner")
		viewer := tester.createUser(t, "viewer")

		// a folder chain one level past the cap, built in memory: the stored
		// tree can't legally get this deep, so the walk must refuse it
		root := &resource.Folder{ID: resource.MaxTreeDepth + 2, Name: "leaf", OwnerID: owner.ID}
		for i := resource.MaxTreeDepth + 1; i >= 1; i-- {
			root = &resource.Folder{
				ID:       uint(i),
				OwnerID:  owner.ID,
				Children: []*resource.Folder{root},
			}
		}

		propagator := NewPropagator(xlog.Nop())
		gotErr := propagator.PropagateGrant(tester.dbClient, *root, owner.ID, viewer.ID, Capabilities{
			CanRead: true,
		})
		assert.ErrorIs(t, gotErr, xerrors.ErrInconsistency)
	})
}
