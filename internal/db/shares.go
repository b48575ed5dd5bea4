package db

import (
	"gorm.io/gorm/clause"
)

// Share is one capability record for a (resource, user) pair. The composite
// primary key backs the upsert: a second share to the same user overwrites
// the flags in place instead of appending a row.
type Share struct {
	ResourceKind ResourceKind `gorm:"primaryKey"`
	ResourceID   uint         `gorm:"primaryKey;autoIncrement:false"`
	GrantedToID  uint         `gorm:"primaryKey;autoIncrement:false"`
	GrantedByID  uint
	CanRead      bool
	CanEdit      bool
	CanDelete    bool
	CanShare     bool
	CreatedAt    uint `gorm:"autoCreateTime"`
	UpdatedAt    uint `gorm:"autoUpdateTime"`
}

type ShareClient ORMClient[Share]

func (client *Client) Share() *ShareClient {
	return &ShareClient{
		connection: client.connection,
	}
}

// Upsert creates the share or, when a row for the same (resource, user)
// already exists, overwrites its flags and granted_by in place.
func (client *ShareClient) Upsert(share Share) (Share, error) {
	err := client.connection.
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "resource_kind"},
				{Name: "resource_id"},
				{Name: "granted_to_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"granted_by_id",
				"can_read",
				"can_edit",
				"can_delete",
				"can_share",
				"updated_at",
			}),
		}).
		Create(&share).
		Error
	return share, err
}

func (client *ShareClient) FindByResourceAndUser(kind ResourceKind, resourceID uint, userID uint) (Share, error) {
	var share Share
	err := client.connection.
		Where("resource_kind = ?", kind).
		Where("resource_id = ?", resourceID).
		Where("granted_to_id = ?", userID).
		Take(&share).
		Error
	return share, err
}

func (client *ShareClient) FindAllByResource(kind ResourceKind, resourceID uint) ([]Share, error) {
	var shares []Share
	err := client.connection.
		Order("granted_to_id").
		Where("resource_kind = ?", kind).
		Where("resource_id = ?", resourceID).
		Find(&shares).
		Error
	return shares, err
}

// FindAllReadableByUser returns the shares granting can_read to a user for
// one kind of resource, for shared-with-me listings.
func (client *ShareClient) FindAllReadableByUser(kind ResourceKind, userID uint) ([]Share, error) {
	var shares []Share
	err := client.connection.
		Order("resource_id").
		Where("resource_kind = ?", kind).
		Where("granted_to_id = ?", userID).
		Where("can_read = ?", true).
		Find(&shares).
		Error
	return shares, err
}

// DeleteByResourceAndUser removes one share. Deleting an absent share is a
// no-op, not an error.
func (client *ShareClient) DeleteByResourceAndUser(kind ResourceKind, resourceID uint, userID uint) error {
	return client.connection.
		Where("resource_kind = ?", kind).
		Where("resource_id = ?", resourceID).
		Where("granted_to_id = ?", userID).
		Delete(&Share{}).
		Error
}

// DeleteAllByResources removes every share of the given resources, used when
// a subtree is deleted.
func (client *ShareClient) DeleteAllByResources(kind ResourceKind, resourceIDs []uint) error {
	if len(resourceIDs) == 0 {
		return nil
	}
	return client.connection.
		Where("resource_kind = ?", kind).
		Where("resource_id IN ?", resourceIDs).
		Delete(&Share{}).
		Error
}
