package db

type ResourceKind string

const (
	// RootFolderID is the synthetic parent of top level resources. No row
	// exists for it.
	RootFolderID = 0

	ResourceKindFolder ResourceKind = "folder"
	ResourceKindFile   ResourceKind = "file"
)

// Resource is a folder or a file. Both kinds live in one table so that share
// records can address either through (kind, id).
type Resource struct {
	ID        uint         `gorm:"primarykey"`
	Kind      ResourceKind `gorm:"uniqueIndex:idx_owner_parent_kind_name"`
	Name      string       `gorm:"uniqueIndex:idx_owner_parent_kind_name"`
	OwnerID   uint         `gorm:"uniqueIndex:idx_owner_parent_kind_name"`
	ParentID  uint         `gorm:"uniqueIndex:idx_owner_parent_kind_name"`
	CreatedAt uint         `gorm:"autoCreateTime"`
	UpdatedAt uint         `gorm:"autoUpdateTime"`
}

type ResourceClient ORMClient[Resource]

func (client *Client) Resource() *ResourceClient {
	return &ResourceClient{
		connection: client.connection,
	}
}

func (client *ResourceClient) FindByKindAndID(kind ResourceKind, id uint) (Resource, error) {
	var res Resource
	err := client.connection.
		Where("kind = ?", kind).
		Where("id = ?", id).
		Take(&res).
		Error
	return res, err
}

func (client *ResourceClient) FindAllByOwnerID(ownerID uint) ([]Resource, error) {
	var resources []Resource
	err := client.connection.
		Order("created_at desc").
		Where("owner_id = ?", ownerID).
		Find(&resources).
		Error
	return resources, err
}

func (client *ResourceClient) FindAllByKindAndIDs(kind ResourceKind, ids []uint) ([]Resource, error) {
	var resources []Resource
	err := client.connection.
		Order("created_at desc").
		Where("kind = ?", kind).
		Where("id IN ?", ids).
		Find(&resources).
		Error
	return resources, err
}

// CountByName reports how many resources of the same kind already carry a
// name within one (owner, parent) location.
func (client *ResourceClient) CountByName(kind ResourceKind, ownerID uint, parentID uint, name string) (int64, error) {
	var count int64
	err := client.connection.
		Model(&Resource{}).
		Where("kind = ?", kind).
		Where("owner_id = ?", ownerID).
		Where("parent_id = ?", parentID).
		Where("name = ?", name).
		Count(&count).
		Error
	return count, err
}

func (client *ResourceClient) Update(res *Resource) error {
	return client.connection.Save(res).Error
}

func (client *ResourceClient) DeleteByKindAndIDs(kind ResourceKind, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return client.connection.
		Where("kind = ?", kind).
		Where("id IN ?", ids).
		Delete(&Resource{}).
		Error
}
