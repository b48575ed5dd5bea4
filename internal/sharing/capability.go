package sharing

import (
	"fmt"

	"github.com/sharedrive/sharedrive/internal/db"
	"github.com/sharedrive/sharedrive/internal/resource"
	"github.com/sharedrive/sharedrive/internal/xerrors"
)

type Capability string

const (
	CapabilityRead   Capability = "read"
	CapabilityEdit   Capability = "edit"
	CapabilityDelete Capability = "delete"
	CapabilityShare  Capability = "share"
)

type Capabilities struct {
	CanRead   bool `json:"canRead"`
	CanEdit   bool `json:"canEdit"`
	CanDelete bool `json:"canDelete"`
	CanShare  bool `json:"canShare"`
}

func (caps Capabilities) Allows(capability Capability) (bool, error) {
	switch capability {
	case CapabilityRead:
		return caps.CanRead, nil
	case CapabilityEdit:
		return caps.CanEdit, nil
	case CapabilityDelete:
		return caps.CanDelete, nil
	case CapabilityShare:
		return caps.CanShare, nil
	}
	return false, fmt.Errorf("%w: unknown capability %q", xerrors.ErrInvalidArgument, capability)
}

// Grant is one stored capability set for a (resource, user) pair.
// GrantedToName is filled when the grant is read for display.
type Grant struct {
	Resource      resource.Ref `json:"resource"`
	GrantedByID   uint         `json:"grantedById"`
	GrantedToID   uint         `json:"grantedToId"`
	GrantedToName string       `json:"grantedToName,omitempty"`
	Capabilities
}

func grantFromShare(share db.Share) Grant {
	return Grant{
		Resource: resource.Ref{
			Kind: share.ResourceKind,
			ID:   share.ResourceID,
		},
		GrantedByID: share.GrantedByID,
		GrantedToID: share.GrantedToID,
		Capabilities: Capabilities{
			CanRead:   share.CanRead,
			CanEdit:   share.CanEdit,
			CanDelete: share.CanDelete,
			CanShare:  share.CanShare,
		},
	}
}

func newShare(ref resource.Ref, grantedByID uint, grantedToID uint, caps Capabilities) db.Share {
	return db.Share{
		ResourceKind: ref.Kind,
		ResourceID:   ref.ID,
		GrantedByID:  grantedByID,
		GrantedToID:  grantedToID,
		CanRead:      caps.CanRead,
		CanEdit:      caps.CanEdit,
		CanDelete:    caps.CanDelete,
		CanShare:     caps.CanShare,
	}
}
