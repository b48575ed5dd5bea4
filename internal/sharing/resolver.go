package sharing

import (
	"errors"
	"fmt"

	"github.com/sharedrive/sharedrive/internal/db"
	"github.com/sharedrive/sharedrive/internal/resource"
)

// Resolver answers "may this user perform this action on this resource".
// It never mutates state.
type Resolver struct {
	dbClient *db.Client
	reader   *resource.Reader
}

func NewResolver(dbClient *db.Client, reader *resource.Reader) *Resolver {
	return &Resolver{
		dbClient: dbClient,
		reader:   reader,
	}
}

// Resolve checks ownership first, then the stored share. The owner check
// deliberately precedes any share lookup: corrupt share rows must never lock
// an owner out of their own resource. An unknown resource is an error, while
// a missing share row is an ordinary deny.
func (resolver Resolver) Resolve(userID uint, ref resource.Ref, capability Capability) (bool, error) {
	res, err := resolver.reader.ReadResource(ref)
	if err != nil {
		return false, fmt.Errorf("reader.ReadResource: %w", err)
	}
	if res.OwnerID == userID {
		return true, nil
	}

	share, err := resolver.dbClient.Share().FindByResourceAndUser(ref.Kind, ref.ID, userID)
	if errors.Is(err, db.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("Share.FindByResourceAndUser: %w", err)
	}
	return grantFromShare(share).Allows(capability)
}
