package sharing

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sharedrive/sharedrive/internal/db"
	"github.com/sharedrive/sharedrive/internal/resource"
	"github.com/sharedrive/sharedrive/internal/xerrors"
	"github.com/sharedrive/sharedrive/internal/xslices"
)

var (
	ErrSelfShare    = fmt.Errorf("%w: cannot share a resource with yourself", xerrors.ErrPermissionDenied)
	ErrUnshareOwner = fmt.Errorf("%w: cannot unshare a resource from its owner", xerrors.ErrPermissionDenied)
	ErrCannotShare  = fmt.Errorf("%w: sharing this resource requires the share capability", xerrors.ErrPermissionDenied)
)

// Service orchestrates share and unshare requests: it authorizes the actor,
// writes the share rows and runs the propagation, reporting per-user success
// and failure instead of failing a whole batch on one bad username.
type Service struct {
	logger     *slog.Logger
	dbClient   *db.Client
	reader     *resource.Reader
	resolver   *Resolver
	propagator *Propagator

	// mutation serializes share writes with structural changes. Shared with
	// the resource service so propagation never races a concurrent move.
	mutation *sync.Mutex
}

func NewService(
	logger *slog.Logger,
	dbClient *db.Client,
	reader *resource.Reader,
	resolver *Resolver,
	propagator *Propagator,
	mutationLock *sync.Mutex,
) *Service {
	return &Service{
		logger:     logger,
		dbClient:   dbClient,
		reader:     reader,
		resolver:   resolver,
		propagator: propagator,
		mutation:   mutationLock,
	}
}

type ShareResult struct {
	Granted []string `json:"granted"`
	Failed  []string `json:"failed"`
}

type UnshareResult struct {
	Revoked []string `json:"revoked"`
	Failed  []string `json:"failed"`
}

type shareTarget struct {
	username string
	userID   uint
}

// Share grants caps on a resource to each named user. Unknown usernames land
// in the failed list without aborting the batch; sharing with yourself
// aborts the whole request before anything is written. For a folder the
// grant is propagated to the entire subtree before the call returns, with
// each user's root share and subtree writes committed atomically.
func (service *Service) Share(actorID uint, ref resource.Ref, usernames []string, caps Capabilities) (ShareResult, error) {
	res, err := service.reader.ReadResource(ref)
	if err != nil {
		return ShareResult{}, fmt.Errorf("reader.ReadResource: %w", err)
	}
	if err := service.authorizeShare(actorID, ref); err != nil {
		return ShareResult{}, err
	}

	result := ShareResult{
		Granted: []string{},
		Failed:  []string{},
	}
	targets, err := service.resolveTargets(usernames, actorID, &result.Failed)
	if err != nil {
		return ShareResult{}, err
	}

	service.mutation.Lock()
	defer service.mutation.Unlock()

	for _, target := range targets {
		if target.userID == res.OwnerID {
			// the owner already holds every capability without a share row
			result.Failed = append(result.Failed, target.username)
			continue
		}

		err := service.dbClient.Transaction(func(tx *db.Client) error {
			if _, err := tx.Share().Upsert(newShare(ref, actorID, target.userID, caps)); err != nil {
				return fmt.Errorf("Share.Upsert: %w", err)
			}
			if !ref.IsFolder() {
				return nil
			}

			folder, err := resource.NewReader(tx).ReadFolder(ref.ID)
			if err != nil {
				return fmt.Errorf("reader.ReadFolder: %w", err)
			}
			return service.propagator.PropagateGrant(tx, folder, actorID, target.userID, caps)
		})
		if err != nil {
			return result, fmt.Errorf("share with %s: %w", target.username, err)
		}
		result.Granted = append(result.Granted, target.username)
	}

	service.logger.Info("shared a resource",
		"ref", ref,
		"actorID", actorID,
		"granted", len(result.Granted),
		"failed", len(result.Failed),
	)
	return result, nil
}

// Unshare removes the named users' shares on a resource. Descendant shares
// are materialized copies and deliberately stay in place. Removing an absent
// share succeeds, unknown usernames land in the failed list, and naming the
// owner aborts the whole request.
func (service *Service) Unshare(actorID uint, ref resource.Ref, usernames []string) (UnshareResult, error) {
	res, err := service.reader.ReadResource(ref)
	if err != nil {
		return UnshareResult{}, fmt.Errorf("reader.ReadResource: %w", err)
	}
	if err := service.authorizeShare(actorID, ref); err != nil {
		return UnshareResult{}, err
	}

	result := UnshareResult{
		Revoked: []string{},
		Failed:  []string{},
	}
	targets, err := service.resolveTargets(usernames, 0, &result.Failed)
	if err != nil {
		return UnshareResult{}, err
	}
	for _, target := range targets {
		if target.userID == res.OwnerID {
			return UnshareResult{}, fmt.Errorf("%w: %s", ErrUnshareOwner, target.username)
		}
	}

	service.mutation.Lock()
	defer service.mutation.Unlock()

	for _, target := range targets {
		if err := service.dbClient.Share().DeleteByResourceAndUser(ref.Kind, ref.ID, target.userID); err != nil {
			return result, fmt.Errorf("Share.DeleteByResourceAndUser: %w", err)
		}
		result.Revoked = append(result.Revoked, target.username)
	}

	service.logger.Info("unshared a resource",
		"ref", ref,
		"actorID", actorID,
		"revoked", len(result.Revoked),
		"failed", len(result.Failed),
	)
	return result, nil
}

// ListGrants returns every share of one resource, for "who has access"
// displays.
func (service *Service) ListGrants(ref resource.Ref) ([]Grant, error) {
	if _, err := service.reader.ReadResource(ref); err != nil {
		return nil, fmt.Errorf("reader.ReadResource: %w", err)
	}

	shares, err := service.dbClient.Share().FindAllByResource(ref.Kind, ref.ID)
	if err != nil {
		return nil, fmt.Errorf("Share.FindAllByResource: %w", err)
	}
	grants := xslices.Map(shares, grantFromShare)
	if len(grants) == 0 {
		return grants, nil
	}

	users, err := service.dbClient.User().FindAllByIDs(xslices.Map(shares, func(share db.Share) uint {
		return share.GrantedToID
	}))
	if err != nil {
		return nil, fmt.Errorf("User.FindAllByIDs: %w", err)
	}
	names := make(map[uint]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}
	for i := range grants {
		grants[i].GrantedToName = names[grants[i].GrantedToID]
	}
	return grants, nil
}

// ListSharedWithUser returns the resources of one kind a user can read
// through shares, for shared-with-me listings.
func (service *Service) ListSharedWithUser(userID uint, kind db.ResourceKind) ([]db.Resource, error) {
	shares, err := service.dbClient.Share().FindAllReadableByUser(kind, userID)
	if err != nil {
		return nil, fmt.Errorf("Share.FindAllReadableByUser: %w", err)
	}
	if len(shares) == 0 {
		return nil, nil
	}

	ids := xslices.Map(shares, func(share db.Share) uint {
		return share.ResourceID
	})
	resources, err := service.dbClient.Resource().FindAllByKindAndIDs(kind, ids)
	if err != nil {
		return nil, fmt.Errorf("Resource.FindAllByKindAndIDs: %w", err)
	}
	return resources, nil
}

func (service *Service) authorizeShare(actorID uint, ref resource.Ref) error {
	allowed, err := service.resolver.Resolve(actorID, ref, CapabilityShare)
	if err != nil {
		return fmt.Errorf("resolver.Resolve: %w", err)
	}
	if !allowed {
		return ErrCannotShare
	}
	return nil
}

// resolveTargets looks every username up, appending unknown ones to failed.
// A target equal to the actor aborts the request: sharing with yourself is
// rejected before anything mutates. actorID 0 skips that check.
func (service *Service) resolveTargets(usernames []string, actorID uint, failed *[]string) ([]shareTarget, error) {
	targets := make([]shareTarget, 0, len(usernames))
	for _, username := range usernames {
		user, err := service.dbClient.User().FindByName(username)
		if errors.Is(err, db.ErrRecordNotFound) {
			*failed = append(*failed, username)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("User.FindByName: %w", err)
		}
		if actorID != 0 && user.ID == actorID {
			return nil, fmt.Errorf("%w: %s", ErrSelfShare, username)
		}
		targets = append(targets, shareTarget{
			username: username,
			userID:   user.ID,
		})
	}
	return targets, nil
}
