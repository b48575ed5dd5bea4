package sharing

import (
	"sync"
	"testing"

	"github.com/sharedrive/sharedrive/internal/db"
	"github.com/sharedrive/sharedrive/internal/resource"
	"github.com/sharedrive/sharedrive/internal/xlog"
	"github.com/stretchr/testify/require"
)

type Tester struct {
	dbClient *db.Client

	service         *Service
	resolver        *Resolver
	resourceService *resource.Service
}

func newTester(t *testing.T) Tester {
	t.Helper()

	dbClient, err := db.NewClient(db.DSNMemory, db.WithNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Truncate(dbClient, &db.User{}, &db.Resource{}, &db.Share{})
		dbClient.Close()
	})
	require.NoError(t, dbClient.Migrate())

	logger := xlog.Nop()
	mutationLock := &sync.Mutex{}
	reader := resource.NewReader(dbClient)
	resolver := NewResolver(dbClient, reader)
	propagator := NewPropagator(logger)
	return Tester{
		dbClient:        dbClient,
		service:         NewService(logger, dbClient, reader, resolver, propagator, mutationLock),
		resolver:        resolver,
		resourceService: resource.NewService(logger, dbClient, reader, propagator, mutationLock),
	}
}

func (tester Tester) createUser(t *testing.T, name string) db.User {
	t.Helper()
	user := db.User{Name: name}
	require.NoError(t, db.Create(tester.dbClient, &user))
	return user
}

func (tester Tester) mustShare(t *testing.T, share db.Share) {
	t.Helper()
	_, err := tester.dbClient.Share().Upsert(share)
	require.NoError(t, err)
}

func (tester Tester) readShare(t *testing.T, ref resource.Ref, userID uint) (db.Share, error) {
	t.Helper()
	return tester.dbClient.Share().FindByResourceAndUser(ref.Kind, ref.ID, userID)
}
