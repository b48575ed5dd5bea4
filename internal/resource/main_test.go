package resource

import (
	"log/slog"
	"sync"
	"testing"

	"github.com/sharedrive/sharedrive/internal/db"
	"github.com/sharedrive/sharedrive/internal/xlog"
	"github.com/stretchr/testify/require"
)

type Tester struct {
	dbClient *db.Client
}

type testerOption struct {
	gormLoggerOption db.ClientOption
}

type newTesterOption func(*testerOption)

func withGormLogger(logger *slog.Logger) newTesterOption {
	return func(o *testerOption) {
		o.gormLoggerOption = db.WithGormLogger(logger)
	}
}

func newTester(t *testing.T, opts ...newTesterOption) Tester {
	t.Helper()
	defaultOption := &testerOption{
		gormLoggerOption: db.WithNopLogger(),
	}
	for _, opt := range opts {
		opt(defaultOption)
	}

	dbClient, err := db.NewClient(db.DSNMemory, defaultOption.gormLoggerOption)
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Truncate(dbClient, &db.User{}, &db.Resource{}, &db.Share{})
		dbClient.Close()
	})
	require.NoError(t, dbClient.Migrate())

	return Tester{
		dbClient: dbClient,
	}
}

func (tester Tester) getReader() *Reader {
	return NewReader(tester.dbClient)
}

func (tester Tester) getService(hook CreationHook) *Service {
	return NewService(
		xlog.Nop(),
		tester.dbClient,
		tester.getReader(),
		hook,
		&sync.Mutex{},
	)
}

// nopCreationHook is used where the test doesn't care about grant copies.
type nopCreationHook struct{}

func (nopCreationHook) OnResourceCreated(tx *db.Client, ref Ref, ownerID uint, parentID uint) error {
	return nil
}
