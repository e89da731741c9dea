package tasks_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdeck/internal/api"
	"taskdeck/internal/model"
	"taskdeck/internal/tasks"
	"taskdeck/internal/testutil"
)

func newManager(t *testing.T) (*tasks.Manager, *testutil.FakeAPI) {
	t.Helper()
	fake := testutil.NewFakeAPI()
	return tasks.NewManager(fake), fake
}

func TestLoadReplacesCollection(t *testing.T) {
	mgr, fake := newManager(t)
	fake.AddTask("write report", "", false)
	fake.AddTask("ship build", "", true)

	require.NoError(t, mgr.Load(context.Background()))

	got := mgr.Tasks()
	require.Len(t, got, 2)
	assert.Equal(t, "write report", got[0].Title)
	pending, completed := mgr.Counts()
	assert.Equal(t, 1, pending)
	assert.Equal(t, 1, completed)
}

func TestLoadEmptyCollection(t *testing.T) {
	mgr, _ := newManager(t)

	require.NoError(t, mgr.Load(context.Background()))
	assert.Empty(t, mgr.Tasks())
}

func TestCreateReconcilesFromServer(t *testing.T) {
	mgr, fake := newManager(t)

	require.NoError(t, mgr.Create(context.Background(), "new task", "details", false))

	assert.Equal(t, 1, fake.CreateCalls)
	assert.Equal(t, 1, fake.ListCalls, "create must reload the collection")
	got := mgr.Tasks()
	require.Len(t, got, 1)
	assert.Equal(t, "new task", got[0].Title)
	assert.Equal(t, "details", got[0].Description)
}

func TestCreateBlankTitleNeverReachesServer(t *testing.T) {
	mgr, fake := newManager(t)

	err := mgr.Create(context.Background(), "   ", "", false)

	var validation *tasks.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Zero(t, fake.CreateCalls)
	assert.Zero(t, fake.ListCalls)
	assert.Equal(t, "title must not be empty", mgr.Message())
}

func TestCreateServerErrorKeepsCollection(t *testing.T) {
	mgr, fake := newManager(t)
	fake.AddTask("existing", "", false)
	require.NoError(t, mgr.Load(context.Background()))

	fake.CreateErr = &api.ServerError{Status: 500, Message: "database unavailable"}
	err := mgr.Create(context.Background(), "doomed", "", false)

	require.Error(t, err)
	got := mgr.Tasks()
	require.Len(t, got, 1)
	assert.Equal(t, "existing", got[0].Title)
	assert.Equal(t, "database unavailable", mgr.Message(), "server messages are shown verbatim")
}

func TestTransportErrorGetsGenericMessage(t *testing.T) {
	mgr, fake := newManager(t)
	fake.ListErr = &api.TransportError{Err: errors.New("dial tcp: connection refused")}

	require.Error(t, mgr.Load(context.Background()))
	assert.Equal(t, "cannot reach the server, check your connection", mgr.Message())
}

func TestAuthErrorsLeaveMessageEmpty(t *testing.T) {
	mgr, fake := newManager(t)
	fake.ListErr = api.ErrUnauthorized

	require.ErrorIs(t, mgr.Load(context.Background()), api.ErrUnauthorized)
	assert.Empty(t, mgr.Message(), "auth failures are reported by the session change, not the message slot")
}

func TestSuccessClearsMessage(t *testing.T) {
	mgr, fake := newManager(t)
	fake.CreateErr = &api.ServerError{Status: 500, Message: "boom"}
	_ = mgr.Create(context.Background(), "x", "", false)
	require.Equal(t, "boom", mgr.Message())

	fake.CreateErr = nil
	require.NoError(t, mgr.Create(context.Background(), "x", "", false))
	assert.Empty(t, mgr.Message())
}

func TestDeleteReconciles(t *testing.T) {
	mgr, fake := newManager(t)
	id := fake.AddTask("to remove", "", false)
	require.NoError(t, mgr.Load(context.Background()))

	require.NoError(t, mgr.Delete(context.Background(), id))

	assert.Empty(t, mgr.Tasks())
	assert.Equal(t, 0, fake.TaskCount())
}

func TestCollectionNeverDrifts(t *testing.T) {
	mgr, fake := newManager(t)
	ctx := context.Background()

	require.NoError(t, mgr.Load(ctx))
	require.NoError(t, mgr.Create(ctx, "a", "", false))
	require.NoError(t, mgr.Create(ctx, "b", "", true))
	require.NoError(t, mgr.Delete(ctx, mgr.Tasks()[0].ID))

	server, err := fake.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, server, mgr.Tasks(), "local collection must equal server state after any sequence")
}

func TestByNumber(t *testing.T) {
	mgr, fake := newManager(t)
	fake.AddTask("first", "", false)
	fake.AddTask("second", "", false)
	require.NoError(t, mgr.Load(context.Background()))

	task, ok := mgr.ByNumber(2)
	require.True(t, ok)
	assert.Equal(t, "second", task.Title)

	_, ok = mgr.ByNumber(0)
	assert.False(t, ok)
	_, ok = mgr.ByNumber(3)
	assert.False(t, ok)
}

type gatedAPI struct {
	*testutil.FakeAPI
	entered chan struct{}
	release chan struct{}
}

func (g *gatedAPI) List(ctx context.Context) ([]model.Task, error) {
	g.entered <- struct{}{}
	<-g.release
	return g.FakeAPI.List(ctx)
}

func TestBusyRejectsSecondOperation(t *testing.T) {
	gated := &gatedAPI{
		FakeAPI: testutil.NewFakeAPI(),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	mgr := tasks.NewManager(gated)

	done := make(chan error, 1)
	go func() { done <- mgr.Load(context.Background()) }()

	<-gated.entered
	assert.True(t, mgr.Busy())
	err := mgr.Create(context.Background(), "while busy", "", false)
	require.ErrorIs(t, err, tasks.ErrBusy)
	assert.Zero(t, gated.CreateCalls, "rejected operation must not reach the server")

	close(gated.release)
	require.NoError(t, <-done)
	assert.False(t, mgr.Busy())
}
