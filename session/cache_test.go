package session_test

import (
	"context"
	"testing"

	"github.com/abdurrahim-bayraktar/Filmosphere/session"
	"github.com/abdurrahim-bayraktar/Filmosphere/tokenstore/inmem"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// fetchStub is a FetchFunc returning canned responses in order
type fetchStub struct {
	profiles []*session.UserProfile
	errs     []error
	calls    int
}

func (f *fetchStub) fetch(_ context.Context) (*session.UserProfile, error) {
	i := f.calls
	f.calls++
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	var profile *session.UserProfile
	if i < len(f.profiles) {
		profile = f.profiles[i]
	}
	return profile, err
}

func TestNewCache_PrimesFromStore(t *testing.T) {
	store, err := inmem.New()
	require.NoError(t, err)

	persisted := session.Session{
		AccessToken: "A1",
		Profile:     &session.UserProfile{ID: 1, Username: "alice"},
	}
	require.NoError(t, store.Save(persisted.Record()))

	cache, err := session.NewCache(store, (&fetchStub{}).fetch)
	require.NoError(t, err)
	require.Equal(t, "alice", cache.Get().Username)
}

func TestCache_ReplacesWholesaleAcrossAccounts(t *testing.T) {
	store, err := inmem.New()
	require.NoError(t, err)

	stub := &fetchStub{}
	cache, err := session.NewCache(store, stub.fetch)
	require.NoError(t, err)

	userA := &session.UserProfile{ID: 1, Username: "alice", Bio: "cinephile", IsStaff: true}
	require.NoError(t, cache.Set(userA))

	// User B has no bio and no staff flag; nothing of user A may survive
	userB := &session.UserProfile{ID: 2, Username: "bob"}
	require.NoError(t, cache.Set(userB))

	got := cache.Get()
	require.Equal(t, "bob", got.Username)
	require.Empty(t, got.Bio)
	require.False(t, got.IsAdmin())
}

func TestCache_RefreshFailureKeepsStaleProfile(t *testing.T) {
	store, err := inmem.New()
	require.NoError(t, err)

	stub := &fetchStub{errs: []error{errors.New("backend unreachable")}}
	cache, err := session.NewCache(store, stub.fetch)
	require.NoError(t, err)

	stale := &session.UserProfile{ID: 1, Username: "alice"}
	require.NoError(t, cache.Set(stale))

	_, err = cache.RefreshFromServer(context.Background())
	require.Error(t, err)

	// The stale profile keeps rendering until a refresh succeeds
	require.Equal(t, "alice", cache.Get().Username)
}

func TestCache_RefreshReplacesCacheAndStore(t *testing.T) {
	store, err := inmem.New()
	require.NoError(t, err)

	fresh := &session.UserProfile{ID: 1, Username: "alice", Bio: "updated"}
	stub := &fetchStub{profiles: []*session.UserProfile{fresh}}
	cache, err := session.NewCache(store, stub.fetch)
	require.NoError(t, err)

	got, err := cache.RefreshFromServer(context.Background())
	require.NoError(t, err)
	require.Equal(t, "updated", got.Bio)
	require.Equal(t, "updated", cache.Get().Bio)

	record, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, "updated", session.FromRecord(record).Profile.Bio)
}

func TestCache_GetReturnsACopy(t *testing.T) {
	store, err := inmem.New()
	require.NoError(t, err)

	cache, err := session.NewCache(store, (&fetchStub{}).fetch)
	require.NoError(t, err)
	require.NoError(t, cache.Set(&session.UserProfile{Username: "alice"}))

	cache.Get().Username = "mallory"
	require.Equal(t, "alice", cache.Get().Username)
}

func TestCache_Invalidate(t *testing.T) {
	store, err := inmem.New()
	require.NoError(t, err)

	cache, err := session.NewCache(store, (&fetchStub{}).fetch)
	require.NoError(t, err)
	require.NoError(t, cache.Set(&session.UserProfile{Username: "alice"}))

	cache.Invalidate()
	require.Nil(t, cache.Get())
}
