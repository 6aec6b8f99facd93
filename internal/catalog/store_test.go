package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinemaweb/internal/api"
)

type fakeLister struct {
	calls []api.ListParams
	items []api.Movie
	err   error
}

func (f *fakeLister) ListMovies(_ context.Context, p api.ListParams) ([]api.Movie, error) {
	f.calls = append(f.calls, p)
	return f.items, f.err
}

func ptr[T any](v T) *T { return &v }

func TestNewStore_Defaults(t *testing.T) {
	s := NewStore(&fakeLister{})
	snap := s.Snapshot()
	assert.Equal(t, StatusIdle, snap.Status)
	assert.Equal(t, api.ListParams{Limit: 40, Order: "newest"}, snap.Params)
	assert.Empty(t, snap.Items)
}

func TestLoad_MergesOverrideAndKeepsParams(t *testing.T) {
	l := &fakeLister{items: []api.Movie{{ID: 1, Title: "Alien"}}}
	s := NewStore(l)
	s.SetParams(Filter{Genre: ptr("Sci-Fi")})

	items, err := s.Load(context.Background(), Filter{Q: ptr("alien"), Offset: ptr(40)})
	require.NoError(t, err)
	require.Len(t, items, 1)

	want := api.ListParams{Q: "alien", Genre: "Sci-Fi", Limit: 40, Offset: 40, Order: "newest"}
	require.Len(t, l.calls, 1)
	assert.Equal(t, want, l.calls[0])

	snap := s.Snapshot()
	assert.Equal(t, StatusSucceeded, snap.Status)
	assert.Equal(t, want, snap.Params)
	assert.Equal(t, "Alien", snap.Items[0].Title)
}

func TestLoad_FailureKeepsParamsAndItems(t *testing.T) {
	l := &fakeLister{items: []api.Movie{{ID: 1}}}
	s := NewStore(l, WithTTL(0))
	_, err := s.Load(context.Background(), Filter{})
	require.NoError(t, err)

	l.err = &api.RequestError{Kind: api.KindNetwork}
	_, err = s.Load(context.Background(), Filter{Q: ptr("x")})
	require.Error(t, err)

	snap := s.Snapshot()
	assert.Equal(t, StatusFailed, snap.Status)
	assert.Equal(t, "Failed to load movies", snap.Error)
	assert.Empty(t, snap.Params.Q)
	assert.Len(t, snap.Items, 1)
}

func TestLoad_ServerMessage(t *testing.T) {
	l := &fakeLister{err: &api.RequestError{Kind: api.KindHTTP, Status: 422, Message: "Invalid genre"}}
	s := NewStore(l)
	_, err := s.Load(context.Background(), Filter{})
	require.Error(t, err)
	assert.Equal(t, "Invalid genre", s.Snapshot().Error)
}

func TestLoad_CachesUntilTTLOrInvalidate(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l := &fakeLister{items: []api.Movie{{ID: 1}}}
	s := NewStore(l, WithTTL(time.Minute), WithClock(func() time.Time { return now }))

	for i := 0; i < 3; i++ {
		_, err := s.Load(context.Background(), Filter{})
		require.NoError(t, err)
	}
	assert.Len(t, l.calls, 1)

	_, err := s.Load(context.Background(), Filter{Genre: ptr("Drama")})
	require.NoError(t, err)
	assert.Len(t, l.calls, 2, "different params miss the cache")

	now = now.Add(2 * time.Minute)
	_, err = s.Load(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Len(t, l.calls, 3)

	s.Invalidate()
	_, err = s.Load(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Len(t, l.calls, 4)
}

func TestWithPageSize(t *testing.T) {
	s := NewStore(&fakeLister{}, WithPageSize(12))
	assert.Equal(t, 12, s.Params().Limit)
}

func TestFetch_LeavesStoredParamsAlone(t *testing.T) {
	l := &fakeLister{items: []api.Movie{{ID: 1}}}
	s := NewStore(l)

	params := Filter{IsPremium: ptr(true), Limit: ptr(1)}.Apply(s.Defaults())
	_, err := s.Fetch(context.Background(), params)
	require.NoError(t, err)

	snap := s.Snapshot()
	assert.Equal(t, StatusIdle, snap.Status)
	assert.Equal(t, s.Defaults(), snap.Params)

	_, err = s.Fetch(context.Background(), s.Defaults())
	require.NoError(t, err)
	require.Len(t, l.calls, 2)
	assert.Nil(t, l.calls[1].IsPremium)
	assert.Equal(t, 40, l.calls[1].Limit)
}

func TestFilter_AnyPremiumClears(t *testing.T) {
	s := NewStore(&fakeLister{})
	s.SetParams(Filter{IsPremium: ptr(false)})
	require.NotNil(t, s.Params().IsPremium)

	s.SetParams(Filter{AnyPremium: true})
	assert.Nil(t, s.Params().IsPremium)
}

func TestDefaults_FollowPageSize(t *testing.T) {
	s := NewStore(&fakeLister{}, WithPageSize(12))
	assert.Equal(t, api.ListParams{Limit: 12, Order: "newest"}, s.Defaults())
}
