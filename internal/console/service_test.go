package console

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gurkunwar/dailybot-console/internal/cache"
	"github.com/Gurkunwar/dailybot-console/internal/client"
	"github.com/Gurkunwar/dailybot-console/internal/models"
	"github.com/Gurkunwar/dailybot-console/internal/query"
	"github.com/Gurkunwar/dailybot-console/pkg/apperrors"
)

// fakeBackend acts as the server: mutations change its state, queries
// read it, and every call is counted.
type fakeBackend struct {
	standups map[uint]models.Standup
	channels map[string][]models.Channel
	members  map[string][]models.Member
	history  map[uint][]models.HistoryEntry

	calls map[string]int

	updateErr error
	toggleErr error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		standups: make(map[uint]models.Standup),
		channels: make(map[string][]models.Channel),
		members:  make(map[string][]models.Member),
		history:  make(map[uint][]models.HistoryEntry),
		calls:    make(map[string]int),
	}
}

func (f *fakeBackend) UserGuilds(ctx context.Context) ([]models.Guild, error) {
	f.calls["user-guilds"]++
	return []models.Guild{
		{ID: "g1", Name: "Guild One", Owner: true, BotPresent: true},
		{ID: "g2", Name: "Just A Member", Permissions: "0"},
	}, nil
}

func (f *fakeBackend) GuildChannels(ctx context.Context, guildID string) ([]models.Channel, error) {
	f.calls["guild-channels"]++
	return f.channels[guildID], nil
}

func (f *fakeBackend) GuildMembers(ctx context.Context, guildID string) ([]models.Member, error) {
	f.calls["guild-members"]++
	return f.members[guildID], nil
}

func (f *fakeBackend) Standup(ctx context.Context, id uint) (models.Standup, error) {
	f.calls["standup"]++
	st, ok := f.standups[id]
	if !ok {
		return models.Standup{}, apperrors.NotFound("standup not found")
	}
	return st, nil
}

func (f *fakeBackend) ManagedStandups(ctx context.Context) ([]models.ManagedStandup, error) {
	f.calls["managed-standups"]++
	out := make([]models.ManagedStandup, 0, len(f.standups))
	for _, st := range f.standups {
		out = append(out, models.ManagedStandup{ID: st.ID, Name: st.Name, Time: st.Time})
	}
	return out, nil
}

func (f *fakeBackend) History(ctx context.Context, standupID uint) ([]models.HistoryEntry, error) {
	f.calls["history"]++
	return f.history[standupID], nil
}

func (f *fakeBackend) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	f.calls["stats"]++
	return models.DashboardStats{TotalTeams: len(f.standups)}, nil
}

func (f *fakeBackend) CreateStandup(ctx context.Context, req client.CreateStandupRequest) error {
	f.calls["create"]++
	id := uint(len(f.standups) + 1)
	f.standups[id] = models.Standup{
		ID: id, Name: req.Name, Time: req.Time,
		GuildID: req.GuildID, ReportChannelID: req.ReportChannelID,
		Questions: req.Questions,
	}
	return nil
}

func (f *fakeBackend) UpdateStandup(ctx context.Context, req client.UpdateStandupRequest) error {
	f.calls["update"]++
	if f.updateErr != nil {
		return f.updateErr
	}
	st := f.standups[req.ID]
	st.Name, st.Time = req.Name, req.Time
	st.ReportChannelID, st.Questions = req.ReportChannelID, req.Questions
	f.standups[req.ID] = st
	return nil
}

func (f *fakeBackend) AddMember(ctx context.Context, standupID uint, userID string) error {
	f.calls["add-member"]++
	if f.toggleErr != nil {
		return f.toggleErr
	}
	st := f.standups[standupID]
	st.Participants = append(st.Participants, models.Participant{UserID: userID})
	f.standups[standupID] = st
	return nil
}

func (f *fakeBackend) RemoveMember(ctx context.Context, standupID uint, userID string) error {
	f.calls["remove-member"]++
	if f.toggleErr != nil {
		return f.toggleErr
	}
	st := f.standups[standupID]
	kept := st.Participants[:0]
	for _, p := range st.Participants {
		if p.UserID != userID {
			kept = append(kept, p)
		}
	}
	st.Participants = kept
	f.standups[standupID] = st
	return nil
}

func newTestService() (*Service, *fakeBackend) {
	backend := newFakeBackend()
	backend.standups[7] = models.Standup{
		ID: 7, Name: "Backend Sync", Time: "09:00", GuildID: "g1",
		ReportChannelID: "c1",
		Questions:       []string{"What did you do yesterday?", "What will you do today?"},
	}
	backend.channels["g1"] = []models.Channel{{ID: "c1", Name: "general"}, {ID: "c2", Name: "reports"}}
	backend.members["g1"] = []models.Member{
		{ID: "u1", Username: "alice"},
		{ID: "u2", Username: "bob"},
	}
	return New(backend, query.New(cache.NewStore()), nil), backend
}

func TestSkippedQueriesNeverHitTheNetwork(t *testing.T) {
	svc, backend := newTestService()
	ctx := context.Background()

	_, res := svc.GuildChannels(ctx, "")
	assert.Equal(t, query.StatusIdle, res.Status)

	_, res = svc.GuildMembers(ctx, "")
	assert.Equal(t, query.StatusIdle, res.Status)

	assert.Equal(t, 0, backend.calls["guild-channels"])
	assert.Equal(t, 0, backend.calls["guild-members"])
}

func TestUserGuildsKeepsOnlyManageableGuilds(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	guilds, res := svc.UserGuilds(ctx)
	require.Equal(t, query.StatusSuccess, res.Status)
	require.Len(t, guilds, 1)
	assert.Equal(t, "g1", guilds[0].ID)
}

func TestStandupIsCachedAcrossReads(t *testing.T) {
	svc, backend := newTestService()
	ctx := context.Background()

	first, res := svc.Standup(ctx, 7)
	require.Equal(t, query.StatusSuccess, res.Status)
	second, _ := svc.Standup(ctx, 7)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, backend.calls["standup"])
}

func TestToggleMemberRefreshesWatchedStandup(t *testing.T) {
	svc, backend := newTestService()
	ctx := context.Background()

	standup, res := svc.Standup(ctx, 7)
	require.Equal(t, query.StatusSuccess, res.Status)
	require.False(t, standup.HasParticipant("u2"))

	unwatch := svc.Watch(StandupKey(7), func(any) {})
	defer unwatch()

	require.NoError(t, svc.ToggleMember(ctx, 7, "u2", false))
	assert.Equal(t, 1, backend.calls["add-member"])

	// no explicit refetch by the caller: the read below is served from
	// the cache the invalidation sweep already refreshed
	refreshed, _ := svc.Standup(ctx, 7)
	assert.True(t, refreshed.HasParticipant("u2"))
	assert.Equal(t, 2, backend.calls["standup"])

	require.NoError(t, svc.ToggleMember(ctx, 7, "u2", true))
	assert.Equal(t, 1, backend.calls["remove-member"])
	refreshed, _ = svc.Standup(ctx, 7)
	assert.False(t, refreshed.HasParticipant("u2"))
}

func TestFailedToggleLeavesCacheAlone(t *testing.T) {
	svc, backend := newTestService()
	ctx := context.Background()

	before, _ := svc.Standup(ctx, 7)
	unwatch := svc.Watch(StandupKey(7), func(any) {})
	defer unwatch()

	backend.toggleErr = apperrors.Server("standup is locked")
	err := svc.ToggleMember(ctx, 7, "u2", false)
	require.Error(t, err)

	after, _ := svc.Standup(ctx, 7)
	assert.Equal(t, before, after)
	assert.Equal(t, 1, backend.calls["standup"], "no refetch on failure")
}

func TestFailedUpdateLeavesCachedStandupIdentical(t *testing.T) {
	svc, backend := newTestService()
	ctx := context.Background()

	before, _ := svc.Standup(ctx, 7)
	unwatch := svc.Watch(StandupKey(7), func(any) {})
	defer unwatch()

	// seed the channel cache so validation passes locally
	_, cres := svc.GuildChannels(ctx, "g1")
	require.Equal(t, query.StatusSuccess, cres.Status)

	backend.updateErr = apperrors.Server("rejected")
	err := svc.UpdateStandup(ctx, 7, "g1", StandupForm{
		Name: "Renamed", Time: "10:00", ReportChannelID: "c2",
		Questions: []string{"Only question"},
	})
	require.Error(t, err)

	after, _ := svc.Standup(ctx, 7)
	assert.Equal(t, before, after, "cached entity must be exactly its pre-call value")
}

func TestUpdateStandupValidation(t *testing.T) {
	svc, backend := newTestService()
	ctx := context.Background()

	_, cres := svc.GuildChannels(ctx, "g1")
	require.Equal(t, query.StatusSuccess, cres.Status)

	t.Run("empty questions never reach the network", func(t *testing.T) {
		err := svc.UpdateStandup(ctx, 7, "g1", StandupForm{
			Name: "X", Time: "09:00", ReportChannelID: "c1",
			Questions: []string{"", "   "},
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		assert.Equal(t, 0, backend.calls["update"])
	})

	t.Run("channel must come from the fetched set", func(t *testing.T) {
		err := svc.UpdateStandup(ctx, 7, "g1", StandupForm{
			Name: "X", Time: "09:00", ReportChannelID: "not-a-channel",
			Questions: []string{"Q"},
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		assert.Equal(t, 0, backend.calls["update"])
	})

	t.Run("missing channel", func(t *testing.T) {
		err := svc.UpdateStandup(ctx, 7, "g1", StandupForm{
			Name: "X", Time: "09:00", Questions: []string{"Q"},
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestUpdateStandupRequiresFetchedChannelSet(t *testing.T) {
	svc, backend := newTestService()
	ctx := context.Background()

	// no GuildChannels call happened, so nothing is valid against the
	// guild yet, not even an ID the server would accept
	err := svc.UpdateStandup(ctx, 7, "g1", StandupForm{
		Name: "X", Time: "09:00", ReportChannelID: "c1",
		Questions: []string{"Q"},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, 0, backend.calls["update"])
}

func TestCreateStandupInvalidatesManagedList(t *testing.T) {
	svc, backend := newTestService()
	ctx := context.Background()

	list, res := svc.ManagedStandups(ctx)
	require.Equal(t, query.StatusSuccess, res.Status)
	require.Len(t, list, 1)

	unwatch := svc.Watch(cache.Key{Kind: cache.KindManagedStandups}, func(any) {})
	defer unwatch()

	_, cres := svc.GuildChannels(ctx, "g1")
	require.Equal(t, query.StatusSuccess, cres.Status)

	err := svc.CreateStandup(ctx, "g1", StandupForm{
		Name: "New Team", ReportChannelID: "c2",
		Questions: []string{" What is blocking you? "},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, backend.calls["create"])

	list, _ = svc.ManagedStandups(ctx)
	assert.Len(t, list, 2, "list view refreshed without an explicit refetch")
}

func TestCreateStandupRequiresGuildAndChannel(t *testing.T) {
	svc, backend := newTestService()
	ctx := context.Background()

	err := svc.CreateStandup(ctx, "", StandupForm{Name: "X", Questions: []string{"Q"}})
	assert.True(t, apperrors.IsValidation(err))

	err = svc.CreateStandup(ctx, "g1", StandupForm{Name: "X", Questions: []string{"Q"}})
	assert.True(t, apperrors.IsValidation(err))

	assert.Equal(t, 0, backend.calls["create"])
}

func TestHistoryHidesEmptySubmissions(t *testing.T) {
	svc, backend := newTestService()
	ctx := context.Background()

	backend.history[7] = []models.HistoryEntry{
		{ID: 1, StandupID: 7, UserID: "u1", Date: "2025-06-01", Answers: []string{"shipped the thing"}},
		{ID: 2, StandupID: 7, UserID: "u2", Date: "2025-06-01", Answers: nil},
		{ID: 3, StandupID: 7, UserID: "u1", Date: "2025-06-02", Answers: []string{}},
	}

	entries, res := svc.History(ctx, 7)
	require.Equal(t, query.StatusSuccess, res.Status)
	require.Len(t, entries, 1)
	assert.Equal(t, uint(1), entries[0].ID)
}

func TestQuestionsBoundEnforcedBeforeMutation(t *testing.T) {
	svc, backend := newTestService()
	ctx := context.Background()

	_, cres := svc.GuildChannels(ctx, "g1")
	require.Equal(t, query.StatusSuccess, cres.Status)

	err := svc.UpdateStandup(ctx, 7, "g1", StandupForm{
		Name: "X", Time: "09:00", ReportChannelID: "c1",
		Questions: []string{"1", "2", "3", "4", "5", "6"},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, 0, backend.calls["update"])
}
