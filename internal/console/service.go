// Package console is the endpoint layer of the management console: it
// binds the HTTP client to the query and mutation coordinators so every
// view of an entity stays consistent without hand-rolled refresh logic.
package console

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/Gurkunwar/dailybot-console/internal/cache"
	"github.com/Gurkunwar/dailybot-console/internal/client"
	"github.com/Gurkunwar/dailybot-console/internal/editor"
	"github.com/Gurkunwar/dailybot-console/internal/invite"
	"github.com/Gurkunwar/dailybot-console/internal/models"
	"github.com/Gurkunwar/dailybot-console/internal/query"
	"github.com/Gurkunwar/dailybot-console/internal/snapshot"
	"github.com/Gurkunwar/dailybot-console/pkg/apperrors"
)

// Backend is the slice of the API client the service consumes;
// *client.Client implements it.
type Backend interface {
	UserGuilds(ctx context.Context) ([]models.Guild, error)
	GuildChannels(ctx context.Context, guildID string) ([]models.Channel, error)
	GuildMembers(ctx context.Context, guildID string) ([]models.Member, error)
	Standup(ctx context.Context, id uint) (models.Standup, error)
	ManagedStandups(ctx context.Context) ([]models.ManagedStandup, error)
	History(ctx context.Context, standupID uint) ([]models.HistoryEntry, error)
	DashboardStats(ctx context.Context) (models.DashboardStats, error)
	CreateStandup(ctx context.Context, req client.CreateStandupRequest) error
	UpdateStandup(ctx context.Context, req client.UpdateStandupRequest) error
	AddMember(ctx context.Context, standupID uint, userID string) error
	RemoveMember(ctx context.Context, standupID uint, userID string) error
}

type Service struct {
	api       Backend
	queries   *query.Coordinator
	snapshots *snapshot.Store // optional, nil disables offline copies
}

func New(api Backend, queries *query.Coordinator, snapshots *snapshot.Store) *Service {
	return &Service{api: api, queries: queries, snapshots: snapshots}
}

func (s *Service) Queries() *query.Coordinator { return s.queries }

// Cache keys, one per (resource, parameters) pair.

var (
	keyUserGuilds      = cache.Key{Kind: cache.KindGuilds}
	keyManagedStandups = cache.Key{Kind: cache.KindManagedStandups}
	keyDashboardStats  = cache.Key{Kind: cache.KindDashboardStats}
)

func channelsKey(guildID string) cache.Key {
	return cache.Key{Kind: cache.KindChannels, ID: guildID}
}

func membersKey(guildID string) cache.Key {
	return cache.Key{Kind: cache.KindMembers, ID: guildID}
}

// StandupKey addresses one standup's cached entity.
func StandupKey(id uint) cache.Key {
	return cache.Key{Kind: cache.KindStandup, ID: strconv.FormatUint(uint64(id), 10)}
}

func historyKey(standupID uint) cache.Key {
	return cache.Key{Kind: cache.KindHistory, ID: strconv.FormatUint(uint64(standupID), 10)}
}

// Queries

// UserGuilds lists the guilds the user can manage standups in: owner,
// ADMINISTRATOR or MANAGE_GUILD, per the raw permission payload.
func (s *Service) UserGuilds(ctx context.Context) ([]models.Guild, query.Result) {
	res := s.queries.Fetch(ctx, query.Spec{
		Key: keyUserGuilds,
		Fetch: func(ctx context.Context) (any, error) {
			guilds, err := s.api.UserGuilds(ctx)
			if err != nil {
				return nil, err
			}
			return invite.FilterManageable(guilds), nil
		},
	})
	guilds, _ := query.As[[]models.Guild](res)
	return guilds, res
}

// GuildChannels is skipped while no guild is selected: no network call,
// status idle.
func (s *Service) GuildChannels(ctx context.Context, guildID string) ([]models.Channel, query.Result) {
	res := s.queries.Fetch(ctx, query.Spec{
		Key:  channelsKey(guildID),
		Skip: guildID == "",
		Fetch: func(ctx context.Context) (any, error) {
			return s.api.GuildChannels(ctx, guildID)
		},
	})
	channels, _ := query.As[[]models.Channel](res)
	return channels, res
}

func (s *Service) GuildMembers(ctx context.Context, guildID string) ([]models.Member, query.Result) {
	res := s.queries.Fetch(ctx, query.Spec{
		Key:  membersKey(guildID),
		Skip: guildID == "",
		Tags: []query.Tag{query.MembersTag()},
		Fetch: func(ctx context.Context) (any, error) {
			return s.api.GuildMembers(ctx, guildID)
		},
	})
	members, _ := query.As[[]models.Member](res)
	return members, res
}

func (s *Service) Standup(ctx context.Context, id uint) (models.Standup, query.Result) {
	res := s.queries.Fetch(ctx, query.Spec{
		Key:  StandupKey(id),
		Tags: []query.Tag{query.StandupTag(id)},
		Fetch: func(ctx context.Context) (any, error) {
			return s.api.Standup(ctx, id)
		},
	})
	standup, _ := query.As[models.Standup](res)
	return standup, res
}

// ManagedStandups fetches the list view, refreshing the offline snapshot
// on success and falling back to it when the network fails.
func (s *Service) ManagedStandups(ctx context.Context) ([]models.ManagedStandup, query.Result) {
	res := s.queries.Fetch(ctx, query.Spec{
		Key:  keyManagedStandups,
		Tags: []query.Tag{query.ManagedStandupsTag()},
		Fetch: func(ctx context.Context) (any, error) {
			standups, err := s.api.ManagedStandups(ctx)
			if err != nil {
				return nil, err
			}
			s.saveManagedSnapshot(standups)
			return standups, nil
		},
	})
	if res.Status == query.StatusError && res.Data == nil && s.snapshots != nil {
		if cached, err := s.snapshots.LoadManaged(); err == nil && len(cached) > 0 {
			res.Data = cached
		}
	}
	standups, _ := query.As[[]models.ManagedStandup](res)
	return standups, res
}

// History returns submitted entries only; rows without answers are
// prompt shells, not reports, and are hidden from every view.
func (s *Service) History(ctx context.Context, standupID uint) ([]models.HistoryEntry, query.Result) {
	res := s.queries.Fetch(ctx, query.Spec{
		Key:  historyKey(standupID),
		Tags: []query.Tag{query.HistoryTag()},
		Fetch: func(ctx context.Context) (any, error) {
			entries, err := s.api.History(ctx, standupID)
			if err != nil {
				return nil, err
			}
			submitted := models.FilterSubmitted(entries)
			s.saveHistorySnapshot(standupID, submitted)
			return submitted, nil
		},
	})
	if res.Status == query.StatusError && res.Data == nil && s.snapshots != nil {
		if cached, err := s.snapshots.LoadHistory(standupID); err == nil && len(cached) > 0 {
			res.Data = cached
		}
	}
	entries, _ := query.As[[]models.HistoryEntry](res)
	return entries, res
}

func (s *Service) DashboardStats(ctx context.Context) (models.DashboardStats, query.Result) {
	res := s.queries.Fetch(ctx, query.Spec{
		Key: keyDashboardStats,
		Fetch: func(ctx context.Context) (any, error) {
			return s.api.DashboardStats(ctx)
		},
	})
	stats, _ := query.As[models.DashboardStats](res)
	return stats, res
}

func (s *Service) saveManagedSnapshot(standups []models.ManagedStandup) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.SaveManaged(standups); err != nil {
		log.Printf("Warning: failed to write managed-standups snapshot: %v", err)
	}
}

func (s *Service) saveHistorySnapshot(standupID uint, entries []models.HistoryEntry) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.SaveHistory(standupID, entries); err != nil {
		log.Printf("Warning: failed to write history snapshot: %v", err)
	}
}

// Watch registers fn against a cache key; while at least one watcher is
// registered, invalidating the key refetches it instead of dropping it.
func (s *Service) Watch(key cache.Key, fn func(value any)) (unwatch func()) {
	handle := s.queries.Store().Subscribe(key, fn)
	return func() { s.queries.Store().Unsubscribe(key, handle) }
}

// Mutations

// StandupForm carries the editable fields of a standup.
type StandupForm struct {
	Name            string
	Time            string
	ReportChannelID string
	Questions       []string
}

// validate enforces the local invariants before anything reaches the
// network; channels must come from the set most recently fetched for the
// owning guild.
func (s *Service) validateForm(form StandupForm, guildID string) ([]string, error) {
	if form.Name == "" {
		return nil, apperrors.Validation("standup name is required")
	}
	questions, err := editor.New(form.Questions).Commit()
	if err != nil {
		return nil, err
	}
	if len(questions) > models.MaxQuestions {
		return nil, apperrors.Validation(fmt.Sprintf("at most %d questions are allowed", models.MaxQuestions))
	}
	if form.ReportChannelID == "" {
		return nil, apperrors.Validation("please select a report channel")
	}
	if guildID != "" {
		v, ok := s.queries.Store().Get(channelsKey(guildID))
		if !ok {
			return nil, apperrors.Validation("channels for the selected server have not been loaded")
		}
		channels, _ := v.([]models.Channel)
		found := false
		for _, c := range channels {
			if c.ID == form.ReportChannelID {
				found = true
				break
			}
		}
		if !found {
			return nil, apperrors.Validation("report channel does not belong to the selected server")
		}
	}
	return questions, nil
}

// CreateStandup validates locally, issues the create, and invalidates
// the managed-standups list so every open list view refetches.
func (s *Service) CreateStandup(ctx context.Context, guildID string, form StandupForm) error {
	if guildID == "" {
		return apperrors.Validation("please select a server")
	}
	questions, err := s.validateForm(form, guildID)
	if err != nil {
		return err
	}
	if form.Time == "" {
		form.Time = models.DefaultTime
	}

	_, err = s.queries.Execute(ctx, query.Mutation{
		Name:        "createStandup",
		Invalidates: []query.Tag{query.ManagedStandupsTag()},
		Run: func(ctx context.Context) (any, error) {
			return nil, s.api.CreateStandup(ctx, client.CreateStandupRequest{
				Name:            form.Name,
				Time:            form.Time,
				GuildID:         guildID,
				ReportChannelID: form.ReportChannelID,
				Questions:       questions,
			})
		},
	})
	return err
}

// UpdateStandup rewrites the standup in place and invalidates its entity
// tag; a failed update leaves the cached entity untouched.
func (s *Service) UpdateStandup(ctx context.Context, id uint, guildID string, form StandupForm) error {
	questions, err := s.validateForm(form, guildID)
	if err != nil {
		return err
	}

	_, err = s.queries.Execute(ctx, query.Mutation{
		Name:        "updateStandup",
		Invalidates: []query.Tag{query.StandupTag(id)},
		Run: func(ctx context.Context) (any, error) {
			return nil, s.api.UpdateStandup(ctx, client.UpdateStandupRequest{
				ID:              id,
				Name:            form.Name,
				Time:            form.Time,
				ReportChannelID: form.ReportChannelID,
				Questions:       questions,
			})
		},
	})
	return err
}

// ToggleMember enrolls or removes userID based on the membership the
// caller currently observes. No optimistic write happens; if the server
// disagrees the mutation fails and the cache stays as it was.
func (s *Service) ToggleMember(ctx context.Context, standupID uint, userID string, isCurrentlyMember bool) error {
	_, err := s.queries.Execute(ctx, query.Mutation{
		Name:        "toggleMember",
		Invalidates: []query.Tag{query.StandupTag(standupID)},
		Run: func(ctx context.Context) (any, error) {
			if isCurrentlyMember {
				return nil, s.api.RemoveMember(ctx, standupID, userID)
			}
			return nil, s.api.AddMember(ctx, standupID, userID)
		},
	})
	return err
}
