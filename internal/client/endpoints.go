package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Gurkunwar/dailybot-console/internal/models"
)

func (c *Client) UserGuilds(ctx context.Context) ([]models.Guild, error) {
	var guilds []models.Guild
	if err := c.get(ctx, "user-guilds", &guilds); err != nil {
		return nil, err
	}
	return guilds, nil
}

func (c *Client) GuildChannels(ctx context.Context, guildID string) ([]models.Channel, error) {
	var channels []models.Channel
	path := "guild-channels?guild_id=" + url.QueryEscape(guildID)
	if err := c.get(ctx, path, &channels); err != nil {
		return nil, err
	}
	return channels, nil
}

func (c *Client) GuildMembers(ctx context.Context, guildID string) ([]models.Member, error) {
	var members []models.Member
	path := "guild-members?guild_id=" + url.QueryEscape(guildID)
	if err := c.get(ctx, path, &members); err != nil {
		return nil, err
	}
	return members, nil
}

func (c *Client) Standup(ctx context.Context, id uint) (models.Standup, error) {
	var standup models.Standup
	if err := c.get(ctx, fmt.Sprintf("standups/get?id=%d", id), &standup); err != nil {
		return models.Standup{}, err
	}
	return standup, nil
}

func (c *Client) ManagedStandups(ctx context.Context) ([]models.ManagedStandup, error) {
	var standups []models.ManagedStandup
	if err := c.get(ctx, "managed-standups", &standups); err != nil {
		return nil, err
	}
	return standups, nil
}

func (c *Client) History(ctx context.Context, standupID uint) ([]models.HistoryEntry, error) {
	var entries []models.HistoryEntry
	path := fmt.Sprintf("standups/history?standup_id=%d", standupID)
	if err := c.get(ctx, path, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	var stats models.DashboardStats
	if err := c.get(ctx, "dashboard/stats", &stats); err != nil {
		return models.DashboardStats{}, err
	}
	return stats, nil
}

// CreateStandupRequest is the create payload; the server assigns the id
// and enrolls the creating manager.
type CreateStandupRequest struct {
	Name            string   `json:"name"`
	Time            string   `json:"time"`
	GuildID         string   `json:"guild_id"`
	ReportChannelID string   `json:"report_channel_id"`
	Questions       []string `json:"questions"`
}

func (c *Client) CreateStandup(ctx context.Context, req CreateStandupRequest) error {
	return c.post(ctx, "standups/create", req, nil)
}

// UpdateStandupRequest targets an existing standup by id.
type UpdateStandupRequest struct {
	ID              uint     `json:"id"`
	Name            string   `json:"name"`
	Time            string   `json:"time"`
	ReportChannelID string   `json:"report_channel_id"`
	Questions       []string `json:"questions"`
}

func (c *Client) UpdateStandup(ctx context.Context, req UpdateStandupRequest) error {
	return c.post(ctx, "standups/update", req, nil)
}

type memberRequest struct {
	StandupID uint   `json:"standup_id"`
	UserID    string `json:"user_id"`
}

func (c *Client) AddMember(ctx context.Context, standupID uint, userID string) error {
	return c.post(ctx, "standups/add-member", memberRequest{StandupID: standupID, UserID: userID}, nil)
}

func (c *Client) RemoveMember(ctx context.Context, standupID uint, userID string) error {
	return c.post(ctx, "standups/remove-member", memberRequest{StandupID: standupID, UserID: userID}, nil)
}
