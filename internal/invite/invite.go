// Package invite interprets guild permission payloads and builds the bot
// installation URL for guilds where DailyBot is not yet present.
package invite

import (
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"github.com/Gurkunwar/dailybot-console/internal/models"
)

// Manageable reports whether the raw permission string from the guild
// list grants standup management: owner, ADMINISTRATOR or MANAGE_GUILD.
func Manageable(owner bool, permissions string) bool {
	if owner {
		return true
	}
	perms, err := strconv.ParseInt(permissions, 10, 64)
	if err != nil {
		return false
	}
	if perms&discordgo.PermissionAdministrator != 0 {
		return true
	}
	return perms&discordgo.PermissionManageServer != 0
}

// FilterManageable keeps the guilds whose permission payload grants
// standup management.
func FilterManageable(guilds []models.Guild) []models.Guild {
	out := make([]models.Guild, 0, len(guilds))
	for _, g := range guilds {
		if Manageable(g.Owner, g.Permissions) {
			out = append(out, g)
		}
	}
	return out
}

// BotURL builds the OAuth install link for one guild, pinned to it so
// the admin cannot accidentally install elsewhere.
func BotURL(clientID, guildID string) string {
	return fmt.Sprintf(
		"https://discord.com/api/oauth2/authorize?client_id=%s&permissions=%d&scope=bot%%20applications.commands&guild_id=%s&disable_guild_select=true",
		clientID, discordgo.PermissionAdministrator, guildID,
	)
}
