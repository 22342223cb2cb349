package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/Gurkunwar/dailybot-console/internal/console"
	"github.com/Gurkunwar/dailybot-console/internal/models"
	"github.com/Gurkunwar/dailybot-console/internal/query"
	"github.com/Gurkunwar/dailybot-console/internal/session"
	"github.com/Gurkunwar/dailybot-console/internal/timepick"
)

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "console",
		Short:         "Management console for DailyBot standups",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(
		loginCmd(), logoutCmd(), whoamiCmd(),
		guildsCmd(), standupsCmd(), membersCmd(),
		historyCmd(), statsCmd(),
	)
	return root
}

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <token>",
		Short: "Store the session token issued by the web login",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			if a.sessions == nil {
				return fmt.Errorf("session storage requires redis; set REDIS_URL")
			}
			claims, err := session.Inspect(args[0])
			if err != nil {
				return err
			}
			if claims.Expired(time.Now()) {
				return fmt.Errorf("token is already expired")
			}
			if err := a.sessions.Save(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Logged in as %s\n", claims.UserID)
			return nil
		},
	}
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			if a.sessions == nil {
				return nil
			}
			return a.sessions.Clear(cmd.Context())
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user and session expiry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			if a.sessions == nil {
				return fmt.Errorf("no session store; set REDIS_URL")
			}
			token, err := a.sessions.Token(cmd.Context())
			if err != nil {
				return err
			}
			claims, err := session.Inspect(token)
			if err != nil {
				return err
			}
			fmt.Printf("User:    %s\n", claims.UserID)
			if !claims.ExpiresAt.IsZero() {
				fmt.Printf("Expires: %s\n", claims.ExpiresAt.Format(time.RFC1123))
			}
			return nil
		},
	}
}

func guildsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guilds",
		Short: "List manageable servers and invite links where the bot is missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			guilds, res := a.service.UserGuilds(cmd.Context())
			if res.Err != nil {
				return res.Err
			}
			if len(guilds) == 0 {
				fmt.Println("No servers found where you have admin permissions.")
				return nil
			}
			for _, g := range guilds {
				if g.BotPresent {
					fmt.Printf("%-20s %s\n", g.ID, g.Name)
				} else {
					fmt.Printf("%-20s %s (bot missing, invite: %s)\n", g.ID, g.Name, a.inviteURL(g.ID))
				}
			}
			return nil
		},
	}
}

func standupsCmd() *cobra.Command {
	standups := &cobra.Command{
		Use:   "standups",
		Short: "List and edit standups",
	}
	standups.AddCommand(standupsListCmd(), standupsShowCmd(), standupsCreateCmd(), standupsUpdateCmd())
	return standups
}

func standupsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the standups you manage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			standups, res := a.service.ManagedStandups(cmd.Context())
			if res.Err != nil && len(standups) == 0 {
				return res.Err
			}
			if res.Err != nil {
				fmt.Printf("Warning: showing cached data, refresh failed: %v\n\n", res.Err)
			}
			if len(standups) == 0 {
				fmt.Println("No standups yet. Create one with `console standups create`.")
				return nil
			}
			for _, st := range standups {
				fmt.Printf("%4d  %-28s %s  %s / #%s\n",
					st.ID, st.Name, timepick.Label(st.Time), st.GuildName, st.ChannelName)
			}
			return nil
		},
	}
}

func standupsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one standup's configuration and roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a := newApp()
			ctx := cmd.Context()

			standup, res := a.service.Standup(ctx, id)
			if res.Err != nil {
				return res.Err
			}

			fmt.Printf("Name:    %s\n", standup.Name)
			fmt.Printf("Time:    %s\n", timepick.Label(standup.Time))
			fmt.Printf("Channel: %s\n", standup.ReportChannelID)
			fmt.Println("Questions:")
			for i, q := range standup.Questions {
				fmt.Printf("  %d. %s\n", i+1, q)
			}

			members, mres := a.service.GuildMembers(ctx, standup.GuildID)
			fmt.Printf("Participants (%d):\n", len(standup.Participants))
			for _, p := range standup.Participants {
				name := p.UserID
				if m, ok := models.FindMember(members, p.UserID); ok {
					name = m.Username
				}
				fmt.Printf("  - %s\n", name)
			}
			if mres.Status == query.StatusError {
				fmt.Printf("Warning: could not resolve usernames: %v\n", mres.Err)
			}
			return nil
		},
	}
}

func standupsCreateCmd() *cobra.Command {
	var guildID, name, at, channelID string
	var questions []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a standup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			ctx := cmd.Context()

			// channel validity is checked against the freshly fetched set
			if _, res := a.service.GuildChannels(ctx, guildID); res.Err != nil {
				return res.Err
			}

			if len(questions) == 0 {
				questions = models.DefaultQuestions()
			}
			err := a.service.CreateStandup(ctx, guildID, standupForm(name, at, channelID, questions))
			if err != nil {
				return err
			}
			fmt.Println("Standup created successfully!")
			return nil
		},
	}

	cmd.Flags().StringVar(&guildID, "guild", "", "server id (see `console guilds`)")
	cmd.Flags().StringVar(&name, "name", "", "team name")
	cmd.Flags().StringVar(&at, "time", models.DefaultTime, "daily trigger time, 24h HH:MM")
	cmd.Flags().StringVar(&channelID, "channel", "", "report channel id")
	cmd.Flags().StringArrayVar(&questions, "question", nil, "prompt question (repeatable, max 5)")
	return cmd
}

func standupsUpdateCmd() *cobra.Command {
	var name, at, channelID string
	var questions []string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a standup's settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a := newApp()
			ctx := cmd.Context()

			standup, res := a.service.Standup(ctx, id)
			if res.Err != nil {
				return res.Err
			}
			if _, cres := a.service.GuildChannels(ctx, standup.GuildID); cres.Err != nil {
				return cres.Err
			}

			// unset flags keep the current values
			form := standupForm(
				orDefault(name, standup.Name),
				orDefault(at, standup.Time),
				orDefault(channelID, standup.ReportChannelID),
				questions,
			)
			if len(questions) == 0 {
				form.Questions = standup.Questions
			}

			if err := a.service.UpdateStandup(ctx, id, standup.GuildID, form); err != nil {
				return err
			}
			fmt.Println("Settings saved successfully!")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "team name")
	cmd.Flags().StringVar(&at, "time", "", "daily trigger time, 24h HH:MM")
	cmd.Flags().StringVar(&channelID, "channel", "", "report channel id")
	cmd.Flags().StringArrayVar(&questions, "question", nil, "replacement question list (repeatable)")
	return cmd
}

func membersCmd() *cobra.Command {
	members := &cobra.Command{
		Use:   "members",
		Short: "Manage a standup's roster",
	}
	members.AddCommand(membersListCmd(), membersToggleCmd())
	return members
}

func membersListCmd() *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "list <standup-id>",
		Short: "List guild members and their enrollment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a := newApp()
			ctx := cmd.Context()

			standup, res := a.service.Standup(ctx, id)
			if res.Err != nil {
				return res.Err
			}
			members, mres := a.service.GuildMembers(ctx, standup.GuildID)
			if mres.Err != nil {
				return mres.Err
			}

			for _, m := range models.FilterMembers(members, search) {
				mark := " "
				if standup.HasParticipant(m.ID) {
					mark = "*"
				}
				fmt.Printf("%s %-20s %s\n", mark, m.ID, m.Username)
			}
			fmt.Printf("\n%d enrolled (*)\n", len(standup.Participants))
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "filter by username substring")
	return cmd
}

func membersToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <standup-id> <user-id>",
		Short: "Enroll the user, or remove them if already enrolled",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			userID := args[1]
			a := newApp()
			ctx := cmd.Context()

			standup, res := a.service.Standup(ctx, id)
			if res.Err != nil {
				return res.Err
			}

			// keep the entity watched so the mutation refetches it
			unwatch := a.service.Watch(console.StandupKey(id), func(any) {})
			defer unwatch()

			enrolled := standup.HasParticipant(userID)
			if err := a.service.ToggleMember(ctx, id, userID, enrolled); err != nil {
				return err
			}
			if enrolled {
				fmt.Println("Member removed successfully")
			} else {
				fmt.Println("Member added successfully")
			}

			refreshed, _ := a.service.Standup(ctx, id)
			fmt.Printf("%d participants enrolled\n", len(refreshed.Participants))
			return nil
		},
	}
}

func historyCmd() *cobra.Command {
	var member, date string

	cmd := &cobra.Command{
		Use:   "history <standup-id>",
		Short: "Show submitted reports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a := newApp()
			ctx := cmd.Context()

			entries, res := a.service.History(ctx, id)
			if res.Err != nil && len(entries) == 0 {
				return res.Err
			}
			standup, _ := a.service.Standup(ctx, id)
			members, _ := a.service.GuildMembers(ctx, standup.GuildID)

			filtered := models.FilterHistory(entries, models.HistoryFilter{UserID: member, Date: date})
			if len(filtered) == 0 {
				fmt.Println("No standup submissions match your current filters.")
				return nil
			}

			for _, h := range filtered {
				username := "Unknown User"
				if m, ok := models.FindMember(members, h.UserID); ok {
					username = m.Username
				}
				fmt.Printf("── %s  %s\n", h.Date, username)
				for i, answer := range h.Answers {
					fmt.Printf("   %s\n     %s\n", models.QuestionLabel(standup.Questions, i), answer)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&member, "member", "ALL", "filter by user id")
	cmd.Flags().StringVar(&date, "date", "", "filter by date (YYYY-MM-DD)")
	return cmd
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			stats, res := a.service.DashboardStats(cmd.Context())
			if res.Err != nil {
				return res.Err
			}
			fmt.Printf("Active Teams:      %d\n", stats.TotalTeams)
			fmt.Printf("Managed Members:   %d\n", stats.TotalMembers)
			fmt.Printf("Reports (Last 7d): %d\n", stats.RecentReports)
			return nil
		},
	}
}

func standupForm(name, at, channelID string, questions []string) console.StandupForm {
	return console.StandupForm{
		Name:            name,
		Time:            at,
		ReportChannelID: channelID,
		Questions:       questions,
	}
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid standup id %q", s)
	}
	return uint(id), nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
