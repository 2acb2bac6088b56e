package shell

import (
	"context"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"gopod/internal/api"
	"gopod/internal/config"
)

// defaultToplistSize is how many entries toplist shows when no count is given.
const defaultToplistSize = 10

// registerCommands builds the static command table. The set is fixed for the
// process lifetime; the prefix tables are derived from it immediately after.
func (s *Shell) registerCommands(settings *config.Settings) {
	for _, cmd := range []*Command{
		{
			Name:        "subscribe",
			MinArgs:     1,
			MaxArgs:     2,
			Usage:       "subscribe <url> [title]",
			Description: "Subscribe to a podcast feed",
			Handler:     s.cmdSubscribe,
		},
		{
			Name:           "unsubscribe",
			MinArgs:        1,
			MaxArgs:        1,
			EntityFirstArg: true,
			Usage:          "unsubscribe <url>",
			Description:    "Remove a subscription",
			Handler:        s.cmdUnsubscribe,
		},
		{
			Name:           "rename",
			MinArgs:        2,
			MaxArgs:        2,
			EntityFirstArg: true,
			Usage:          "rename <url> <title>",
			Description:    "Change the title of a subscription",
			Handler:        s.cmdRename,
		},
		{
			Name:           "rewrite",
			MinArgs:        2,
			MaxArgs:        2,
			EntityFirstArg: true,
			Usage:          "rewrite <old-url> <new-url>",
			Description:    "Change the feed URL of a subscription",
			Handler:        s.cmdRewrite,
		},
		{
			Name:           "info",
			MinArgs:        1,
			MaxArgs:        1,
			EntityFirstArg: true,
			Usage:          "info <url>",
			Description:    "Show details of a subscription",
			Handler:        s.cmdInfo,
		},
		{
			Name:           "enable",
			MinArgs:        1,
			MaxArgs:        1,
			EntityFirstArg: true,
			Usage:          "enable <url>",
			Description:    "Resume feed updates for a subscription",
			Handler:        s.cmdEnable,
		},
		{
			Name:           "disable",
			MinArgs:        1,
			MaxArgs:        1,
			EntityFirstArg: true,
			Usage:          "disable <url>",
			Description:    "Suspend feed updates for a subscription",
			Handler:        s.cmdDisable,
		},
		{
			Name:           "update",
			MaxArgs:        1,
			EntityFirstArg: true,
			Usage:          "update [url]",
			Description:    "Check feeds for new episodes",
			Handler:        s.cmdUpdate,
		},
		{
			Name:           "pending",
			MaxArgs:        1,
			EntityFirstArg: true,
			Usage:          "pending [url]",
			Description:    "List episodes not yet downloaded",
			Handler:        s.cmdPending,
		},
		{
			Name:           "episodes",
			MaxArgs:        1,
			EntityFirstArg: true,
			Usage:          "episodes [url]",
			Description:    "List all known episodes",
			Handler:        s.cmdEpisodes,
		},
		{
			Name:           "download",
			MaxArgs:        1,
			EntityFirstArg: true,
			Usage:          "download [url]",
			Description:    "Download pending episodes",
			Handler:        s.cmdDownload,
		},
		{
			Name:        "list",
			Usage:       "list",
			Description: "List all subscriptions",
			Handler:     s.cmdList,
		},
		{
			Name:        "help",
			Usage:       "help",
			Description: "Show available commands",
			Handler:     s.cmdHelp,
		},
		{
			Name:        "search",
			Variadic:    true,
			Usage:       "search <term>...",
			Description: "Search for podcasts",
			Handler:     s.cmdSearch,
		},
		{
			Name:        "set",
			MaxArgs:     2,
			Usage:       "set [key value]",
			Description: "Show or change settings",
			Handler:     s.makeCmdSet(settings),
		},
		{
			Name:        "import",
			MinArgs:     1,
			MaxArgs:     1,
			Usage:       "import <filename>",
			Description: "Subscribe to all feeds listed in a file",
			Handler:     s.cmdImport,
		},
		{
			Name:        "export",
			MinArgs:     1,
			MaxArgs:     1,
			Usage:       "export <filename>",
			Description: "Write the subscription list to a file",
			Handler:     s.cmdExport,
		},
		{
			Name:        "youtube",
			MinArgs:     1,
			MaxArgs:     1,
			Usage:       "youtube <url>",
			Description: "Subscribe to a YouTube channel as a feed",
			Handler:     s.cmdYoutube,
		},
		{
			Name:        "toplist",
			MaxArgs:     1,
			Usage:       "toplist [count]",
			Description: "Show the most popular podcasts",
			Handler:     s.cmdToplist,
		},
		{
			Name:        "webui",
			MaxArgs:     1,
			Usage:       "webui [port]",
			Description: "Start the web interface",
			Handler:     s.cmdWebUI,
		},
	} {
		s.registry.Register(cmd)
	}
}

// optionalArg returns the single optional argument or the empty string.
func optionalArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func (s *Shell) cmdSubscribe(ctx context.Context, args []string) error {
	title := ""
	if len(args) == 2 {
		title = args[1]
	}
	podcast, err := s.client.Subscribe(ctx, args[0], title)
	if err != nil {
		return err
	}
	s.logger.Success("Subscribed to %s", podcast.Title)
	return nil
}

func (s *Shell) cmdUnsubscribe(ctx context.Context, args []string) error {
	if err := s.client.Unsubscribe(ctx, args[0]); err != nil {
		return err
	}
	s.logger.Success("Unsubscribed from %s", args[0])
	return nil
}

func (s *Shell) cmdRename(ctx context.Context, args []string) error {
	if err := s.client.Rename(ctx, args[0], args[1]); err != nil {
		return err
	}
	s.logger.Success("Renamed to %s", args[1])
	return nil
}

func (s *Shell) cmdRewrite(ctx context.Context, args []string) error {
	if err := s.client.Rewrite(ctx, args[0], args[1]); err != nil {
		return err
	}
	s.logger.Success("Feed URL changed to %s", args[1])
	return nil
}

func (s *Shell) cmdInfo(ctx context.Context, args []string) error {
	podcast, err := s.client.Get(ctx, args[0])
	if err != nil {
		return err
	}

	state := "enabled"
	if podcast.Disabled {
		state = "disabled"
	}
	pending := 0
	for _, episode := range podcast.Episodes {
		if !episode.Downloaded {
			pending++
		}
	}

	s.logger.OutputLine("Title:    %s", podcast.Title)
	s.logger.OutputLine("URL:      %s", podcast.URL)
	s.logger.OutputLine("State:    %s", state)
	s.logger.OutputLine("Episodes: %d (%d pending)", len(podcast.Episodes), pending)
	return nil
}

func (s *Shell) cmdEnable(ctx context.Context, args []string) error {
	if err := s.client.Enable(ctx, args[0]); err != nil {
		return err
	}
	s.logger.Success("Updates enabled for %s", args[0])
	return nil
}

func (s *Shell) cmdDisable(ctx context.Context, args []string) error {
	if err := s.client.Disable(ctx, args[0]); err != nil {
		return err
	}
	s.logger.Success("Updates disabled for %s", args[0])
	return nil
}

func (s *Shell) cmdUpdate(ctx context.Context, args []string) error {
	return s.client.Update(ctx, optionalArg(args))
}

func (s *Shell) cmdPending(ctx context.Context, args []string) error {
	groups, err := s.client.Pending(ctx, optionalArg(args))
	if err != nil {
		return err
	}
	s.printEpisodeGroups(groups, "No pending episodes.")
	return nil
}

func (s *Shell) cmdEpisodes(ctx context.Context, args []string) error {
	groups, err := s.client.Episodes(ctx, optionalArg(args))
	if err != nil {
		return err
	}
	s.printEpisodeGroups(groups, "No episodes.")
	return nil
}

func (s *Shell) cmdDownload(ctx context.Context, args []string) error {
	count, err := s.client.Download(ctx, optionalArg(args))
	if err != nil {
		return err
	}
	s.logger.Success("%d episode(s) downloaded", count)
	return nil
}

func (s *Shell) cmdList(ctx context.Context, args []string) error {
	podcasts, err := s.client.Podcasts(ctx)
	if err != nil {
		return err
	}
	if len(podcasts) == 0 {
		s.logger.OutputLine("No subscriptions. Use 'subscribe <url>' to add one.")
		return nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"TITLE", "URL", "EPISODES", "STATE"})
	for _, podcast := range podcasts {
		state := ""
		if podcast.Disabled {
			state = "disabled"
		}
		t.AppendRow(table.Row{podcast.Title, podcast.URL, len(podcast.Episodes), state})
	}
	s.logger.OutputLine("%s", t.Render())
	return nil
}

func (s *Shell) cmdHelp(ctx context.Context, args []string) error {
	s.logger.OutputLine("Available commands:")
	for _, name := range s.registry.Names() {
		cmd, _ := s.registry.Get(name)
		s.logger.OutputLine("  %-28s - %s", cmd.Usage, cmd.Description)
	}
	s.logger.OutputLine("  %-28s - %s", "exit, quit", "Leave the shell")
	s.logger.OutputLine("")
	s.logger.OutputLine("Commands may be abbreviated to any unique prefix, e.g. 'dow' for download.")
	if s.interactive {
		s.logger.OutputLine("")
		s.logger.OutputLine("Keyboard shortcuts:")
		s.logger.OutputLine("  TAB                          - Complete commands and subscription URLs")
		s.logger.OutputLine("  Ctrl+R                       - Search command history")
		s.logger.OutputLine("  Ctrl+C                       - Cancel current line")
		s.logger.OutputLine("  Ctrl+D                       - Leave the shell")
	}
	return nil
}

func (s *Shell) cmdSearch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return &InvalidArgumentError{Command: "search", Reason: "missing search terms"}
	}
	entries, err := s.client.Search(ctx, args)
	if err != nil {
		return err
	}
	s.printDirectoryEntries(entries, "No matches.")
	return nil
}

// makeCmdSet binds the settings snapshot loaded at startup into the set
// handler.
func (s *Shell) makeCmdSet(settings *config.Settings) HandlerFunc {
	return func(ctx context.Context, args []string) error {
		switch len(args) {
		case 0:
			t := table.NewWriter()
			t.SetStyle(table.StyleRounded)
			t.AppendHeader(table.Row{"KEY", "VALUE"})
			for _, item := range settings.Items() {
				t.AppendRow(table.Row{item[0], item[1]})
			}
			s.logger.OutputLine("%s", t.Render())
			return nil
		case 1:
			return &InvalidArgumentError{Command: "set", Reason: "a key needs a value (usage: set [key value])"}
		default:
			if err := settings.Set(args[0], args[1]); err != nil {
				return &InvalidArgumentError{Command: "set", Reason: err.Error()}
			}
			if err := config.Save(settings); err != nil {
				return err
			}
			s.logger.Success("%s = %s", args[0], args[1])
			return nil
		}
	}
}

func (s *Shell) cmdImport(ctx context.Context, args []string) error {
	count, err := s.client.Import(ctx, args[0])
	if err != nil {
		return err
	}
	s.logger.Success("Imported %d subscription(s)", count)
	return nil
}

func (s *Shell) cmdExport(ctx context.Context, args []string) error {
	if err := s.client.Export(ctx, args[0]); err != nil {
		return err
	}
	s.logger.Success("Subscriptions exported to %s", args[0])
	return nil
}

func (s *Shell) cmdYoutube(ctx context.Context, args []string) error {
	feedURL, err := s.client.ResolveYoutube(ctx, args[0])
	if err != nil {
		return err
	}
	podcast, err := s.client.Subscribe(ctx, feedURL, "")
	if err != nil {
		return err
	}
	s.logger.Success("Subscribed to %s (%s)", podcast.Title, feedURL)
	return nil
}

func (s *Shell) cmdToplist(ctx context.Context, args []string) error {
	limit := defaultToplistSize
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return &InvalidArgumentError{Command: "toplist", Reason: "count must be a positive number"}
		}
		limit = n
	}
	entries, err := s.client.Toplist(ctx, limit)
	if err != nil {
		return err
	}
	s.printDirectoryEntries(entries, "Toplist is empty.")
	return nil
}

func (s *Shell) cmdWebUI(ctx context.Context, args []string) error {
	return s.client.WebUI(ctx, optionalArg(args))
}

// printEpisodeGroups renders pending/episodes listings, one table per
// subscription.
func (s *Shell) printEpisodeGroups(groups []api.EpisodeGroup, emptyMessage string) {
	if len(groups) == 0 {
		s.logger.OutputLine("%s", emptyMessage)
		return
	}
	for _, group := range groups {
		s.logger.OutputLine("%s (%d):", group.Podcast.Title, len(group.Episodes))
		t := table.NewWriter()
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{"TITLE", "PUBLISHED", "STATE"})
		for _, episode := range group.Episodes {
			state := "new"
			if episode.Downloaded {
				state = "downloaded"
			}
			t.AppendRow(table.Row{episode.Title, episode.Published.Format("2006-01-02"), state})
		}
		s.logger.OutputLine("%s", t.Render())
	}
}

func (s *Shell) printDirectoryEntries(entries []api.DirectoryEntry, emptyMessage string) {
	if len(entries) == 0 {
		s.logger.OutputLine("%s", emptyMessage)
		return
	}
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"TITLE", "URL"})
	for _, entry := range entries {
		t.AppendRow(table.Row{entry.Title, entry.URL})
	}
	s.logger.OutputLine("%s", t.Render())
}
