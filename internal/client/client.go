// Package client provides the podcast client collaborator driven by the
// shell. This build keeps all state in memory: feeds, network transfer and
// on-disk catalogs live behind the same interface in other builds and are
// out of scope here.
package client

import (
	"bufio"
	"context"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/google/uuid"

	"gopod/internal/api"
	"gopod/internal/config"
)

// StartupError signals that the client could not initialize. It is the only
// condition the process treats as fatal.
type StartupError struct {
	Err error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("client startup failed: %v", e.Err)
}

func (e *StartupError) Unwrap() error {
	return e.Err
}

// Client is an in-memory implementation of api.Client. It is single-owner:
// the shell calls it from one goroutine only, so there is no locking.
type Client struct {
	settings    *config.Settings
	interactive bool
	podcasts    map[string]*api.Podcast

	// spin is the single active progress line; owned by the running
	// operation, nil when idle.
	spin *spinner.Spinner
}

var _ api.Client = (*Client)(nil)

// New creates a client. The interactive flag controls whether long-running
// operations show a progress line.
func New(settings *config.Settings, interactive bool) (*Client, error) {
	if settings.DownloadDir != "" {
		if err := os.MkdirAll(settings.DownloadDir, 0755); err != nil {
			return nil, &StartupError{Err: err}
		}
	}
	return &Client{
		settings:    settings,
		interactive: interactive,
		podcasts:    make(map[string]*api.Podcast),
	}, nil
}

// startProgress shows the progress line for a running operation. Any
// previously active line is stopped first so a single line is live at a time.
func (c *Client) startProgress(message string) {
	if !c.interactive {
		return
	}
	c.stopProgress()
	c.spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	c.spin.Suffix = " " + message
	c.spin.Start()
}

func (c *Client) stopProgress() {
	if c.spin != nil {
		c.spin.Stop()
		c.spin = nil
	}
}

// get resolves a subscription by URL.
func (c *Client) get(feedURL string) (*api.Podcast, error) {
	if podcast, ok := c.podcasts[feedURL]; ok {
		return podcast, nil
	}
	return nil, fmt.Errorf("%w: %s", api.ErrNotSubscribed, feedURL)
}

// targets resolves an optional URL argument to the subscriptions an
// operation applies to: one when given, all otherwise.
func (c *Client) targets(feedURL string) ([]*api.Podcast, error) {
	if feedURL != "" {
		podcast, err := c.get(feedURL)
		if err != nil {
			return nil, err
		}
		return []*api.Podcast{podcast}, nil
	}
	return c.sorted(), nil
}

func (c *Client) sorted() []*api.Podcast {
	urls := make([]string, 0, len(c.podcasts))
	for u := range c.podcasts {
		urls = append(urls, u)
	}
	sort.Strings(urls)

	podcasts := make([]*api.Podcast, 0, len(urls))
	for _, u := range urls {
		podcasts = append(podcasts, c.podcasts[u])
	}
	return podcasts
}

// titleFromURL derives a display title from a feed URL when the user gave
// none.
func titleFromURL(feedURL string) string {
	u, err := url.Parse(feedURL)
	if err != nil {
		return feedURL
	}
	segments := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })
	for i := len(segments) - 1; i >= 0; i-- {
		name := strings.TrimSuffix(segments[i], ".xml")
		name = strings.TrimSuffix(name, ".rss")
		if name != "" && name != "feed" && name != "rss" && name != "podcast" {
			return name
		}
	}
	if u.Host != "" {
		return u.Host
	}
	return feedURL
}

func (c *Client) Subscribe(ctx context.Context, feedURL, title string) (*api.Podcast, error) {
	u, err := url.Parse(feedURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid feed URL: %s", feedURL)
	}
	if _, exists := c.podcasts[feedURL]; exists {
		return nil, fmt.Errorf("already subscribed to %s", feedURL)
	}

	if title == "" {
		title = titleFromURL(feedURL)
	}
	podcast := &api.Podcast{URL: feedURL, Title: title}
	c.podcasts[feedURL] = podcast
	return podcast, nil
}

func (c *Client) Unsubscribe(ctx context.Context, feedURL string) error {
	if _, err := c.get(feedURL); err != nil {
		return err
	}
	delete(c.podcasts, feedURL)
	return nil
}

func (c *Client) Rename(ctx context.Context, feedURL, title string) error {
	podcast, err := c.get(feedURL)
	if err != nil {
		return err
	}
	podcast.Title = title
	return nil
}

func (c *Client) Rewrite(ctx context.Context, oldURL, newURL string) error {
	podcast, err := c.get(oldURL)
	if err != nil {
		return err
	}
	u, err := url.Parse(newURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid feed URL: %s", newURL)
	}
	if _, exists := c.podcasts[newURL]; exists {
		return fmt.Errorf("already subscribed to %s", newURL)
	}
	delete(c.podcasts, oldURL)
	podcast.URL = newURL
	c.podcasts[newURL] = podcast
	return nil
}

func (c *Client) Enable(ctx context.Context, feedURL string) error {
	podcast, err := c.get(feedURL)
	if err != nil {
		return err
	}
	podcast.Disabled = false
	return nil
}

func (c *Client) Disable(ctx context.Context, feedURL string) error {
	podcast, err := c.get(feedURL)
	if err != nil {
		return err
	}
	podcast.Disabled = true
	return nil
}

func (c *Client) Get(ctx context.Context, feedURL string) (*api.Podcast, error) {
	return c.get(feedURL)
}

func (c *Client) Podcasts(ctx context.Context) ([]*api.Podcast, error) {
	return c.sorted(), nil
}

func (c *Client) Update(ctx context.Context, feedURL string) error {
	podcasts, err := c.targets(feedURL)
	if err != nil {
		return err
	}

	for _, podcast := range podcasts {
		if podcast.Disabled {
			continue
		}
		if ctx.Err() != nil {
			c.stopProgress()
			return ctx.Err()
		}
		c.startProgress(fmt.Sprintf("Updating %s...", podcast.Title))
		c.refreshNewFlags(podcast)
	}
	c.stopProgress()
	return nil
}

// refreshNewFlags recomputes which episodes count as new: the most recent
// not-yet-downloaded ones, capped by the updateLimit setting.
func (c *Client) refreshNewFlags(podcast *api.Podcast) {
	limit := c.settings.UpdateLimit
	marked := 0
	for i := len(podcast.Episodes) - 1; i >= 0; i-- {
		episode := &podcast.Episodes[i]
		if episode.Downloaded {
			episode.New = false
			continue
		}
		if limit > 0 && marked >= limit {
			episode.New = false
			continue
		}
		episode.New = true
		marked++
	}
}

func (c *Client) Pending(ctx context.Context, feedURL string) ([]api.EpisodeGroup, error) {
	return c.groups(feedURL, func(episode api.Episode) bool { return !episode.Downloaded })
}

func (c *Client) Episodes(ctx context.Context, feedURL string) ([]api.EpisodeGroup, error) {
	return c.groups(feedURL, func(episode api.Episode) bool { return true })
}

func (c *Client) groups(feedURL string, keep func(api.Episode) bool) ([]api.EpisodeGroup, error) {
	podcasts, err := c.targets(feedURL)
	if err != nil {
		return nil, err
	}

	var groups []api.EpisodeGroup
	for _, podcast := range podcasts {
		var episodes []api.Episode
		for _, episode := range podcast.Episodes {
			if keep(episode) {
				episodes = append(episodes, episode)
			}
		}
		if len(episodes) > 0 {
			groups = append(groups, api.EpisodeGroup{Podcast: podcast, Episodes: episodes})
		}
	}
	return groups, nil
}

func (c *Client) Download(ctx context.Context, feedURL string) (int, error) {
	podcasts, err := c.targets(feedURL)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, podcast := range podcasts {
		for i := range podcast.Episodes {
			episode := &podcast.Episodes[i]
			if episode.Downloaded {
				continue
			}
			if ctx.Err() != nil {
				c.stopProgress()
				return count, ctx.Err()
			}
			c.startProgress(fmt.Sprintf("Downloading %s...", episode.Title))
			episode.Downloaded = true
			episode.New = false
			count++
		}
	}
	c.stopProgress()
	return count, nil
}

// Search matches subscriptions whose title or URL contains every term,
// case-insensitively.
func (c *Client) Search(ctx context.Context, terms []string) ([]api.DirectoryEntry, error) {
	var entries []api.DirectoryEntry
	for _, podcast := range c.sorted() {
		haystack := strings.ToLower(podcast.Title + " " + podcast.URL)
		matched := true
		for _, term := range terms {
			if !strings.Contains(haystack, strings.ToLower(term)) {
				matched = false
				break
			}
		}
		if matched {
			entries = append(entries, api.DirectoryEntry{Title: podcast.Title, URL: podcast.URL})
		}
	}
	return entries, nil
}

// Toplist ranks subscriptions by episode count.
func (c *Client) Toplist(ctx context.Context, limit int) ([]api.DirectoryEntry, error) {
	podcasts := c.sorted()
	sort.SliceStable(podcasts, func(i, j int) bool {
		return len(podcasts[i].Episodes) > len(podcasts[j].Episodes)
	})

	var entries []api.DirectoryEntry
	for _, podcast := range podcasts {
		if len(entries) == limit {
			break
		}
		entries = append(entries, api.DirectoryEntry{Title: podcast.Title, URL: podcast.URL})
	}
	return entries, nil
}

// Import subscribes to every feed URL listed in the file, one per line.
// Blank lines and '#' comments are skipped; feeds already subscribed to do
// not abort the run.
func (c *Client) Import(ctx context.Context, filename string) (int, error) {
	f, err := os.Open(filename)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, err := c.Subscribe(ctx, line, ""); err != nil {
			continue
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return count, nil
}

// Export writes the subscription URLs to the file, one per line.
func (c *Client) Export(ctx context.Context, filename string) error {
	var b strings.Builder
	for _, podcast := range c.sorted() {
		b.WriteString(podcast.URL)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(filename, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}

// ResolveYoutube maps a YouTube channel or user page URL to its feed URL.
func (c *Client) ResolveYoutube(ctx context.Context, pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil || !strings.HasSuffix(u.Hostname(), "youtube.com") {
		return "", fmt.Errorf("not a YouTube URL: %s", pageURL)
	}

	segments := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })
	if len(segments) >= 2 {
		switch segments[0] {
		case "channel":
			return "https://www.youtube.com/feeds/videos.xml?channel_id=" + segments[1], nil
		case "user":
			return "https://www.youtube.com/feeds/videos.xml?user=" + segments[1], nil
		}
	}
	return "", fmt.Errorf("cannot derive a feed from %s", pageURL)
}

// WebUI is not part of this build.
func (c *Client) WebUI(ctx context.Context, port string) error {
	return fmt.Errorf("webui: %w", api.ErrUnsupported)
}

func (c *Client) SubscriptionURLs(ctx context.Context) []string {
	urls := make([]string, 0, len(c.podcasts))
	for u := range c.podcasts {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	return urls
}

// AddEpisode records a feed entry for a subscription. In builds with feed
// support this is fed by the updater; here it is the seam tests and tools use
// to populate episodes.
func (c *Client) AddEpisode(feedURL, title, mediaURL string, published time.Time) error {
	podcast, err := c.get(feedURL)
	if err != nil {
		return err
	}
	podcast.Episodes = append(podcast.Episodes, api.Episode{
		ID:        uuid.NewString(),
		Title:     title,
		MediaURL:  mediaURL,
		Published: published,
		New:       true,
	})
	return nil
}

// Close releases client resources at shutdown.
func (c *Client) Close() error {
	c.stopProgress()
	return nil
}
