// Package api defines the capability interface between the command shell and
// the podcast client it drives. Shell commands depend on this interface, not
// on the concrete client implementation, keeping the dispatch engine
// independent of feed, network and storage concerns.
package api

import (
	"context"
	"errors"
	"time"
)

// ErrNotSubscribed is returned by entity-scoped operations when the given URL
// does not identify a current subscription.
var ErrNotSubscribed = errors.New("not subscribed to this podcast")

// ErrUnsupported is returned by operations the client build does not provide
// (for example the web UI in a headless build).
var ErrUnsupported = errors.New("operation not supported by this client")

// Episode is a single entry of a podcast feed as known to the client.
type Episode struct {
	ID         string
	Title      string
	MediaURL   string
	Published  time.Time
	New        bool
	Downloaded bool
}

// Podcast is a subscription with its known episodes.
type Podcast struct {
	URL      string
	Title    string
	Disabled bool
	Episodes []Episode
}

// EpisodeGroup pairs a podcast with a subset of its episodes, used for
// pending/episodes listings that span several subscriptions.
type EpisodeGroup struct {
	Podcast  *Podcast
	Episodes []Episode
}

// DirectoryEntry is a search or toplist result.
type DirectoryEntry struct {
	Title string
	URL   string
}

// Client is the podcast client collaborator invoked by shell commands.
// All methods are synchronous; a call runs to completion before the shell
// reads the next line. Implementations own their progress display for
// long-running operations (update, download).
type Client interface {
	// Subscribe adds a subscription. An empty title means the client picks one.
	Subscribe(ctx context.Context, url, title string) (*Podcast, error)
	// Unsubscribe removes a subscription.
	Unsubscribe(ctx context.Context, url string) error
	// Rename changes the display title of a subscription.
	Rename(ctx context.Context, url, title string) error
	// Rewrite changes the feed URL of a subscription.
	Rewrite(ctx context.Context, oldURL, newURL string) error
	// Enable resumes feed updates for a subscription.
	Enable(ctx context.Context, url string) error
	// Disable suspends feed updates for a subscription.
	Disable(ctx context.Context, url string) error

	// Get returns one subscription by URL.
	Get(ctx context.Context, url string) (*Podcast, error)
	// Podcasts returns all subscriptions in stable order.
	Podcasts(ctx context.Context) ([]*Podcast, error)

	// Update checks for new episodes; an empty URL updates every enabled
	// subscription.
	Update(ctx context.Context, url string) error
	// Pending returns episodes not yet downloaded, optionally limited to one
	// subscription.
	Pending(ctx context.Context, url string) ([]EpisodeGroup, error)
	// Episodes returns all known episodes, optionally limited to one
	// subscription.
	Episodes(ctx context.Context, url string) ([]EpisodeGroup, error)
	// Download fetches pending episodes and returns how many were downloaded.
	Download(ctx context.Context, url string) (int, error)

	// Search looks up podcasts matching the given terms.
	Search(ctx context.Context, terms []string) ([]DirectoryEntry, error)
	// Toplist returns up to limit popular podcasts.
	Toplist(ctx context.Context, limit int) ([]DirectoryEntry, error)

	// Import subscribes to every feed listed in the given file.
	Import(ctx context.Context, filename string) (int, error)
	// Export writes the current subscription list to the given file.
	Export(ctx context.Context, filename string) error
	// ResolveYoutube turns a YouTube channel or user URL into a feed URL.
	ResolveYoutube(ctx context.Context, url string) (string, error)
	// WebUI starts the embedded web interface, if the build carries one.
	WebUI(ctx context.Context, port string) error

	// SubscriptionURLs returns all subscription URLs in sorted order.
	// Used for tab completion of entity arguments.
	SubscriptionURLs(ctx context.Context) []string

	// Close releases client resources at shell termination.
	Close() error
}
