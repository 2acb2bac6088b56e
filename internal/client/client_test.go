package client

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopod/internal/api"
	"gopod/internal/config"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	settings := config.Default()
	settings.DownloadDir = filepath.Join(t.TempDir(), "downloads")

	c, err := New(settings, false)
	require.NoError(t, err)
	return c
}

func TestNewCreatesDownloadDir(t *testing.T) {
	settings := config.Default()
	settings.DownloadDir = filepath.Join(t.TempDir(), "nested", "downloads")

	c, err := New(settings, false)
	require.NoError(t, err)
	defer c.Close()

	info, err := os.Stat(settings.DownloadDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewStartupFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	settings := config.Default()
	settings.DownloadDir = filepath.Join(blocker, "downloads")

	_, err := New(settings, false)
	var startup *StartupError
	require.ErrorAs(t, err, &startup)
}

func TestSubscribe(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	podcast, err := c.Subscribe(ctx, "http://example.com/shows/radio.xml", "")
	require.NoError(t, err)
	assert.Equal(t, "radio", podcast.Title, "title derived from the URL")

	_, err = c.Subscribe(ctx, "http://example.com/shows/radio.xml", "")
	assert.Error(t, err, "duplicate subscription rejected")

	_, err = c.Subscribe(ctx, "not a url", "")
	assert.Error(t, err, "invalid URL rejected")

	named, err := c.Subscribe(ctx, "http://other.example/feed", "Night Talk")
	require.NoError(t, err)
	assert.Equal(t, "Night Talk", named.Title)
}

func TestUnsubscribe(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.Subscribe(ctx, "http://example.com/feed", "")
	require.NoError(t, err)

	require.NoError(t, c.Unsubscribe(ctx, "http://example.com/feed"))
	assert.Empty(t, c.SubscriptionURLs(ctx))

	err = c.Unsubscribe(ctx, "http://example.com/feed")
	assert.ErrorIs(t, err, api.ErrNotSubscribed)
}

func TestRenameAndRewrite(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.Subscribe(ctx, "http://example.com/feed", "Old Name")
	require.NoError(t, err)

	require.NoError(t, c.Rename(ctx, "http://example.com/feed", "New Name"))
	podcast, err := c.Get(ctx, "http://example.com/feed")
	require.NoError(t, err)
	assert.Equal(t, "New Name", podcast.Title)

	require.NoError(t, c.Rewrite(ctx, "http://example.com/feed", "http://example.com/feed2"))
	_, err = c.Get(ctx, "http://example.com/feed")
	assert.ErrorIs(t, err, api.ErrNotSubscribed)
	moved, err := c.Get(ctx, "http://example.com/feed2")
	require.NoError(t, err)
	assert.Equal(t, "New Name", moved.Title)
}

func TestEnableDisable(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.Subscribe(ctx, "http://example.com/feed", "")
	require.NoError(t, err)

	require.NoError(t, c.Disable(ctx, "http://example.com/feed"))
	podcast, _ := c.Get(ctx, "http://example.com/feed")
	assert.True(t, podcast.Disabled)

	require.NoError(t, c.Enable(ctx, "http://example.com/feed"))
	assert.False(t, podcast.Disabled)
}

func TestPendingAndDownload(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.Subscribe(ctx, "http://example.com/feed", "Show")
	require.NoError(t, err)
	require.NoError(t, c.AddEpisode("http://example.com/feed", "Ep 1", "http://example.com/1.mp3", time.Now()))
	require.NoError(t, c.AddEpisode("http://example.com/feed", "Ep 2", "http://example.com/2.mp3", time.Now()))

	groups, err := c.Pending(ctx, "")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Episodes, 2)

	count, err := c.Download(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	groups, err = c.Pending(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, groups)

	all, err := c.Episodes(ctx, "http://example.com/feed")
	require.NoError(t, err)
	require.Len(t, all, 1)
	for _, episode := range all[0].Episodes {
		assert.True(t, episode.Downloaded)
		assert.False(t, episode.New)
	}
}

func TestUpdateHonorsLimitAndDisabled(t *testing.T) {
	settings := config.Default()
	settings.DownloadDir = filepath.Join(t.TempDir(), "downloads")
	settings.UpdateLimit = 1

	c, err := New(settings, false)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = c.Subscribe(ctx, "http://example.com/feed", "Show")
	require.NoError(t, err)
	require.NoError(t, c.AddEpisode("http://example.com/feed", "Ep 1", "", time.Now().Add(-time.Hour)))
	require.NoError(t, c.AddEpisode("http://example.com/feed", "Ep 2", "", time.Now()))

	require.NoError(t, c.Update(ctx, ""))

	podcast, err := c.Get(ctx, "http://example.com/feed")
	require.NoError(t, err)
	newCount := 0
	for _, episode := range podcast.Episodes {
		if episode.New {
			newCount++
		}
	}
	assert.Equal(t, 1, newCount, "updateLimit caps new episodes")

	require.NoError(t, c.Disable(ctx, "http://example.com/feed"))
	assert.NoError(t, c.Update(ctx, ""), "disabled feeds are skipped, not an error")
}

func TestUpdateCancelled(t *testing.T) {
	c := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())

	_, err := c.Subscribe(ctx, "http://example.com/feed", "")
	require.NoError(t, err)

	cancel()
	err = c.Update(ctx, "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearch(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.Subscribe(ctx, "http://example.com/feed", "Night Radio")
	require.NoError(t, err)
	_, err = c.Subscribe(ctx, "http://other.example/feed", "Morning News")
	require.NoError(t, err)

	entries, err := c.Search(ctx, []string{"night", "radio"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Night Radio", entries[0].Title)

	entries, err = c.Search(ctx, []string{"night", "news"})
	require.NoError(t, err)
	assert.Empty(t, entries, "all terms must match")
}

func TestToplist(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.Subscribe(ctx, "http://a.example/feed", "Small")
	require.NoError(t, err)
	_, err = c.Subscribe(ctx, "http://b.example/feed", "Big")
	require.NoError(t, err)
	require.NoError(t, c.AddEpisode("http://b.example/feed", "Ep", "", time.Now()))

	entries, err := c.Toplist(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Big", entries[0].Title)
}

func TestImportExport(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	dir := t.TempDir()

	listFile := filepath.Join(dir, "feeds.txt")
	content := "# subscriptions\nhttp://a.example/feed\n\nhttp://b.example/feed\nnot a url\n"
	require.NoError(t, os.WriteFile(listFile, []byte(content), 0644))

	count, err := c.Import(ctx, listFile)
	require.NoError(t, err)
	assert.Equal(t, 2, count, "comments, blanks and invalid lines are skipped")

	exportFile := filepath.Join(dir, "out.txt")
	require.NoError(t, c.Export(ctx, exportFile))
	data, err := os.ReadFile(exportFile)
	require.NoError(t, err)
	assert.Equal(t, "http://a.example/feed\nhttp://b.example/feed\n", string(data))

	_, err = c.Import(ctx, filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}

func TestResolveYoutube(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	feed, err := c.ResolveYoutube(ctx, "https://www.youtube.com/channel/UC123")
	require.NoError(t, err)
	assert.Equal(t, "https://www.youtube.com/feeds/videos.xml?channel_id=UC123", feed)

	feed, err = c.ResolveYoutube(ctx, "https://www.youtube.com/user/somebody")
	require.NoError(t, err)
	assert.Equal(t, "https://www.youtube.com/feeds/videos.xml?user=somebody", feed)

	_, err = c.ResolveYoutube(ctx, "https://example.com/watch")
	assert.Error(t, err)

	_, err = c.ResolveYoutube(ctx, "https://www.youtube.com/watch?v=abc")
	assert.Error(t, err)
}

func TestWebUIUnsupported(t *testing.T) {
	c := newTestClient(t)

	err := c.WebUI(context.Background(), "")
	assert.True(t, errors.Is(err, api.ErrUnsupported))
}

func TestSubscriptionURLsSorted(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	for _, u := range []string{"http://c.example/feed", "http://a.example/feed", "http://b.example/feed"} {
		_, err := c.Subscribe(ctx, u, "")
		require.NoError(t, err)
	}

	assert.Equal(t, []string{
		"http://a.example/feed",
		"http://b.example/feed",
		"http://c.example/feed",
	}, c.SubscriptionURLs(ctx))
}
