package youtube

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"coursespider/internal/logging"
)

// videoBatchSize is the API's maximum for a single videos.list call.
const videoBatchSize = 50

// SearchPlaylists runs a playlist search ordered by relevance. The page
// size is capped at the configured search maximum.
func (c *Client) SearchPlaylists(ctx context.Context, keyword string, maxResults int, relevanceLanguage string) ([]SearchResult, error) {
	if c.searchMax > 0 && maxResults > c.searchMax {
		maxResults = c.searchMax
	}
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", keyword)
	params.Set("type", "playlist")
	params.Set("order", "relevance")
	params.Set("maxResults", strconv.Itoa(maxResults))
	if relevanceLanguage != "" {
		params.Set("relevanceLanguage", relevanceLanguage)
	}

	var resp searchResponse
	if err := c.get(ctx, "search", params, &resp); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.ID.PlaylistID == "" {
			continue
		}
		results = append(results, SearchResult{
			PlaylistID:   item.ID.PlaylistID,
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			ChannelID:    item.Snippet.ChannelID,
			ChannelTitle: item.Snippet.ChannelTitle,
		})
	}
	return results, nil
}

// PlaylistDetails fetches one playlist. A deleted or private playlist
// yields (nil, nil) rather than an error.
func (c *Client) PlaylistDetails(ctx context.Context, id string) (*Playlist, error) {
	params := url.Values{}
	params.Set("part", "snippet,contentDetails")
	params.Set("id", id)

	var resp playlistsResponse
	if err := c.get(ctx, "playlists", params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, nil
	}

	item := resp.Items[0]
	return &Playlist{
		ID:                   item.ID,
		Title:                item.Snippet.Title,
		Description:          item.Snippet.Description,
		ChannelID:            item.Snippet.ChannelID,
		ChannelTitle:         item.Snippet.ChannelTitle,
		PublishedAt:          item.Snippet.PublishedAt,
		Thumbnail:            item.Snippet.Thumbnails.best(),
		ItemCount:            item.ContentDetails.ItemCount,
		DefaultLanguage:      item.Snippet.DefaultLanguage,
		DefaultAudioLanguage: item.Snippet.DefaultAudio,
	}, nil
}

// PlaylistItems fetches every item in the playlist, following
// nextPageToken. On a mid-pagination failure the items accumulated so far
// are returned alongside the error.
func (c *Client) PlaylistItems(ctx context.Context, playlistID string) ([]PlaylistItem, error) {
	var items []PlaylistItem
	pageToken := ""
	for {
		params := url.Values{}
		params.Set("part", "snippet")
		params.Set("playlistId", playlistID)
		params.Set("maxResults", "50")
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var resp playlistItemsResponse
		if err := c.get(ctx, "playlistItems", params, &resp); err != nil {
			return items, fmt.Errorf("playlist %s items: %w", playlistID, err)
		}
		for _, item := range resp.Items {
			if item.Snippet.ResourceID.VideoID == "" {
				continue
			}
			items = append(items, PlaylistItem{
				VideoID:  item.Snippet.ResourceID.VideoID,
				Title:    item.Snippet.Title,
				Position: item.Snippet.Position,
			})
		}
		if resp.NextPageToken == "" {
			return items, nil
		}
		pageToken = resp.NextPageToken
	}
}

// VideoDetails fetches details for the given video ids in batches of 50.
// A failed batch is logged and skipped; the other batches still contribute.
func (c *Client) VideoDetails(ctx context.Context, ids []string) []Video {
	videos := make([]Video, 0, len(ids))
	for start := 0; start < len(ids); start += videoBatchSize {
		end := min(start+videoBatchSize, len(ids))
		batch := ids[start:end]

		params := url.Values{}
		params.Set("part", "snippet,contentDetails,statistics")
		params.Set("id", strings.Join(batch, ","))

		var resp videosResponse
		if err := c.get(ctx, "videos", params, &resp); err != nil {
			c.logger.Warn("video batch failed",
				logging.Int("batch_start", start),
				logging.Int("batch_size", len(batch)),
				logging.Error(err))
			continue
		}
		for _, item := range resp.Items {
			videos = append(videos, Video{
				ID:          item.ID,
				Title:       item.Snippet.Title,
				Description: item.Snippet.Description,
				Duration:    item.ContentDetails.Duration,
				Thumbnail:   item.Snippet.Thumbnails.best(),
				PublishedAt: item.Snippet.PublishedAt,
				ViewCount:   parseCount(item.Statistics.ViewCount),
				LikeCount:   parseCount(item.Statistics.LikeCount),
			})
		}
	}
	return videos
}

// ChannelDetails fetches one channel. Absent channels yield (nil, nil).
func (c *Client) ChannelDetails(ctx context.Context, id string) (*Channel, error) {
	params := url.Values{}
	params.Set("part", "snippet,statistics")
	params.Set("id", id)

	var resp channelsResponse
	if err := c.get(ctx, "channels", params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, nil
	}

	item := resp.Items[0]
	return &Channel{
		ID:          item.ID,
		Title:       item.Snippet.Title,
		Subscribers: parseCount(item.Statistics.SubscriberCount),
	}, nil
}

// parseCount converts the API's decimal-string counters. Hidden counters
// come back empty and count as zero.
func parseCount(value string) int64 {
	if value == "" {
		return 0
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
