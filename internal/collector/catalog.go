package collector

import (
	"context"

	"coursespider/internal/youtube"
)

// Catalog is the slice of the YouTube client the collector depends on.
// *youtube.Client satisfies it; tests substitute fakes.
type Catalog interface {
	SearchPlaylists(ctx context.Context, keyword string, maxResults int, relevanceLanguage string) ([]youtube.SearchResult, error)
	PlaylistDetails(ctx context.Context, id string) (*youtube.Playlist, error)
	PlaylistItems(ctx context.Context, playlistID string) ([]youtube.PlaylistItem, error)
	VideoDetails(ctx context.Context, ids []string) []youtube.Video
	ChannelDetails(ctx context.Context, id string) (*youtube.Channel, error)
}
