package youtube

// SearchResult is one playlist hit from the search endpoint.
type SearchResult struct {
	PlaylistID   string
	Title        string
	Description  string
	ChannelID    string
	ChannelTitle string
}

// Playlist holds the metadata the collector needs from playlists.list.
// DefaultAudioLanguage backs up DefaultLanguage; playlists rarely set both.
type Playlist struct {
	ID                   string
	Title                string
	Description          string
	ChannelID            string
	ChannelTitle         string
	PublishedAt          string
	Thumbnail            string
	ItemCount            int
	DefaultLanguage      string
	DefaultAudioLanguage string
}

// PlaylistItem is one video entry inside a playlist, in playlist order.
type PlaylistItem struct {
	VideoID  string
	Title    string
	Position int
}

// Video holds per-video details from videos.list.
type Video struct {
	ID          string
	Title       string
	Description string
	Duration    string // ISO-8601, e.g. PT1H2M3S
	Thumbnail   string
	PublishedAt string
	ViewCount   int64
	LikeCount   int64
}

// Channel holds the channel fields shown on a course's author.
type Channel struct {
	ID          string
	Title       string
	Subscribers int64
}

// Wire types below mirror the Data API JSON. Statistics counters come back
// as decimal strings.

type apiThumbnail struct {
	URL string `json:"url"`
}

type apiThumbnails struct {
	Default  apiThumbnail `json:"default"`
	Medium   apiThumbnail `json:"medium"`
	High     apiThumbnail `json:"high"`
	Standard apiThumbnail `json:"standard"`
}

// best returns the largest available thumbnail URL.
func (t apiThumbnails) best() string {
	for _, thumb := range []apiThumbnail{t.Standard, t.High, t.Medium, t.Default} {
		if thumb.URL != "" {
			return thumb.URL
		}
	}
	return ""
}

type apiSnippet struct {
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	ChannelID       string        `json:"channelId"`
	ChannelTitle    string        `json:"channelTitle"`
	PublishedAt     string        `json:"publishedAt"`
	Thumbnails      apiThumbnails `json:"thumbnails"`
	DefaultLanguage string        `json:"defaultLanguage"`
	DefaultAudio    string        `json:"defaultAudioLanguage"`
	Position        int           `json:"position"`
	ResourceID      struct {
		VideoID string `json:"videoId"`
	} `json:"resourceId"`
}

type searchResponse struct {
	Items []struct {
		ID struct {
			PlaylistID string `json:"playlistId"`
		} `json:"id"`
		Snippet apiSnippet `json:"snippet"`
	} `json:"items"`
}

type playlistsResponse struct {
	Items []struct {
		ID             string     `json:"id"`
		Snippet        apiSnippet `json:"snippet"`
		ContentDetails struct {
			ItemCount int `json:"itemCount"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type playlistItemsResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		Snippet apiSnippet `json:"snippet"`
	} `json:"items"`
}

type videosResponse struct {
	Items []struct {
		ID             string     `json:"id"`
		Snippet        apiSnippet `json:"snippet"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
			LikeCount string `json:"likeCount"`
		} `json:"statistics"`
	} `json:"items"`
}

type channelsResponse struct {
	Items []struct {
		ID         string `json:"id"`
		Statistics struct {
			SubscriberCount string `json:"subscriberCount"`
		} `json:"statistics"`
		Snippet apiSnippet `json:"snippet"`
	} `json:"items"`
}
