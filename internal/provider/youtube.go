package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrSearchUnavailable is returned by Search when no YouTube API key is
// configured.
var ErrSearchUnavailable = errors.New("youtube search is not configured")

// Client resolves submitted links to video metadata and searches YouTube.
// Base URLs are fields so tests can point the client at a local server.
type Client struct {
	apiKey string

	oembedURL        string
	watchURL         string
	thumbnailURL     string
	spotifyOembedURL string
	searchURL        string
	videosURL        string

	http *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:           apiKey,
		oembedURL:        "https://www.youtube.com/oembed",
		watchURL:         "https://www.youtube.com/watch",
		thumbnailURL:     "https://img.youtube.com/vi",
		spotifyOembedURL: "https://open.spotify.com/oembed",
		searchURL:        "https://www.googleapis.com/youtube/v3/search",
		videosURL:        "https://www.googleapis.com/youtube/v3/videos",
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Resolve fetches metadata for a supported link. It returns nil with an
// error when the link is unsupported or the upstream lookup fails; no
// partial result is ever returned.
func (c *Client) Resolve(ctx context.Context, link string) (*VideoInfo, error) {
	platform, ok := ValidateLink(link)
	if !ok {
		return nil, fmt.Errorf("unsupported link %q", link)
	}
	switch platform {
	case PlatformYouTube:
		return c.resolveYouTube(ctx, link)
	default:
		return c.resolveSpotify(ctx, link)
	}
}

type oembedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

func (c *Client) resolveYouTube(ctx context.Context, link string) (*VideoInfo, error) {
	videoID := ExtractYouTubeID(link)
	if videoID == "" {
		return nil, fmt.Errorf("no video id in link %q", link)
	}

	watch := c.watchURL + "?v=" + url.QueryEscape(videoID)
	var oe oembedResponse
	if err := c.getJSON(ctx, c.oembedURL+"?url="+url.QueryEscape(watch)+"&format=json", &oe); err != nil {
		return nil, fmt.Errorf("youtube oembed: %w", err)
	}

	info := &VideoInfo{
		VideoID:   videoID,
		Title:     oe.Title,
		Author:    oe.AuthorName,
		Thumbnail: c.thumbnailURL + "/" + videoID + "/mqdefault.jpg",
		Platform:  PlatformYouTube,
		Duration:  0,
		URL:       link,
	}

	// The oembed payload carries no duration; scrape it from the watch page.
	// A failed scrape leaves Duration at 0 and the caller falls back to the
	// scheduling default.
	if d, err := c.fetchWatchDuration(ctx, watch); err == nil {
		info.Duration = d
	} else {
		log.Printf("songqueue-service: youtube duration lookup for %s: %v", videoID, err)
	}
	return info, nil
}

var approxDurationPattern = regexp.MustCompile(`"approxDurationMs":"(\d+)"`)

func (c *Client) fetchWatchDuration(ctx context.Context, watch string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, watch, nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("watch page status %d", resp.StatusCode)
	}

	// The marker sits early in the page; 2 MB is more than enough.
	page, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return 0, err
	}

	m := approxDurationPattern.FindSubmatch(page)
	if m == nil {
		return 0, errors.New("no duration marker in watch page")
	}
	ms, err := strconv.Atoi(string(m[1]))
	if err != nil {
		return 0, err
	}
	return ms / 1000, nil
}

func (c *Client) resolveSpotify(ctx context.Context, link string) (*VideoInfo, error) {
	var oe oembedResponse
	if err := c.getJSON(ctx, c.spotifyOembedURL+"?url="+url.QueryEscape(link), &oe); err != nil {
		return nil, fmt.Errorf("spotify oembed: %w", err)
	}

	author := "Spotify Artist"
	if i := strings.Index(oe.Title, " - "); i > 0 {
		author = oe.Title[:i]
	}

	return &VideoInfo{
		Title:     oe.Title,
		Author:    author,
		Thumbnail: oe.ThumbnailURL,
		Platform:  PlatformSpotify,
		// Spotify oembed carries no duration either; scheduling default applies.
		Duration: 0,
		URL:      link,
	}, nil
}

type ytSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			Thumbnails   struct {
				Default struct {
					URL string `json:"url"`
				} `json:"default"`
				Medium struct {
					URL string `json:"url"`
				} `json:"medium"`
				High struct {
					URL string `json:"url"`
				} `json:"high"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

type ytVideosResponse struct {
	Items []struct {
		ID             string `json:"id"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

// Search queries the YouTube Data API for video candidates. Requires an API
// key; deployments without one get ErrSearchUnavailable.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if c.apiKey == "" {
		return nil, ErrSearchUnavailable
	}
	if limit <= 0 || limit > 25 {
		limit = 10
	}

	val := url.Values{}
	val.Set("part", "snippet")
	val.Set("type", "video")
	val.Set("maxResults", strconv.Itoa(limit))
	val.Set("q", query)
	val.Set("key", c.apiKey)

	var body ytSearchResponse
	if err := c.getJSON(ctx, c.searchURL+"?"+val.Encode(), &body); err != nil {
		return nil, fmt.Errorf("youtube search: %w", err)
	}

	out := make([]SearchResult, 0, len(body.Items))
	var videoIDs []string
	for _, it := range body.Items {
		thumbs := it.Snippet.Thumbnails
		thumb := thumbs.High.URL
		if thumb == "" {
			thumb = thumbs.Medium.URL
		}
		if thumb == "" {
			thumb = thumbs.Default.URL
		}
		out = append(out, SearchResult{
			VideoID:   it.ID.VideoID,
			Title:     it.Snippet.Title,
			Author:    it.Snippet.ChannelTitle,
			Thumbnail: thumb,
		})
		videoIDs = append(videoIDs, it.ID.VideoID)
	}

	if len(videoIDs) > 0 {
		durations, err := c.fetchDurations(ctx, videoIDs)
		if err != nil {
			// Results are still useful without durations.
			log.Printf("songqueue-service: youtube durations: %v", err)
		} else {
			for i := range out {
				out[i].Duration = durations[out[i].VideoID]
			}
		}
	}
	return out, nil
}

func (c *Client) fetchDurations(ctx context.Context, ids []string) (map[string]int, error) {
	val := url.Values{}
	val.Set("part", "contentDetails")
	val.Set("id", strings.Join(ids, ","))
	val.Set("key", c.apiKey)

	var body ytVideosResponse
	if err := c.getJSON(ctx, c.videosURL+"?"+val.Encode(), &body); err != nil {
		return nil, err
	}

	durations := make(map[string]int, len(body.Items))
	for _, item := range body.Items {
		durations[item.ID] = parseISO8601Duration(item.ContentDetails.Duration)
	}
	return durations, nil
}

var iso8601Pattern = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

func parseISO8601Duration(duration string) int {
	m := iso8601Pattern.FindStringSubmatch(duration)
	if m == nil {
		return 0
	}
	atoi := func(s string) int {
		v, _ := strconv.Atoi(s)
		return v
	}
	return atoi(m[1])*3600 + atoi(m[2])*60 + atoi(m[3])
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
