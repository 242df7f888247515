package provider

// VideoInfo is the resolved metadata for a submitted link.
type VideoInfo struct {
	VideoID   string `json:"videoId,omitempty"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Platform  string `json:"platform"` // "youtube" | "spotify"
	Duration  int    `json:"duration"` // seconds
	URL       string `json:"url,omitempty"`
}

// SearchResult is one candidate video returned by Search.
type SearchResult struct {
	VideoID   string `json:"videoId"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Duration  int    `json:"duration,omitempty"` // seconds
}
