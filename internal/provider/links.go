package provider

import "regexp"

const (
	PlatformYouTube = "youtube"
	PlatformSpotify = "spotify"
)

var youtubePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(https?://)?(www\.)?youtube\.com/watch\?v=[a-zA-Z0-9_-]{11}`),
	regexp.MustCompile(`^(https?://)?(www\.)?youtu\.be/[a-zA-Z0-9_-]{11}`),
	regexp.MustCompile(`^(https?://)?(www\.)?youtube\.com/embed/[a-zA-Z0-9_-]{11}`),
	regexp.MustCompile(`^(https?://)?music\.youtube\.com/watch\?v=[a-zA-Z0-9_-]{11}`),
}

var spotifyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(https?://)?(open\.)?spotify\.com/track/[a-zA-Z0-9]+`),
	regexp.MustCompile(`^(https?://)?(open\.)?spotify\.com/intl-[a-z]+/track/[a-zA-Z0-9]+`),
}

var youtubeIDPattern = regexp.MustCompile(
	`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/|music\.youtube\.com/watch\?v=)([a-zA-Z0-9_-]{11})`)

// ValidateLink reports the platform a URL belongs to. Supported platforms
// are YouTube (watch, short, embed and music URLs) and Spotify tracks.
func ValidateLink(url string) (string, bool) {
	if url == "" {
		return "", false
	}
	for _, p := range youtubePatterns {
		if p.MatchString(url) {
			return PlatformYouTube, true
		}
	}
	for _, p := range spotifyPatterns {
		if p.MatchString(url) {
			return PlatformSpotify, true
		}
	}
	return "", false
}

// ExtractYouTubeID pulls the 11-character video id out of any supported
// YouTube URL form. Returns "" when no id is present.
func ExtractYouTubeID(url string) string {
	m := youtubeIDPattern.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[1]
}
