// Package youtube provides YouTube URL classification, video listing, and
// transcript extraction.
package youtube

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Sentinel errors for URL handling and transcript extraction.
var (
	ErrInvalidURL   = errors.New("youtube: invalid URL")
	ErrNoTranscript = errors.New("youtube: no transcript available")
	ErrRateLimited  = errors.New("youtube: rate limited")
)

// Kind classifies a user-submitted URL.
type Kind int

const (
	// KindVideo is a single watch URL.
	KindVideo Kind = iota
	// KindChannel is a channel URL (/channel/, /c/, /user/, /@handle).
	KindChannel
	// KindPlaylist is a playlist URL.
	KindPlaylist
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindVideo:
		return "video"
	case KindChannel:
		return "channel"
	case KindPlaylist:
		return "playlist"
	}
	return "unknown"
}

var videoIDRegex = regexp.MustCompile(`^[\w-]{11}$`)

// Classify inspects a URL and tags it as a single video, a channel, or a
// playlist. Anything that is not a youtube.com or youtu.be URL is rejected
// with ErrInvalidURL.
func Classify(rawURL string) (Kind, error) {
	raw := strings.TrimSpace(rawURL)
	if raw == "" {
		return 0, fmt.Errorf("%w: empty input", ErrInvalidURL)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch host {
	case "youtu.be":
		return KindVideo, nil
	case "youtube.com", "m.youtube.com", "music.youtube.com":
	default:
		return 0, fmt.Errorf("%w: not a YouTube URL: %q", ErrInvalidURL, raw)
	}

	path := u.Path
	switch {
	case path == "/watch" && u.Query().Get("v") != "":
		return KindVideo, nil
	case strings.HasPrefix(path, "/shorts/"):
		return KindVideo, nil
	case path == "/playlist" && u.Query().Get("list") != "":
		return KindPlaylist, nil
	case strings.HasPrefix(path, "/channel/"),
		strings.HasPrefix(path, "/c/"),
		strings.HasPrefix(path, "/user/"),
		strings.HasPrefix(path, "/@"):
		return KindChannel, nil
	}

	return 0, fmt.Errorf("%w: unrecognized YouTube URL: %q", ErrInvalidURL, raw)
}

// ExtractVideoID pulls the 11-character video ID out of a watch, youtu.be,
// or shorts URL. Extra query parameters (playlist context, timestamps) are
// ignored.
func ExtractVideoID(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	var id string
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch {
	case host == "youtu.be":
		id = strings.TrimPrefix(u.Path, "/")
		id = strings.SplitN(id, "/", 2)[0]
	case strings.HasPrefix(u.Path, "/shorts/"):
		id = strings.TrimPrefix(u.Path, "/shorts/")
		id = strings.SplitN(id, "/", 2)[0]
	default:
		id = u.Query().Get("v")
	}

	if !videoIDRegex.MatchString(id) {
		return "", fmt.Errorf("%w: no video ID in %q", ErrInvalidURL, rawURL)
	}
	return id, nil
}

// WatchURL returns the canonical watch URL for a video ID.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// NewVideoRef builds a VideoRef from a single-video URL. The title is left
// empty; the transcript fetcher fills it in from the watch page.
func NewVideoRef(rawURL string) (VideoRef, error) {
	id, err := ExtractVideoID(rawURL)
	if err != nil {
		return VideoRef{}, err
	}
	return VideoRef{ID: id, URL: WatchURL(id)}, nil
}

// NormalizeListingURL prepares a channel or playlist URL for listing.
// Channel URLs are forced onto their /videos tab, matching what the listing
// page scraper expects.
func NormalizeListingURL(rawURL string, kind Kind) string {
	raw := strings.TrimSpace(rawURL)
	if kind != KindChannel {
		return raw
	}
	trimmed := strings.TrimRight(raw, "/")
	if strings.HasSuffix(trimmed, "/videos") {
		return trimmed
	}
	return trimmed + "/videos"
}
