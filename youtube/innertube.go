package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"ytscrape/internal/httpx"
)

// Innertube browse API constants. The params blob selects the Videos tab.
const (
	browseEndpoint       = "https://www.youtube.com/youtubei/v1/browse"
	innertubeClientName  = "WEB"
	innertubeVersion     = "2.20240101.00.00"
	videosTabParams      = "EgZ2aWRlb3PyBgQKAjoA"
	playlistBrowsePrefix = "VL"
)

var (
	channelIDRegex = regexp.MustCompile(`UC[\w-]{22}`)
	// pageChannelIDRegex finds the channel ID embedded in a channel page,
	// used to resolve @handles and /c/ custom URLs.
	pageChannelIDRegex = regexp.MustCompile(`"channelId":"(UC[\w-]{22})"`)
)

// InnertubeLister enumerates channel and playlist videos through the
// Innertube browse API with continuation-token pagination. Unlike the
// browser lister it needs no Chrome and can drain a listing to the end, so
// its results are always marked complete.
type InnertubeLister struct {
	client *httpx.Client
}

// NewInnertubeLister creates a browse-API lister. A nil client uses
// httpx defaults.
func NewInnertubeLister(client *httpx.Client) *InnertubeLister {
	if client == nil {
		client = httpx.New(nil)
	}
	return &InnertubeLister{client: client}
}

// List resolves the listing URL to a browse ID and pages through the
// results until the continuation token drains or MaxVideos is reached.
func (l *InnertubeLister) List(ctx context.Context, listURL string, opts *ListOptions) (*Listing, error) {
	if opts == nil {
		opts = &ListOptions{}
	}
	progress := opts.OnProgress
	if progress == nil {
		progress = func(string) {}
	}

	browseID, params, err := l.resolveBrowseID(ctx, listURL)
	if err != nil {
		return nil, &ListerError{Source: "innertube", URL: listURL, Err: err}
	}

	seen := make(map[string]bool)
	var videos []VideoRef
	token := ""
	pages := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, &ListerError{Source: "innertube", URL: listURL, Err: err}
		}

		resp, err := l.browse(ctx, browseID, params, token)
		if err != nil {
			return nil, &ListerError{Source: "innertube", URL: listURL,
				Err: fmt.Errorf("browse page %d: %w", pages, err)}
		}
		pages++

		page, next := extractBrowsePage(resp)
		for _, v := range page {
			if v.ID == "" || seen[v.ID] {
				continue
			}
			seen[v.ID] = true
			videos = append(videos, v)
		}
		progress(fmt.Sprintf("Page %d: %d videos so far", pages, len(videos)))

		if opts.MaxVideos > 0 && len(videos) >= opts.MaxVideos {
			videos = videos[:opts.MaxVideos]
			return &Listing{Videos: videos, Complete: true, Scrolls: pages}, nil
		}
		if next == "" {
			break
		}
		token = next
	}

	progress(fmt.Sprintf("Found %d unique videos", len(videos)))
	return &Listing{Videos: videos, Complete: true, Scrolls: pages}, nil
}

// resolveBrowseID maps a listing URL to an Innertube browse ID. Playlists
// browse as "VL<list>", channels as their UC id; @handles and custom URLs
// are resolved by fetching the channel page and reading the embedded ID.
func (l *InnertubeLister) resolveBrowseID(ctx context.Context, listURL string) (browseID, params string, err error) {
	u, err := url.Parse(strings.TrimSpace(listURL))
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	if list := u.Query().Get("list"); list != "" {
		return playlistBrowsePrefix + list, "", nil
	}
	if id := channelIDRegex.FindString(u.Path); id != "" {
		return id, videosTabParams, nil
	}

	// Handle or custom URL: the channel page embeds the UC id.
	resp, err := l.client.Get(ctx, listURL)
	if err != nil {
		return "", "", fmt.Errorf("resolve channel ID: %w", err)
	}
	m := pageChannelIDRegex.FindSubmatch(resp.Body)
	if m == nil {
		return "", "", fmt.Errorf("%w: no channel ID in page %q", ErrInvalidURL, listURL)
	}
	return string(m[1]), videosTabParams, nil
}

// browseRequest is the JSON body for the browse endpoint.
type browseRequest struct {
	Context      browseContext `json:"context"`
	BrowseID     string        `json:"browseId,omitempty"`
	Params       string        `json:"params,omitempty"`
	Continuation string        `json:"continuation,omitempty"`
}

type browseContext struct {
	Client browseClient `json:"client"`
}

type browseClient struct {
	ClientName    string `json:"clientName"`
	ClientVersion string `json:"clientVersion"`
	HL            string `json:"hl"`
	GL            string `json:"gl"`
}

func (l *InnertubeLister) browse(ctx context.Context, browseID, params, continuation string) (*browseResponse, error) {
	req := &browseRequest{
		Context: browseContext{
			Client: browseClient{
				ClientName:    innertubeClientName,
				ClientVersion: innertubeVersion,
				HL:            "en",
				GL:            "US",
			},
		},
	}
	if continuation != "" {
		req.Continuation = continuation
	} else {
		req.BrowseID = browseID
		req.Params = params
	}

	resp, err := l.client.PostJSON(ctx, browseEndpoint, req)
	if err != nil {
		return nil, err
	}

	var out browseResponse
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, fmt.Errorf("unmarshal browse response: %w", err)
	}
	return &out, nil
}

// Condensed browse response shape: only the paths that carry video items or
// continuation tokens are modeled.
type browseResponse struct {
	Contents *struct {
		TwoColumnBrowseResultsRenderer *struct {
			Tabs []struct {
				TabRenderer *struct {
					Selected bool `json:"selected"`
					Content  *struct {
						RichGridRenderer *struct {
							Contents []gridItem `json:"contents"`
						} `json:"richGridRenderer"`
						SectionListRenderer *struct {
							Contents []struct {
								ItemSectionRenderer *struct {
									Contents []struct {
										PlaylistVideoListRenderer *struct {
											Contents []gridItem `json:"contents"`
										} `json:"playlistVideoListRenderer"`
									} `json:"contents"`
								} `json:"itemSectionRenderer"`
							} `json:"contents"`
						} `json:"sectionListRenderer"`
					} `json:"content"`
				} `json:"tabRenderer"`
			} `json:"tabs"`
		} `json:"twoColumnBrowseResultsRenderer"`
	} `json:"contents"`
	OnResponseReceivedActions []struct {
		AppendContinuationItemsAction *struct {
			ContinuationItems []gridItem `json:"continuationItems"`
		} `json:"appendContinuationItemsAction"`
	} `json:"onResponseReceivedActions"`
}

// gridItem is a single listing entry: a video in one of its renderer
// shapes, or the trailing continuation token.
type gridItem struct {
	RichItemRenderer *struct {
		Content *struct {
			VideoRenderer *videoRenderer `json:"videoRenderer"`
		} `json:"content"`
	} `json:"richItemRenderer"`
	GridVideoRenderer        *videoRenderer `json:"gridVideoRenderer"`
	PlaylistVideoRenderer    *videoRenderer `json:"playlistVideoRenderer"`
	ContinuationItemRenderer *struct {
		ContinuationEndpoint *struct {
			ContinuationCommand *struct {
				Token string `json:"token"`
			} `json:"continuationCommand"`
		} `json:"continuationEndpoint"`
	} `json:"continuationItemRenderer"`
}

type videoRenderer struct {
	VideoID string `json:"videoId"`
	Title   *struct {
		SimpleText string `json:"simpleText"`
		Runs       []struct {
			Text string `json:"text"`
		} `json:"runs"`
	} `json:"title"`
}

func (v *videoRenderer) title() string {
	if v.Title == nil {
		return ""
	}
	if v.Title.SimpleText != "" {
		return v.Title.SimpleText
	}
	var parts []string
	for _, r := range v.Title.Runs {
		parts = append(parts, r.Text)
	}
	return strings.Join(parts, "")
}

// extractBrowsePage pulls the videos and the next continuation token out of
// a browse response, covering both the first page and continuation pages.
func extractBrowsePage(resp *browseResponse) (videos []VideoRef, nextToken string) {
	collect := func(items []gridItem) {
		for _, item := range items {
			var vr *videoRenderer
			switch {
			case item.RichItemRenderer != nil && item.RichItemRenderer.Content != nil:
				vr = item.RichItemRenderer.Content.VideoRenderer
			case item.GridVideoRenderer != nil:
				vr = item.GridVideoRenderer
			case item.PlaylistVideoRenderer != nil:
				vr = item.PlaylistVideoRenderer
			case item.ContinuationItemRenderer != nil:
				ep := item.ContinuationItemRenderer.ContinuationEndpoint
				if ep != nil && ep.ContinuationCommand != nil {
					nextToken = ep.ContinuationCommand.Token
				}
			}
			if vr != nil && vr.VideoID != "" {
				videos = append(videos, VideoRef{
					ID:    vr.VideoID,
					URL:   WatchURL(vr.VideoID),
					Title: strings.TrimSpace(vr.title()),
				})
			}
		}
	}

	for _, action := range resp.OnResponseReceivedActions {
		if action.AppendContinuationItemsAction != nil {
			collect(action.AppendContinuationItemsAction.ContinuationItems)
		}
	}
	if resp.Contents != nil && resp.Contents.TwoColumnBrowseResultsRenderer != nil {
		for _, tab := range resp.Contents.TwoColumnBrowseResultsRenderer.Tabs {
			tr := tab.TabRenderer
			if tr == nil || tr.Content == nil {
				continue
			}
			if grid := tr.Content.RichGridRenderer; grid != nil {
				collect(grid.Contents)
			}
			if sl := tr.Content.SectionListRenderer; sl != nil {
				for _, sc := range sl.Contents {
					if sc.ItemSectionRenderer == nil {
						continue
					}
					for _, ic := range sc.ItemSectionRenderer.Contents {
						if ic.PlaylistVideoListRenderer != nil {
							collect(ic.PlaylistVideoListRenderer.Contents)
						}
					}
				}
			}
		}
	}
	return videos, nextToken
}
