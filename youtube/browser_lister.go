package youtube

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"ytscrape/browser"
)

// JS snippets run inside the listing page. Selector lists are ordered from
// most to least specific; the first selector that matches anything wins.
const (
	consentJS = `(() => {
		const buttons = document.querySelectorAll('button');
		for (const b of buttons) {
			const label = (b.getAttribute('aria-label') || b.textContent || '').trim();
			if (/^(accept|accept all|reject all)$/i.test(label)) {
				b.click();
				return true;
			}
		}
		return false;
	})()`

	scrollJS = `(() => {
		window.scrollTo(0, document.documentElement.scrollHeight);
		return document.documentElement.scrollHeight;
	})()`

	collectLinksJS = `(() => {
		const links = [];
		const selectors = [
			'a#video-title', 'a#video-title-link',
			'ytd-video-renderer a#video-title',
			'ytd-grid-video-renderer a#video-title',
			'ytd-rich-grid-media a#video-title-link',
			'ytd-playlist-video-renderer a#video-title'
		];
		for (const selector of selectors) {
			for (const el of document.querySelectorAll(selector)) {
				if (el.href && el.href.includes('watch?v=')) {
					links.push({
						url: el.href.split('&')[0],
						title: (el.title || el.textContent || '').trim()
					});
				}
			}
			if (links.length > 0) break;
		}
		return links;
	})()`
)

// scrollSettle is how long the listing page gets to load new items after
// each scroll before the height is re-measured.
const scrollSettle = 2500 * time.Millisecond

// BrowserLister enumerates videos by scrolling a listing page in a headless
// browser. It works for channels and playlists alike and needs no API
// access, at the price of a termination heuristic: it stops once the page
// height stops growing for a patience threshold of consecutive scrolls.
type BrowserLister struct {
	browser *browser.Browser
}

// NewBrowserLister creates a lister backed by the given browser.
func NewBrowserLister(b *browser.Browser) *BrowserLister {
	return &BrowserLister{browser: b}
}

// List loads the listing page, scrolls until it goes quiet, and collects the
// video links currently in the DOM.
func (l *BrowserLister) List(ctx context.Context, listURL string, opts *ListOptions) (*Listing, error) {
	if opts == nil {
		opts = &ListOptions{}
	}
	progress := opts.OnProgress
	if progress == nil {
		progress = func(string) {}
	}

	tabCtx, closeTab, err := l.browser.NewTab(ctx)
	if err != nil {
		return nil, &ListerError{Source: "browser", URL: listURL, Err: err}
	}
	defer closeTab()

	progress("Loading URL: " + listURL)
	if err := l.browser.Navigate(tabCtx, listURL); err != nil {
		return nil, &ListerError{Source: "browser", URL: listURL, Err: err}
	}

	// Consent popup shows up on fresh profiles in some regions. Dismissing
	// it is best effort; the listing still renders behind it either way.
	var clicked bool
	if err := chromedp.Run(tabCtx, chromedp.Evaluate(consentJS, &clicked)); err == nil && clicked {
		progress("Cookie popup found, dismissed")
		_ = chromedp.Run(tabCtx, chromedp.Sleep(2*time.Second))
	}

	progress("Scrolling to load all videos (this may take a while)...")
	scrolls, complete, err := scrollUntilQuiet(tabCtx, pageScroller{tabCtx}, opts, progress)
	if err != nil {
		return nil, &ListerError{Source: "browser", URL: listURL, Err: err}
	}
	progress(fmt.Sprintf("Scrolling complete after %d attempts", scrolls))

	var links []videoLink
	if err := chromedp.Run(tabCtx, chromedp.Evaluate(collectLinksJS, &links)); err != nil {
		return nil, &ListerError{Source: "browser", URL: listURL, Err: fmt.Errorf("collect links: %w", err)}
	}

	videos := dedupeLinks(links)
	if opts.MaxVideos > 0 && len(videos) > opts.MaxVideos {
		videos = videos[:opts.MaxVideos]
	}
	progress(fmt.Sprintf("Found %d unique videos", len(videos)))

	return &Listing{Videos: videos, Complete: complete, Scrolls: scrolls}, nil
}

// videoLink is the raw shape returned by collectLinksJS.
type videoLink struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// scroller measures one scroll-to-bottom step and reports the resulting
// document height. Split out so the patience loop is testable without
// a browser.
type scroller interface {
	ScrollToBottom(ctx context.Context) (height int64, err error)
}

type pageScroller struct {
	tabCtx context.Context
}

func (p pageScroller) ScrollToBottom(ctx context.Context) (int64, error) {
	var height int64
	err := chromedp.Run(p.tabCtx,
		chromedp.Evaluate(scrollJS, &height),
		chromedp.Sleep(scrollSettle),
		chromedp.Evaluate(`document.documentElement.scrollHeight`, &height),
	)
	return height, err
}

// scrollUntilQuiet scrolls until the page height stops growing for a run of
// consecutive attempts (the patience threshold) or the hard scroll cap is
// hit. It returns the number of scrolls performed and whether the listing
// went quiet on its own; hitting the cap means the listing may have been
// truncated and is reported as incomplete.
func scrollUntilQuiet(ctx context.Context, s scroller, opts *ListOptions, progress func(string)) (scrolls int, complete bool, err error) {
	maxPatience := opts.Patience
	if maxPatience <= 0 {
		maxPatience = DefaultPatience
	}
	maxScrolls := opts.MaxScrolls
	if maxScrolls <= 0 {
		maxScrolls = DefaultMaxScrolls
	}

	previousHeight := int64(-1)
	patience := 0

	for patience < maxPatience {
		if err := ctx.Err(); err != nil {
			return scrolls, false, err
		}
		if scrolls >= maxScrolls {
			progress(fmt.Sprintf("Reached %d scroll attempts, stopping", maxScrolls))
			return scrolls, false, nil
		}

		height, err := s.ScrollToBottom(ctx)
		if err != nil {
			return scrolls, false, fmt.Errorf("scroll %d: %w", scrolls, err)
		}

		if height == previousHeight {
			patience++
			progress(fmt.Sprintf("Scroll %d: no new content (patience %d/%d)", scrolls, patience, maxPatience))
		} else {
			patience = 0
			previousHeight = height
			progress(fmt.Sprintf("Scroll %d: loaded new videos (height %d)", scrolls, height))
		}
		scrolls++
	}

	return scrolls, true, nil
}

// dedupeLinks converts raw links to VideoRefs, dropping duplicates and
// entries without a title, preserving first-seen order.
func dedupeLinks(links []videoLink) []VideoRef {
	seen := make(map[string]bool, len(links))
	var videos []VideoRef
	for _, link := range links {
		if link.Title == "" || seen[link.URL] {
			continue
		}
		id, err := ExtractVideoID(link.URL)
		if err != nil {
			continue
		}
		seen[link.URL] = true
		videos = append(videos, VideoRef{
			ID:    id,
			URL:   WatchURL(id),
			Title: strings.TrimSpace(link.Title),
		})
	}
	return videos
}
