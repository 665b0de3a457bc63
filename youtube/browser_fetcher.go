package youtube

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"ytscrape/browser"
)

// JS snippets run inside the watch page.
const (
	titleJS = `(() => {
		const el = document.querySelector('h1.ytd-watch-metadata yt-formatted-string')
			|| document.querySelector('h1.title');
		return el ? el.textContent.trim() : '';
	})()`

	// expandJS clicks the "...more" expander under the video so the
	// "Show transcript" button becomes reachable.
	expandJS = `(() => {
		const el = document.querySelector('tp-yt-paper-button#expand')
			|| document.querySelector('#expand');
		if (el) { el.click(); return true; }
		for (const b of document.querySelectorAll('button')) {
			const label = (b.getAttribute('aria-label') || b.textContent || '').trim();
			if (/more$/i.test(label)) { b.click(); return true; }
		}
		return false;
	})()`

	showTranscriptJS = `(() => {
		for (const b of document.querySelectorAll('button')) {
			const label = (b.getAttribute('aria-label') || b.textContent || '').trim();
			if (/^show transcript$/i.test(label)) { b.click(); return true; }
		}
		return false;
	})()`

	panelOpenJS = `
		document.querySelectorAll('ytd-transcript-segment-renderer').length > 0`

	segmentsJS = `(() => {
		const segments = [];
		for (const seg of document.querySelectorAll('ytd-transcript-segment-renderer')) {
			const ts = seg.querySelector('.segment-timestamp, [class*="timestamp"]');
			const text = seg.querySelector('.segment-text, [class*="segment-text"]');
			if (text && text.textContent.trim()) {
				segments.push({
					timestamp: ts ? ts.textContent.trim() : '',
					text: text.textContent.trim()
				});
			}
		}
		return segments;
	})()`
)

// BrowserFetcher extracts transcripts by opening the watch page's transcript
// panel in a headless browser and reading the segment nodes from the DOM.
type BrowserFetcher struct {
	browser *browser.Browser

	// PanelTimeout bounds waiting for the transcript panel to populate
	// after clicking "Show transcript". Default 10s.
	PanelTimeout time.Duration
}

// NewBrowserFetcher creates a fetcher backed by the given browser.
func NewBrowserFetcher(b *browser.Browser) *BrowserFetcher {
	return &BrowserFetcher{browser: b, PanelTimeout: 10 * time.Second}
}

// Fetch opens the watch page, opens the transcript panel, and reads the
// timestamped segments. The returned transcript carries the title read from
// the page when the ref had none.
func (f *BrowserFetcher) Fetch(ctx context.Context, ref VideoRef) (*Transcript, error) {
	tabCtx, closeTab, err := f.browser.NewTab(ctx)
	if err != nil {
		return nil, &TranscriptError{VideoID: ref.ID, Source: "browser", Err: err}
	}
	defer closeTab()

	if err := f.browser.Navigate(tabCtx, ref.URL); err != nil {
		return nil, &TranscriptError{VideoID: ref.ID, Source: "browser", Err: err}
	}

	// The transcript button only exists once the player has rendered.
	waitCtx, cancel := context.WithTimeout(tabCtx, 20*time.Second)
	err = chromedp.Run(waitCtx, chromedp.WaitVisible("video", chromedp.ByQuery))
	cancel()
	if err != nil {
		return nil, &TranscriptError{VideoID: ref.ID, Source: "browser",
			Err: fmt.Errorf("player did not render: %w", err)}
	}

	if ref.Title == "" {
		var title string
		if err := chromedp.Run(tabCtx, chromedp.Evaluate(titleJS, &title)); err == nil && title != "" {
			ref.Title = title
		}
	}

	if err := f.openPanel(tabCtx); err != nil {
		return nil, &TranscriptError{VideoID: ref.ID, Source: "browser", Err: err}
	}

	var raw []struct {
		Timestamp string `json:"timestamp"`
		Text      string `json:"text"`
	}
	if err := chromedp.Run(tabCtx,
		chromedp.Sleep(time.Second), // segments stream in after the panel opens
		chromedp.Evaluate(segmentsJS, &raw),
	); err != nil {
		return nil, &TranscriptError{VideoID: ref.ID, Source: "browser",
			Err: fmt.Errorf("read segments: %w", err)}
	}
	if len(raw) == 0 {
		return nil, &TranscriptError{VideoID: ref.ID, Source: "browser", Err: ErrNoTranscript}
	}

	segments := make([]Segment, 0, len(raw))
	for _, r := range raw {
		if r.Text == "" {
			continue
		}
		segments = append(segments, Segment{
			Start:     parseTimestamp(r.Timestamp),
			Timestamp: r.Timestamp,
			Text:      r.Text,
		})
	}

	return &Transcript{Video: ref, Segments: segments, Source: "browser"}, nil
}

// openPanel clicks through "...more" → "Show transcript" and waits for
// segment nodes to appear. A panel that is already open counts as success.
func (f *BrowserFetcher) openPanel(tabCtx context.Context) error {
	timeout := f.PanelTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	// The panel may already be open from a previous in-tab navigation.
	var open bool
	if err := chromedp.Run(tabCtx, chromedp.Evaluate(panelOpenJS, &open)); err == nil && open {
		return nil
	}

	var clicked bool
	if err := chromedp.Run(tabCtx,
		chromedp.Evaluate(expandJS, &clicked),
		chromedp.Sleep(500*time.Millisecond),
	); err != nil {
		return fmt.Errorf("expand description: %w", err)
	}

	if err := chromedp.Run(tabCtx, chromedp.Evaluate(showTranscriptJS, &clicked)); err != nil {
		return fmt.Errorf("click show transcript: %w", err)
	}
	if !clicked {
		return fmt.Errorf("open transcript panel: %w", ErrNoTranscript)
	}

	// Poll for segment nodes; WaitVisible does not fire for nodes inside
	// the engagement panel while it is animating in.
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if err := tabCtx.Err(); err != nil {
			return err
		}
		if err := chromedp.Run(tabCtx, chromedp.Evaluate(panelOpenJS, &open)); err != nil {
			return err
		}
		if open {
			return nil
		}
		time.Sleep(250 * time.Millisecond)
	}
	return fmt.Errorf("transcript panel never populated: %w", ErrNoTranscript)
}

// parseTimestamp converts a display timestamp ("1:02" or "1:02:03") to a
// duration. Malformed input yields zero; the display form is kept either way.
func parseTimestamp(ts string) time.Duration {
	parts := strings.Split(strings.TrimSpace(ts), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0
	}
	var total time.Duration
	for _, p := range parts {
		n := 0
		for _, c := range p {
			if c < '0' || c > '9' {
				return 0
			}
			n = n*10 + int(c-'0')
		}
		total = total*60 + time.Duration(n)*time.Second
	}
	return total
}
