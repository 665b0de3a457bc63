package ytscrape

import (
	"context"

	"ytscrape/browser"
	"ytscrape/config"
	"ytscrape/internal/httpx"
	"ytscrape/pipeline"
	"ytscrape/storage"
	"ytscrape/youtube"
)

// Run processes one user-submitted URL end to end: classify, enumerate
// videos, fetch and format transcripts with bounded concurrency, write the
// per-video files, and persist the batch summary. Progress events stream to
// the given callback; per-video failures are recorded in the summary and
// never abort the batch.
func Run(ctx context.Context, rawURL string, cfg *config.Config, progress pipeline.ProgressFunc) (*pipeline.BatchSummary, error) {
	kind, err := youtube.Classify(rawURL)
	if err != nil {
		return nil, err
	}
	progress.Logf(pipeline.StageListing, "Detected %s URL", kind)

	summary := pipeline.NewBatchSummary(rawURL, kind)

	writer, err := storage.NewWriter(cfg.OutputDir)
	if err != nil {
		return nil, err
	}

	var history *storage.History
	if cfg.HistoryPath != "" {
		history, err = storage.OpenHistory(cfg.HistoryPath)
		if err != nil {
			return nil, err
		}
		defer history.Close()
	}

	// One Chrome instance serves the whole batch; workers get their own
	// tabs. The Innertube lister avoids the browser for listing, but
	// transcript extraction always needs it.
	b, err := browser.New(browser.Config{
		Headless:           cfg.Headless,
		NavTimeout:         cfg.NavTimeout,
		PageLoadsPerSecond: 1.0,
	})
	if err != nil {
		return nil, err
	}
	defer b.Close()
	progress.Logf(pipeline.StageListing, "Browser launched")

	refs, listing, err := enumerate(ctx, b, rawURL, kind, cfg, progress)
	if err != nil {
		return nil, err
	}
	if listing != nil {
		summary.ListingComplete = listing.Complete
		summary.Scrolls = listing.Scrolls
		if !listing.Complete {
			progress.Logf(pipeline.StageListing, "Listing may be incomplete: stopped at the scroll cap")
		}
	} else {
		summary.ListingComplete = true
	}

	if history != nil && cfg.SkipDone {
		kept := refs[:0]
		for _, ref := range refs {
			if history.Done(ref.ID) {
				progress.Logf(pipeline.StageListing, "Skipping already extracted: %s", ref.ID)
				continue
			}
			kept = append(kept, ref)
		}
		refs = kept
	}

	if len(refs) == 0 {
		progress.Logf(pipeline.StageDone, "No videos to process")
		summary.Finish(nil)
		return summary, nil
	}
	progress.Logf(pipeline.StageListing, "Found %d videos, processing %d at a time", len(refs), cfg.Concurrency)

	fetcher := buildFetcher(b, cfg)

	pool := &pipeline.Pool{
		Limit:    cfg.Concurrency,
		Fetcher:  fetcher,
		Saver:    writer,
		Progress: progress,
	}
	results := pool.Run(ctx, refs)
	summary.Finish(results)

	if history != nil {
		for _, r := range results {
			history.Record(storage.VideoRecord{
				VideoID:     r.ID,
				URL:         r.URL,
				Title:       r.Title,
				Status:      string(r.Status),
				File:        r.File,
				BatchID:     summary.BatchID,
				ExtractedAt: summary.FinishedAt,
			})
		}
	}

	summaryFile, err := writer.WriteSummary(summary)
	if err != nil {
		// The transcripts themselves were written; a lost summary is
		// reported but does not fail the batch.
		progress.Logf(pipeline.StageDone, "Failed to write summary: %v", err)
	} else {
		progress.Logf(pipeline.StageDone, "Summary written to %s", summaryFile)
	}

	progress.Logf(pipeline.StageDone, "Extraction complete: %d/%d successful", summary.Succeeded, summary.Attempted)
	return summary, nil
}

// enumerate turns the input URL into the batch's video refs. Single videos
// skip listing entirely; channels and playlists go through the configured
// lister. The returned listing is nil for single videos.
func enumerate(ctx context.Context, b *browser.Browser, rawURL string, kind youtube.Kind, cfg *config.Config, progress pipeline.ProgressFunc) ([]youtube.VideoRef, *youtube.Listing, error) {
	if kind == youtube.KindVideo {
		ref, err := youtube.NewVideoRef(rawURL)
		if err != nil {
			return nil, nil, err
		}
		return []youtube.VideoRef{ref}, nil, nil
	}

	var lister youtube.Lister
	if cfg.Lister == config.ListerInnertube {
		lister = youtube.NewInnertubeLister(httpx.New(nil))
	} else {
		lister = youtube.NewBrowserLister(b)
	}

	listURL := youtube.NormalizeListingURL(rawURL, kind)
	if listURL != rawURL {
		progress.Logf(pipeline.StageListing, "Channel URL detected, using videos tab: %s", listURL)
	}

	listing, err := lister.List(ctx, listURL, &youtube.ListOptions{
		MaxVideos:  cfg.MaxVideos,
		Patience:   cfg.Patience,
		MaxScrolls: cfg.MaxScrolls,
		OnProgress: func(msg string) { progress.Logf(pipeline.StageListing, "%s", msg) },
	})
	if err != nil {
		return nil, nil, err
	}
	return listing.Videos, listing, nil
}

// buildFetcher assembles the transcript fetcher chain: the browser panel
// scraper, with the timedtext API as fallback when enabled.
func buildFetcher(b *browser.Browser, cfg *config.Config) youtube.TranscriptFetcher {
	bf := youtube.NewBrowserFetcher(b)
	if !cfg.TimedtextFallback {
		return bf
	}
	tt := youtube.NewTimedtextFetcher(httpx.New(nil))
	tt.Language = cfg.Language
	return youtube.ChainFetcher{bf, tt}
}
