// Package ytscrape extracts transcripts from YouTube videos, channels, and
// playlists by driving a headless browser, and writes the results to local
// text files.
//
// # Overview
//
// Given one URL, ytscrape classifies it as a single video, a channel, or a
// playlist, enumerates the videos behind it, and fans out a bounded number
// of browser tabs to scrape the transcript panel of each watch page. Each
// transcript is written twice: a clean prose rendering re-split into
// paragraphs, and a raw rendering with one timestamped line per segment.
// A JSON summary records every video's outcome.
//
// # Quick Start
//
// Process a URL end to end:
//
//	cfg, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//	summary, err := ytscrape.Run(ctx, url, cfg, func(e pipeline.Event) {
//		fmt.Println(e.Message)
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("%d/%d successful\n", summary.Succeeded, summary.Attempted)
//
// # Configuration
//
// Settings load from three sources, in increasing priority:
//
//  1. Default values
//  2. Config file (ytscrape.json or ~/.config/ytscrape/ytscrape.json)
//  3. YTSCRAPE_* environment variables
//
// The two settings that matter most are YTSCRAPE_CONCURRENCY (how many
// videos are fetched at once) and YTSCRAPE_OUTPUT_DIR (where files go).
//
// # Error Handling
//
// Per-video failures never abort a batch; they are recorded in the summary
// with a human-readable reason. Operations that do fail return errors
// supporting the standard patterns:
//
//	if errors.Is(err, ytscrape.ErrNoTranscript) {
//		fmt.Println("video has no transcript")
//	}
//
//	var listerErr *ytscrape.ListerError
//	if errors.As(err, &listerErr) {
//		fmt.Printf("listing %s failed: %v\n", listerErr.URL, listerErr.Err)
//	}
//
// # Sub-packages
//
// For more control, use the sub-packages directly:
//
//   - youtube: URL classification, video listing, transcript fetching
//   - format: raw and clean transcript rendering
//   - pipeline: the bounded worker pool and batch summary
//   - storage: output files, merging, and extraction history
//   - browser: the shared headless Chrome instance
//   - config: configuration management
//
// ytscrape requires a Chrome or Chromium binary on the host; the chromedp
// allocator finds it automatically.
package ytscrape
