package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"ytscrape"
	"ytscrape/config"
	"ytscrape/pipeline"
	"ytscrape/storage"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "run":
		cmdRun(args)
	case "merge":
		cmdMerge(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		// Bare URL invocation runs an extraction
		cmdRun(os.Args[1:])
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `ytscrape - YouTube transcript extractor

Usage:
  ytscrape run [flags] <youtube-url>   Extract transcripts from a video, channel, or playlist
  ytscrape merge [flags]               Merge previously extracted transcripts into one file
  ytscrape help                        Show this help message

Examples:
  ytscrape https://www.youtube.com/watch?v=dQw4w9WgXcQ          # Single video
  ytscrape run -n 10 https://www.youtube.com/@SomeChannel       # Channel, 10 workers
  ytscrape run -dir ./out -lister innertube <playlist-url>      # Browserless listing
  ytscrape merge -dir ./out -o combined.txt                     # Merge clean transcripts

For help on a specific command: ytscrape <command> -h
`)
}

func cmdRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	concurrency := fs.Int("n", 0, "Concurrent downloads (default from config)")
	outputDir := fs.String("dir", "", "Output directory (default from config)")
	patience := fs.Int("patience", 0, "Consecutive no-growth scrolls before listing stops")
	maxVideos := fs.Int("max", 0, "Maximum videos to process (0 = all)")
	lister := fs.String("lister", "", "Listing strategy: browser or innertube")
	language := fs.String("lang", "", "Caption language for the timedtext fallback")
	skipDone := fs.Bool("skip-done", false, "Skip videos already extracted successfully")
	headful := fs.Bool("headful", false, "Run Chrome with a visible window")
	verbose := fs.Bool("v", false, "Verbose logging from the scraper internals")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ytscrape run [flags] <youtube-url>\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	argv := fs.Args()
	if len(argv) == 0 {
		fmt.Fprintf(os.Stderr, "Error: missing youtube-url\n")
		fs.Usage()
		os.Exit(1)
	}
	url := argv[0]

	if !*verbose {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.Load()
	if err != nil {
		fatal("load config: %v", err)
	}
	if *concurrency > 0 {
		cfg.Concurrency = *concurrency
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
		cfg.HistoryPath = filepath.Join(*outputDir, "history.json")
	}
	if *patience > 0 {
		cfg.Patience = *patience
	}
	if *maxVideos > 0 {
		cfg.MaxVideos = *maxVideos
	}
	if *lister != "" {
		cfg.Lister = *lister
	}
	if *language != "" {
		cfg.Language = *language
	}
	if *skipDone {
		cfg.SkipDone = true
	}
	if *headful {
		cfg.Headless = false
	}
	if err := cfg.Validate(); err != nil {
		fatal("invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	summary, err := ytscrape.Run(ctx, url, cfg, renderEvent)
	if err != nil {
		fatal("%v", err)
	}

	fmt.Println()
	fmt.Printf("Successful: %d/%d (%.0fs)\n", summary.Succeeded, summary.Attempted, time.Since(start).Seconds())
	fmt.Printf("Output directory: %s\n", cfg.OutputDir)
	if !summary.ListingComplete {
		fmt.Println("Warning: listing stopped at the scroll cap; the channel may have more videos")
	}
	if summary.Failed > 0 {
		os.Exit(2)
	}
}

func cmdMerge(args []string) {
	fs := flag.NewFlagSet("merge", flag.ExitOnError)
	dir := fs.String("dir", "", "Directory holding extracted transcripts (default from config)")
	out := fs.String("o", "merged_transcripts.txt", "Merged output file name")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ytscrape merge [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	cfg, err := config.Load()
	if err != nil {
		fatal("load config: %v", err)
	}
	if *dir != "" {
		cfg.OutputDir = *dir
	}

	dest := *out
	if !filepath.IsAbs(dest) {
		dest = filepath.Join(cfg.OutputDir, dest)
	}

	n, err := storage.MergeAll(cfg.OutputDir, dest)
	if err != nil {
		fatal("merge: %v", err)
	}
	if n == 0 {
		fmt.Println("No transcript files found to merge.")
		return
	}
	fmt.Printf("Merged %d transcripts to %s\n", n, dest)
}

// renderEvent prints progress events as log lines. Per-video events are
// indented under the batch-level ones, with a running counter when known.
func renderEvent(e pipeline.Event) {
	switch {
	case e.Total > 0:
		fmt.Printf("  [%d/%d] %s\n", e.Done, e.Total, e.Message)
	case e.VideoID != "":
		fmt.Printf("  %s\n", e.Message)
	default:
		fmt.Println(e.Message)
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
