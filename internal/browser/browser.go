// Package browser is the page-fetch tool: point headless Chrome at a URL,
// bring back the title and the visible text. Failures never escape as
// errors; every call returns a Result the caller can show or forward.
package browser

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
)

const (
	// Cap on extracted text, to bound downstream token consumption.
	maxTextLen = 50000

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

type Result struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Text  string `json:"text"`
	Err   string `json:"error,omitempty"`
}

// Failed reports whether the fetch produced anything usable.
func (r Result) Failed() bool { return r.Err != "" }

type Fetcher struct {
	headless   bool
	navTimeout time.Duration
}

func New(headless bool, navTimeout time.Duration) *Fetcher {
	if navTimeout <= 0 {
		navTimeout = 30 * time.Second
	}
	return &Fetcher{headless: headless, navTimeout: navTimeout}
}

// Fetch navigates to url in a fresh browser instance and extracts the
// page title and body text. Each call gets its own allocator and tab, so
// no browsing state survives between calls and a retry needs no cleanup.
func (f *Fetcher) Fetch(ctx context.Context, url string) Result {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.UserAgent(userAgent),
		chromedp.Flag("disable-setuid-sandbox", true),
	)
	if !f.headless {
		// defaults run headless; flip the flag back off
		opts = append(opts, chromedp.Flag("headless", false))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()
	runCtx, cancelRun := context.WithTimeout(tabCtx, f.navTimeout)
	defer cancelRun()

	var title, text string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.Title(&title),
		chromedp.Evaluate(`document.body.innerText`, &text),
	)
	if err != nil {
		return Result{URL: url, Title: "Error", Err: err.Error()}
	}
	return Result{URL: url, Title: title, Text: Truncate(text, maxTextLen)}
}

// Truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := s[:n]
	for len(cut) > 0 && cut[len(cut)-1]>>6 == 0b10 {
		cut = cut[:len(cut)-1]
	}
	return cut
}
