package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"
)

// DefaultSettle is the pause after a navigation that lets the page scripts
// render the odds tables.
const DefaultSettle = 100 * time.Millisecond

type Options struct {
	Headless  bool
	UserAgent string
	Settle    time.Duration
	// Timeout bounds one navigation, zero means no bound.
	Timeout time.Duration
}

// Session is one browser instance reused for every page of a run.
type Session struct {
	ctx     context.Context
	cancel  context.CancelFunc
	settle  time.Duration
	timeout time.Duration
}

func NewSession(parent context.Context, opts Options) (*Session, error) {
	driverOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("window-size", "1920,1080"),
	)
	if opts.UserAgent != "" {
		driverOpts = append(driverOpts, chromedp.UserAgent(opts.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, driverOpts...)

	ctx, ctxCancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, v ...interface{}) {
		slog.Debug("chromedp", "message", fmt.Sprintf(format, v...))
	}))

	cancel := func() {
		ctxCancel()
		allocCancel()
	}

	// An empty run starts the browser.
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	settle := opts.Settle
	if settle <= 0 {
		settle = DefaultSettle
	}

	return &Session{ctx: ctx, cancel: cancel, settle: settle, timeout: opts.Timeout}, nil
}

// Fetch navigates to url and returns the rendered document.
func (s *Session) Fetch(ctx context.Context, url string) (string, error) {
	return s.run(ctx, chromedp.Navigate(url))
}

// Refresh reloads the current page and returns the rendered document.
func (s *Session) Refresh(ctx context.Context) (string, error) {
	return s.run(ctx, chromedp.Reload())
}

func (s *Session) run(ctx context.Context, nav chromedp.Action) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	runCtx, cancel := runContext(s.ctx, ctx, s.timeout)
	defer cancel()

	var domNode string

	err := chromedp.Run(
		runCtx,
		nav,
		chromedp.Sleep(s.settle),
		chromedp.WaitReady(`body`, chromedp.ByQuery),
		chromedp.OuterHTML(`html`, &domNode, chromedp.ByQuery),
	)
	if err != nil {
		return "", err
	}

	return domNode, nil
}

// runContext derives the context of one navigation from the browser
// context. It ends when the caller's ctx is done or the timeout elapses;
// cancelling it aborts the actions without closing the browser.
func runContext(browser, caller context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	var (
		runCtx context.Context
		cancel context.CancelFunc
	)

	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(browser, timeout)
	} else {
		runCtx, cancel = context.WithCancel(browser)
	}

	stop := context.AfterFunc(caller, cancel)

	return runCtx, func() {
		stop()
		cancel()
	}
}

// Close shuts the browser down.
func (s *Session) Close() {
	s.cancel()
}
