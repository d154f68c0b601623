package rod

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultRecycleAfter is the number of tabs one Chrome process serves
// before it is replaced. Chrome's resident memory keeps growing across
// tabs even when each is closed, and catalog runs render hundreds of
// detail pages in one process.
const DefaultRecycleAfter = 75

// BrowserManager owns the headless Chrome process behind a Fetcher and
// opens tabs configured with the fetcher's identity. The process is
// replaced once it has served enough tabs and none is still open.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	served   int // tabs opened on the current process
	open     int // tabs not yet released
	closed   bool

	recycleAfter int
	userAgent    string
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithRecycleAfter sets how many tabs a Chrome process serves before it
// is replaced. Defaults to DefaultRecycleAfter.
func WithRecycleAfter(n int) ManagerOption {
	return func(bm *BrowserManager) {
		bm.recycleAfter = n
	}
}

// WithUserAgent overrides the User-Agent of every tab.
func WithUserAgent(ua string) ManagerOption {
	return func(bm *BrowserManager) {
		bm.userAgent = ua
	}
}

// NewBrowserManager launches headless Chrome. Close must be called to
// stop the process.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{recycleAfter: DefaultRecycleAfter}
	for _, opt := range opts {
		opt(bm)
	}

	browser, l, err := launch()
	if err != nil {
		return nil, err
	}
	bm.browser, bm.launcher = browser, l
	return bm, nil
}

// Page opens a blank tab bound to ctx. The caller must call release when
// done with the tab; release closes it and lets the process be recycled.
func (bm *BrowserManager) Page(ctx context.Context) (*rod.Page, func(), error) {
	browser, err := bm.acquire()
	if err != nil {
		return nil, nil, err
	}

	done := func() {
		bm.mu.Lock()
		bm.open--
		bm.mu.Unlock()
	}

	tab, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		done()
		return nil, nil, fmt.Errorf("opening tab: %w", err)
	}
	release := func() {
		_ = tab.Close()
		done()
	}

	if bm.userAgent != "" {
		if err := tab.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: bm.userAgent}); err != nil {
			release()
			return nil, nil, fmt.Errorf("setting user agent: %w", err)
		}
	}
	return tab.Context(ctx), release, nil
}

// acquire returns the browser to open the next tab on, replacing a
// worn-out process first when no tab is using it.
func (bm *BrowserManager) acquire() (*rod.Browser, error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil, fmt.Errorf("browser is closed")
	}
	if bm.served >= bm.recycleAfter && bm.open == 0 {
		// A failed relaunch keeps the old process serving.
		if browser, l, err := launch(); err == nil {
			bm.shutdown()
			bm.browser, bm.launcher = browser, l
			bm.served = 0
		}
	}
	bm.served++
	bm.open++
	return bm.browser, nil
}

// Close stops Chrome. Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil
	}
	bm.closed = true
	return bm.shutdown()
}

// LauncherPID returns the process ID of the Chrome launcher, or zero
// once the manager is closed.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.launcher == nil {
		return 0
	}
	return bm.launcher.PID()
}

// shutdown stops the current process. Must be called with mu held.
func (bm *BrowserManager) shutdown() error {
	var err error
	if bm.browser != nil {
		err = bm.browser.Close()
		bm.browser = nil
	}
	if bm.launcher != nil {
		bm.launcher.Kill()
		bm.launcher = nil
	}
	return err
}

// launch starts headless Chrome with flags that keep background tabs
// from being throttled, and connects to it.
func launch() (*rod.Browser, *launcher.Launcher, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	controlURL, err := l.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return browser, l, nil
}
