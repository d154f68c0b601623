package crawl

import "fmt"

// ProgressEvent reports progress during a crawl operation.
type ProgressEvent struct {
	Type      ProgressType
	Completed int

	// Total is the number of items when known in advance, else zero.
	Total int

	URL   string
	Title string
	Error error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressExisting
	ProgressFailed
	ProgressPageFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress. Calls are
// serialized.
type ProgressFunc func(event ProgressEvent)

// maxURLWidth bounds URLs in outcome lines.
const maxURLWidth = 80

// FormatEvent renders a per-item outcome line for operators. Events
// without an item outcome render as "".
func FormatEvent(ev ProgressEvent) string {
	counter := fmt.Sprintf("[%d]", ev.Completed)
	if ev.Total > 0 {
		counter = fmt.Sprintf("[%d/%d]", ev.Completed, ev.Total)
	}
	u := TruncateURL(ev.URL, maxURLWidth)

	switch ev.Type {
	case ProgressCompleted:
		if ev.Title != "" {
			return fmt.Sprintf("%s created %s (%s)", counter, ev.Title, u)
		}
		return fmt.Sprintf("%s created %s", counter, u)
	case ProgressExisting:
		return fmt.Sprintf("%s exists %s", counter, u)
	case ProgressFailed:
		return fmt.Sprintf("%s failed %s: %v", counter, u, ev.Error)
	case ProgressPageFailed:
		return fmt.Sprintf("catalog page skipped: %v", ev.Error)
	default:
		return ""
	}
}

// FormatResult renders the summary line of a finished crawl.
func FormatResult(r *Result) string {
	s := fmt.Sprintf("%d created, %d existing, %d failed", r.Created, r.Existing, r.Failed)
	if r.PagesFailed > 0 {
		s += fmt.Sprintf(", %d catalog pages skipped", r.PagesFailed)
	}
	return s
}

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}
