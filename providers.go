package chatmarkup

import (
	"fmt"
	"io"
	"os"
)

// --- Bell Provider ---

// BellProvider handles bell events triggered by BEL (0x07) bytes in a message.
// The bell never changes the rendered output.
type BellProvider interface {
	// Ring is called once per bell byte.
	Ring()
}

// NoopBell ignores all bell events.
type NoopBell struct{}

func (NoopBell) Ring() {}

// --- URL Grabber ---

// URLGrabber receives every hyperlink found while transcoding.
type URLGrabber interface {
	// Add is called once per hyperlink span, in message order.
	Add(url string)
}

// NoopURLGrabber discards all hyperlinks.
type NoopURLGrabber struct{}

func (NoopURLGrabber) Add(url string) {}

// MemoryURLGrabber keeps a de-duplicated list of hyperlinks in first-seen order.
//
// Example:
//
//	grabber := chatmarkup.NewMemoryURLGrabber(500)
//	tr := chatmarkup.NewTranscoder(chatmarkup.WithURLGrabber(grabber))
type MemoryURLGrabber struct {
	urls    []string
	seen    map[string]struct{}
	maxURLs int
}

// NewMemoryURLGrabber creates a grabber holding at most maxURLs entries.
// When full, the oldest entry is dropped. maxURLs <= 0 means unlimited.
func NewMemoryURLGrabber(maxURLs int) *MemoryURLGrabber {
	return &MemoryURLGrabber{
		seen:    make(map[string]struct{}),
		maxURLs: maxURLs,
	}
}

// Add records url unless it is already present.
func (g *MemoryURLGrabber) Add(url string) {
	if url == "" {
		return
	}
	if _, ok := g.seen[url]; ok {
		return
	}
	g.seen[url] = struct{}{}
	g.urls = append(g.urls, url)

	if g.maxURLs > 0 && len(g.urls) > g.maxURLs {
		excess := len(g.urls) - g.maxURLs
		for _, old := range g.urls[:excess] {
			delete(g.seen, old)
		}
		g.urls = g.urls[excess:]
	}
}

// URLs returns a copy of the recorded hyperlinks.
func (g *MemoryURLGrabber) URLs() []string {
	out := make([]string, len(g.urls))
	copy(out, g.urls)
	return out
}

// Len returns the number of recorded hyperlinks.
func (g *MemoryURLGrabber) Len() int {
	return len(g.urls)
}

// Clear removes all recorded hyperlinks.
func (g *MemoryURLGrabber) Clear() {
	g.urls = nil
	g.seen = make(map[string]struct{})
}

// WriteTo writes one hyperlink per line.
func (g *MemoryURLGrabber) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, u := range g.urls {
		n, err := io.WriteString(w, u+"\n")
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Save writes the hyperlinks to path, one per line, replacing the file.
func (g *MemoryURLGrabber) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create url list: %w", err)
	}
	if _, err := g.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write url list: %w", err)
	}
	return f.Close()
}

// Ensure implementations satisfy their interfaces
var _ BellProvider = (*NoopBell)(nil)
var _ URLGrabber = (*NoopURLGrabber)(nil)
var _ URLGrabber = (*MemoryURLGrabber)(nil)
