package traverse

import (
	"context"
	"sort"
	"sync"

	"github.com/beevik/etree"
	"github.com/rs/zerolog/log"

	"github.com/cwillem/submap/internal/fetcher"
	"github.com/cwillem/submap/internal/sitemap"
)

// Fetcher retrieves and parses one sitemap document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*etree.Element, error)
}

// Event is a best-effort progress snapshot emitted after each processed URL.
type Event struct {
	URL       string // sitemap just processed
	Processed int    // sitemaps processed so far, failures included
	Domains   int    // unique domains collected so far
}

// Stats summarizes a finished traversal. Failed is broken down by cause so an
// empty result can be told apart from an unreachable site.
type Stats struct {
	Processed     int
	Failed        int
	NetworkErrors int
	DecodeErrors  int
	ParseErrors   int
}

// Result is the outcome of a traversal run.
type Result struct {
	Domains []string // lexicographically sorted, deduplicated
	Stats   Stats
}

// Engine walks a sitemap hierarchy breadth-first, collecting the domains of
// page URLs according to its Policy. Each URL is fetched at most once per run,
// including under cyclic sitemap references.
type Engine struct {
	Fetcher    Fetcher
	Policy     sitemap.Policy
	Workers    int         // concurrent fetches; <1 means 1
	OnProgress func(Event) // optional
}

// walk is the shared traversal state. The mutex guards everything; the
// condition variable lets idle workers wait for new queue items, and inflight
// keeps them from quitting while another worker may still enqueue more.
type walk struct {
	mu       sync.Mutex
	cond     *sync.Cond
	queue    []string
	visited  map[string]struct{}
	domains  map[string]struct{}
	inflight int
	stats    Stats
}

// Run drains the queue seeded with the given sitemap URLs and returns the
// sorted domain set. The run terminates when the queue is empty and no fetch
// is in flight, or when ctx is canceled (partial results are discarded).
func (e *Engine) Run(ctx context.Context, seeds []string) (*Result, error) {
	workers := e.Workers
	if workers < 1 {
		workers = 1
	}

	w := &walk{
		queue:   append([]string(nil), seeds...),
		visited: make(map[string]struct{}),
		domains: make(map[string]struct{}),
	}
	w.cond = sync.NewCond(&w.mu)

	// Wake waiting workers when the context is canceled.
	stop := context.AfterFunc(ctx, func() {
		w.mu.Lock()
		w.cond.Broadcast()
		w.mu.Unlock()
	})
	defer stop()

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				current, ok := w.next(ctx)
				if !ok {
					return
				}
				e.process(ctx, w, current)
				w.release()
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	domains := make([]string, 0, len(w.domains))
	for d := range w.domains {
		domains = append(domains, d)
	}
	sort.Strings(domains)

	return &Result{Domains: domains, Stats: w.stats}, nil
}

// next dequeues the next unvisited URL, marking it visited in the same
// critical section so no URL is ever fetched twice. It blocks while the queue
// is empty but fetches are still in flight, and returns false once the
// traversal is complete or canceled.
func (w *walk) next(ctx context.Context) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for {
		if ctx.Err() != nil {
			return "", false
		}
		for len(w.queue) > 0 {
			current := w.queue[0]
			w.queue = w.queue[1:]
			if _, seen := w.visited[current]; seen {
				continue
			}
			w.visited[current] = struct{}{}
			w.inflight++
			return current, true
		}
		if w.inflight == 0 {
			w.cond.Broadcast()
			return "", false
		}
		w.cond.Wait()
	}
}

// release marks one in-flight fetch finished and wakes waiting workers.
func (w *walk) release() {
	w.mu.Lock()
	w.inflight--
	w.cond.Broadcast()
	w.mu.Unlock()
}

// process fetches one sitemap document and applies its entries to the shared
// state: <sitemap> entries are always followed, <url> entries go through the
// policy, everything else is ignored. Fetch failures of any kind are counted
// and skipped.
func (e *Engine) process(ctx context.Context, w *walk, current string) {
	log.Debug().Str("sitemap", current).Msg("scanning sitemap")

	root, err := e.Fetcher.Fetch(ctx, current)

	var followups, hosts []string
	if err == nil {
		for _, entry := range sitemap.Entries(root) {
			loc, ok := sitemap.FindLoc(entry)
			if !ok {
				continue
			}
			switch sitemap.LocalName(entry) {
			case sitemap.TagSitemap:
				followups = append(followups, loc)
			case sitemap.TagURL:
				if e.Policy.FollowURL(loc) {
					followups = append(followups, loc)
				} else if e.Policy.KeepURL(loc) {
					if host := sitemap.Netloc(loc); host != "" {
						hosts = append(hosts, host)
					}
				}
			}
		}
	}

	w.mu.Lock()
	w.stats.Processed++
	if err != nil {
		w.stats.Failed++
		switch kind, _ := fetcher.KindOf(err); kind {
		case fetcher.KindDecode:
			w.stats.DecodeErrors++
		case fetcher.KindParse:
			w.stats.ParseErrors++
		default:
			w.stats.NetworkErrors++
		}
	}
	for _, u := range followups {
		// Pre-filter visited targets so cyclic references don't grow the
		// queue without bound; the dequeue check still applies regardless.
		if _, seen := w.visited[u]; !seen {
			w.queue = append(w.queue, u)
		}
	}
	for _, h := range hosts {
		w.domains[h] = struct{}{}
	}
	ev := Event{URL: current, Processed: w.stats.Processed, Domains: len(w.domains)}
	w.cond.Broadcast()
	w.mu.Unlock()

	if err != nil {
		log.Debug().Err(err).Str("sitemap", current).Msg("skipping sitemap")
	}
	if e.OnProgress != nil {
		e.OnProgress(ev)
	}
}
