package http

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/fwojciec/blogboost"
	"github.com/temoto/robotstxt"
)

// RobotsAgent is the user agent matched against robots.txt groups.
const RobotsAgent = "blogboost"

// maxRobotsSize caps how much of a robots.txt file is read.
const maxRobotsSize = 512 << 10

// Ensure RobotsFetcher implements blogboost.Fetcher at compile time.
var _ blogboost.Fetcher = (*RobotsFetcher)(nil)

// RobotsFetcher wraps a Fetcher and refuses pages that the site's robots.txt
// disallows for RobotsAgent. robots.txt is fetched once per origin. An
// unreachable robots.txt allows everything.
type RobotsFetcher struct {
	next   blogboost.Fetcher
	client *http.Client

	mu     sync.Mutex
	robots map[string]*robotstxt.RobotsData
}

// NewRobotsFetcher returns a RobotsFetcher delegating to next. A nil client
// uses a client with DefaultFetchTimeout.
func NewRobotsFetcher(next blogboost.Fetcher, client *http.Client) *RobotsFetcher {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	return &RobotsFetcher{
		next:   next,
		client: client,
		robots: make(map[string]*robotstxt.RobotsData),
	}
}

// Fetch returns EINVALID when robots.txt disallows rawURL.
func (f *RobotsFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", blogboost.Errorf(blogboost.EINVALID, "invalid URL %q", rawURL)
	}

	if data := f.robotsFor(ctx, u); data != nil {
		path := u.EscapedPath()
		if path == "" {
			path = "/"
		}
		if u.RawQuery != "" {
			path += "?" + u.RawQuery
		}
		if !data.TestAgent(path, RobotsAgent) {
			return "", blogboost.Errorf(blogboost.EINVALID, "disallowed by robots.txt: %s", rawURL)
		}
	}
	return f.next.Fetch(ctx, rawURL)
}

// Close delegates to the wrapped fetcher.
func (f *RobotsFetcher) Close() error {
	return f.next.Close()
}

func (f *RobotsFetcher) robotsFor(ctx context.Context, u *url.URL) *robotstxt.RobotsData {
	origin := u.Scheme + "://" + u.Host

	f.mu.Lock()
	data, ok := f.robots[origin]
	f.mu.Unlock()
	if ok {
		return data
	}

	data = f.fetchRobots(ctx, origin)
	f.mu.Lock()
	f.robots[origin] = data
	f.mu.Unlock()
	return data
}

func (f *RobotsFetcher) fetchRobots(ctx context.Context, origin string) *robotstxt.RobotsData {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", blogboost.DefaultUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsSize))
	if err != nil {
		return nil
	}
	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil
	}
	return data
}
