package enhance

import (
	"context"
	"net"
	"net/url"
	"path"
	"strings"

	"github.com/fwojciec/blogboost"
	"golang.org/x/net/publicsuffix"
)

var _ blogboost.ReferenceFinder = (*Discoverer)(nil)

// DefaultBlocklist lists social, video and forum domains that never make
// acceptable references. Subdomains are matched through their registrable
// domain.
var DefaultBlocklist = []string{
	"youtube.com", "youtu.be", "vimeo.com", "dailymotion.com", "twitch.tv", "tiktok.com",
	"facebook.com", "instagram.com", "twitter.com", "x.com", "linkedin.com", "pinterest.com",
	"reddit.com", "quora.com", "news.ycombinator.com", "stackoverflow.com",
	"soundcloud.com", "spotify.com",
}

var binaryExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".svg": true,
	".bmp": true, ".ico": true, ".tif": true, ".tiff": true, ".avif": true,
	".mp3": true, ".wav": true, ".ogg": true, ".flac": true, ".aac": true, ".m4a": true,
	".mp4": true, ".avi": true, ".mkv": true, ".mov": true, ".wmv": true, ".flv": true, ".webm": true,
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true, ".ppt": true, ".pptx": true,
	".zip": true, ".rar": true, ".tar": true, ".gz": true, ".7z": true, ".exe": true, ".dmg": true,
}

// MinSearchResults is the smallest number of results requested per search.
const MinSearchResults = 10

// Discoverer finds reference candidates with a single web search.
type Discoverer struct {
	Searcher blogboost.Searcher

	// Blocklist holds excluded domains; nil means DefaultBlocklist.
	Blocklist []string
}

// Discover searches for title and returns up to limit results, one per host,
// none hosted on sourceURL's host, the blocklist, or pointing at a binary
// resource. Search errors are returned unchanged.
func (d *Discoverer) Discover(ctx context.Context, title, sourceURL string, limit int) ([]blogboost.SearchResult, error) {
	if limit <= 0 {
		return nil, nil
	}

	results, err := d.Searcher.Search(ctx, title, max(MinSearchResults, limit*5))
	if err != nil {
		return nil, err
	}

	blocked := d.blocklist()
	sourceHost := ""
	if u, err := url.Parse(sourceURL); err == nil {
		sourceHost = NormalizeHost(u.Host)
	}

	seen := make(map[string]bool)
	accepted := make([]blogboost.SearchResult, 0, limit)
	for _, r := range results {
		u, err := url.Parse(strings.TrimSpace(r.Link))
		if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			continue
		}
		host := NormalizeHost(u.Host)
		if host == "" || isBlocked(host, blocked) {
			continue
		}
		if host == sourceHost || seen[host] {
			continue
		}
		if binaryExtensions[strings.ToLower(path.Ext(u.Path))] {
			continue
		}

		seen[host] = true
		accepted = append(accepted, blogboost.SearchResult{Title: r.Title, Link: u.String()})
		if len(accepted) == limit {
			break
		}
	}
	return accepted, nil
}

func (d *Discoverer) blocklist() map[string]bool {
	list := d.Blocklist
	if list == nil {
		list = DefaultBlocklist
	}
	m := make(map[string]bool, len(list))
	for _, h := range list {
		m[NormalizeHost(h)] = true
	}
	return m
}

func isBlocked(host string, blocked map[string]bool) bool {
	if blocked[host] {
		return true
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	return err == nil && blocked[domain]
}

// NormalizeHost lowercases host and strips any port and leading "www.".
func NormalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.TrimSuffix(host, ".")
	return strings.TrimPrefix(host, "www.")
}
