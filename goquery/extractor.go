// Package goquery implements a selector-based fallback blogboost.Extractor
// for pages where readability-style extraction yields nothing.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/blogboost"
	"golang.org/x/net/html"
)

// Ensure Extractor implements blogboost.Extractor at compile time.
var _ blogboost.Extractor = (*Extractor)(nil)

// CandidateSelectors are evaluated in order; the selector whose text is
// longest wins. Earlier selectors win ties.
var CandidateSelectors = []string{
	"article",
	"main",
	"[role=main]",
	".theme-post-content",
	".entry-content",
	".post-content",
	".article-content",
	"#content",
	"[id*=content]",
	"[class*=content]",
	"[class*=article]",
	"[class*=post]",
}

// noiseSelector matches nodes removed before any text is read.
const noiseSelector = "script, style, noscript, iframe"

// Extractor picks the longest text among CandidateSelectors and falls back
// to the whole body.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the best-guess main content.
func (e *Extractor) Extract(rawHTML string, _ string) (*blogboost.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, blogboost.Errorf(blogboost.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, blogboost.Errorf(blogboost.EINVALID, "failed to parse HTML: %v", err)
	}
	doc.Find(noiseSelector).Remove()

	var best string
	for _, selector := range CandidateSelectors {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			if text := SelectionText(sel); len(text) > len(best) {
				best = text
			}
		})
	}
	if best == "" {
		best = SelectionText(doc.Find("body"))
	}

	return &blogboost.ExtractResult{
		Title: pageTitle(doc),
		Text:  best,
	}, nil
}

// pageTitle prefers og:title, then <title>, then the first <h1>.
func pageTitle(doc *goquery.Document) string {
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(og) != "" {
		return blogboost.NormalizeWhitespace(og)
	}
	if title := blogboost.NormalizeWhitespace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	return SelectionText(doc.Find("h1").First())
}

// SelectionText returns the whitespace-normalized text of a selection.
// Element boundaries are treated as whitespace so adjacent blocks don't
// run together.
func SelectionText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		writeText(&b, n)
	}
	return blogboost.NormalizeWhitespace(b.String())
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.CommentNode:
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
	if n.Type == html.ElementNode {
		b.WriteByte(' ')
	}
}
