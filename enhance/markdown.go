package enhance

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/fwojciec/blogboost"
	"github.com/gosimple/slug"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ReferencesHeading is the section every generated article ends with.
const ReferencesHeading = "## References"

// EnhancedTitlePrefix is prepended to the original title.
const EnhancedTitlePrefix = "AI Enhanced: "

// MaxTitleChars is the longest title the article store accepts.
const MaxTitleChars = 255

// maxSlugBase leaves room for the suffix within the store's slug limit.
const maxSlugBase = 200

var urlPattern = regexp.MustCompile(`https?://[^\s<>()\[\]"'` + "`" + `]+`)

// section is the byte range of a level-2 "References" section.
type section struct {
	start, end int
}

// EnsureReferences guarantees markdown contains exactly one references
// section listing exactly the URLs of refs. A single well-formed section is
// kept as written; otherwise every references section is removed and a
// canonical one is appended. Headings inside code blocks are ignored.
func EnsureReferences(markdown string, refs []blogboost.Reference) string {
	source := []byte(markdown)
	sections := findReferenceSections(source)

	if len(sections) == 1 {
		s := sections[0]
		if sameURLs(urlPattern.FindAllString(string(source[s.start:s.end]), -1), refs) {
			return markdown
		}
	}

	var b bytes.Buffer
	prev := 0
	for _, s := range sections {
		b.Write(source[prev:s.start])
		prev = s.end
	}
	b.Write(source[prev:])

	body := strings.TrimRight(b.String(), " \t\r\n")
	if body != "" {
		body += "\n\n"
	}
	return body + RenderReferences(refs)
}

// RenderReferences renders the canonical references section.
func RenderReferences(refs []blogboost.Reference) string {
	var b strings.Builder
	b.WriteString(ReferencesHeading)
	b.WriteString("\n\n")
	for _, ref := range refs {
		title := blogboost.NormalizeWhitespace(ref.Title)
		if title == "" {
			fmt.Fprintf(&b, "- <%s>\n", ref.URL)
			continue
		}
		title = strings.NewReplacer("[", `\[`, "]", `\]`).Replace(title)
		fmt.Fprintf(&b, "- [%s](%s)\n", title, ref.URL)
	}
	return b.String()
}

// findReferenceSections returns the top-level "## References" sections of
// source in document order. A section runs until the next heading of level
// two or higher, or the end of the document.
func findReferenceSections(source []byte) []section {
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	type heading struct {
		start int
		refs  bool
	}
	var headings []heading
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok || h.Level > 2 || h.Lines().Len() == 0 {
			continue
		}
		start := lineStart(source, h.Lines().At(0).Start)
		title := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(headingText(h, source)), ":"))
		headings = append(headings, heading{
			start: start,
			refs:  h.Level == 2 && strings.EqualFold(title, "references"),
		})
	}

	var sections []section
	for i, h := range headings {
		if !h.refs {
			continue
		}
		end := len(source)
		if i+1 < len(headings) {
			end = headings[i+1].start
		}
		sections = append(sections, section{start: h.start, end: end})
	}
	return sections
}

func headingText(h *ast.Heading, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(h, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := n.(*ast.Text); ok {
			b.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

func lineStart(source []byte, pos int) int {
	if pos > len(source) {
		pos = len(source)
	}
	return bytes.LastIndexByte(source[:pos], '\n') + 1
}

func sameURLs(found []string, refs []blogboost.Reference) bool {
	want := make(map[string]bool, len(refs))
	for _, ref := range refs {
		want[normalizeURL(ref.URL)] = true
	}
	got := make(map[string]bool, len(found))
	for _, u := range found {
		got[normalizeURL(u)] = true
	}
	if len(got) != len(want) {
		return false
	}
	for u := range want {
		if !got[u] {
			return false
		}
	}
	return true
}

func normalizeURL(u string) string {
	u = strings.TrimRight(u, ".,;:!?")
	return strings.TrimSuffix(u, "/")
}

// EnhancedTitle returns the title of the generated article for an original
// titled title, bounded to MaxTitleChars runes.
func EnhancedTitle(title string) string {
	return blogboost.Truncate(EnhancedTitlePrefix+blogboost.NormalizeWhitespace(title), MaxTitleChars)
}

// GenerateSlug builds the slug for a generated article: the slugified title
// followed by the provider tag and the unix timestamp.
func GenerateSlug(title, provider string, unix int64) string {
	base := slug.Make(title)
	if len(base) > maxSlugBase {
		base = strings.TrimRight(base[:maxSlugBase], "-")
	}
	if base == "" {
		base = "article"
	}
	tag := slug.Make(provider)
	if tag == "" {
		return fmt.Sprintf("%s-%d", base, unix)
	}
	return fmt.Sprintf("%s-%s-%d", base, tag, unix)
}
