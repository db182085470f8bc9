package blog

import (
	"path"
	"sort"
	"time"
)

// State is the publication state of a post.
type State string

const (
	// StateDraft is the default state for posts without an explicit
	// "published" status token.
	StateDraft State = "draft"

	// StatePublished marks posts whose metadata carries the exact
	// status value "published".
	StatePublished State = "published"
)

// StateFromToken maps a raw status value to a publication state. Only the
// exact token "published" publishes a post; every other value, including
// different casing, stays a draft.
func StateFromToken(token string) State {
	if token == string(StatePublished) {
		return StatePublished
	}
	return StateDraft
}

// Post is the record built for one discovered source document.
//
// A post is created once per file and not mutated afterwards; the output
// location is fixed at creation from the publication state.
type Post struct {
	Title  string     // Display title, "Untitled" when absent
	Date   *time.Time // Publication date, nil when absent or unparsable
	State  State      // published or draft
	Author string     // Byline author, empty when absent
	Tags   []string   // Free-form labels from the header

	SourcePath string // Path of the source file as discovered
	RelPath    string // Path relative to the content directory
	Slug       string // File name without extension
	OutputRel  string // Output path relative to the site root, slash-separated

	Body string // Markdown body with the metadata header removed
}

// Published reports whether the post belongs to the published subset.
func (p *Post) Published() bool {
	return p.State == StatePublished
}

// DisplayDate renders the publication date for page and teaser output.
func (p *Post) DisplayDate() string {
	if p.Date == nil {
		return "No date"
	}
	return p.Date.Format("January 02, 2006")
}

// outputRelFor derives the site-relative output path for a post. The first
// segment is determined solely by the publication state; nested source
// directories flatten to the file's own name.
func outputRelFor(state State, slug string) string {
	return path.Join(string(state), slug+".html")
}

// Corpus holds every post discovered in one run.
type Corpus struct {
	Posts []*Post
}

// Published returns the published subset in discovery order.
func (c *Corpus) Published() []*Post {
	var out []*Post
	for _, p := range c.Posts {
		if p.Published() {
			out = append(out, p)
		}
	}
	return out
}

// PublishedOrdering returns the published subset sorted by publication date,
// newest first. Posts without a date sort last; ties keep discovery order.
func (c *Corpus) PublishedOrdering() []*Post {
	ordered := c.Published()
	sort.SliceStable(ordered, func(i, j int) bool {
		di, dj := ordered[i].Date, ordered[j].Date
		switch {
		case di == nil && dj == nil:
			return false
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return di.After(*dj)
		}
	})
	return ordered
}
