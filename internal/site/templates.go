package site

import (
	_ "embed"
	"fmt"
	"html"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	blderrors "git.home.luguber.info/inful/blogbuilder/internal/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

//go:embed assets/page.html
var embeddedPageTemplate string

// Template source labels recorded in the build report.
const (
	templateSourceFile     = "file"
	templateSourceEmbedded = "embedded"
)

// Templates holds the loaded placeholder templates plus the site-wide values
// substituted into every page.
type Templates struct {
	Page       string
	PageSource string // file | embedded
	Home       string
	SiteTitle  string
	Navigation string
	Copyright  string
}

// loadTemplates reads the configured template files and resolves the site
// identity values. The home template is required. A missing page template
// falls back to the embedded default unless strict template handling is on.
func loadTemplates(cfg *config.Config, siteTitle string) (*Templates, error) {
	t := &Templates{
		SiteTitle:  siteTitle,
		Navigation: buildNavigation(cfg.Site),
		Copyright:  copyrightLine(cfg.Site, siteTitle, time.Now().Year()),
	}

	home, err := os.ReadFile(cfg.Templates.Home)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, blderrors.TemplateMissing("home", cfg.Templates.Home)
		}
		return nil, fmt.Errorf("read home template: %w", err)
	}
	t.Home = string(home)

	if err := loadPageInto(t, cfg); err != nil {
		return nil, err
	}
	return t, nil
}

// loadPageInto reads the page template into t, falling back to the embedded
// default when the file is missing and strict handling is off.
func loadPageInto(t *Templates, cfg *config.Config) error {
	page, err := os.ReadFile(cfg.Templates.Page)
	switch {
	case err == nil:
		t.Page = string(page)
		t.PageSource = templateSourceFile
	case os.IsNotExist(err):
		if cfg.Templates.Strict {
			return blderrors.TemplateMissing("page", cfg.Templates.Page)
		}
		slog.Warn("Page template missing, using embedded fallback", logfields.Path(cfg.Templates.Page))
		t.Page = embeddedPageTemplate
		t.PageSource = templateSourceEmbedded
	default:
		return fmt.Errorf("read page template: %w", err)
	}
	return nil
}

// renderPage fills the page template placeholders for one document.
func (t *Templates) renderPage(title, content string) string {
	r := strings.NewReplacer(
		"{{TITLE}}", title,
		"{{SITE_TITLE}}", t.SiteTitle,
		"{{NAVIGATION}}", t.Navigation,
		"{{CONTENT}}", content,
		"{{COPYRIGHT}}", t.Copyright,
	)
	return r.Replace(t.Page)
}

// renderHome fills the home template placeholders.
func (t *Templates) renderHome(articles string) string {
	r := strings.NewReplacer(
		"{{SITE_TITLE}}", t.SiteTitle,
		"{{ARTICLES_CONTENT}}", articles,
		"{{COPYRIGHT}}", t.Copyright,
	)
	return r.Replace(t.Home)
}

// buildNavigation renders the links injected into {{NAVIGATION}}. The
// back-to-home link always comes first.
func buildNavigation(site config.SiteConfig) string {
	links := []string{`<a href="/index.html">← Back to Home</a>`}
	for _, nl := range site.Navigation {
		links = append(links, fmt.Sprintf(`<a href="%s">%s</a>`, nl.URL, html.EscapeString(nl.Name)))
	}
	return strings.Join(links, "\n        ")
}

// copyrightLine returns the configured copyright or the default line.
func copyrightLine(site config.SiteConfig, siteTitle string, year int) string {
	if site.Copyright != "" {
		return site.Copyright
	}
	return fmt.Sprintf("© %d %s", year, siteTitle)
}

// DeriveSiteTitle turns a repository or directory name into a presentable
// site title, e.g. "my-blog" into "My Blog". Existing capitalization is kept.
func DeriveSiteTitle(name string) string {
	cleaned := strings.NewReplacer("-", " ", "_", " ").Replace(name)
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if cleaned == "" {
		return "Blog"
	}
	return cases.Title(language.English, cases.NoLower).String(cleaned)
}
