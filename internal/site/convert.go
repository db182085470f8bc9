package site

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/markdown"
)

// ConvertFile renders one Markdown file through the page template and writes
// the resulting HTML page. The input is rendered as-is, without document
// discovery or asset rewriting. When outputPath is empty the page is written
// next to the input with an .html extension. Returns the path written.
//
// Only the page template is needed here, so a missing home template does not
// block single-file conversion.
func ConvertFile(cfg *config.Config, inputPath, outputPath string) (string, error) {
	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", inputPath, err)
	}

	body, err := markdown.ToHTML(raw)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", inputPath, err)
	}

	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	title := stem
	siteTitle := cfg.Site.Title
	if siteTitle == "" {
		siteTitle = DeriveSiteTitle(stem)
	}

	tpl := &Templates{
		SiteTitle:  siteTitle,
		Navigation: buildNavigation(cfg.Site),
		Copyright:  copyrightLine(cfg.Site, siteTitle, time.Now().Year()),
	}
	if err := loadPageInto(tpl, cfg); err != nil {
		return "", err
	}

	if outputPath == "" {
		outputPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".html"
	}
	if err := os.WriteFile(outputPath, []byte(tpl.renderPage(title, body)), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", outputPath, err)
	}
	return outputPath, nil
}
