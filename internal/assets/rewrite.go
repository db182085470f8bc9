package assets

import (
	"path"
	"regexp"

	"golang.org/x/text/unicode/norm"
)

// imagesPrefix is the site-relative location every rewritten reference
// points at, matching the output layout's shared image directory.
const imagesPrefix = "/images/"

var imageRefPattern = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)

// RewriteRefs rewrites every image embed in a Markdown body to the shared
// image directory. The reference's basename is looked up in the rename map;
// an unmapped basename is substituted unchanged under the same prefix, so an
// unknown asset degrades to a predictable path instead of failing the
// document. Alt text is copied verbatim and no other text is touched.
func RewriteRefs(body string, renames RenameMap) string {
	return imageRefPattern.ReplaceAllStringFunc(body, func(match string) string {
		sub := imageRefPattern.FindStringSubmatch(match)
		alt, ref := sub[1], sub[2]

		base := norm.NFC.String(path.Base(ref))
		if assigned, ok := renames[base]; ok {
			base = assigned
		}
		return "![" + alt + "](" + imagesPrefix + base + ")"
	})
}
