package markdown

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"path"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/goliatone/go-vaultsync/pkg/interfaces"
)

// ImageExtensions are the file extensions recognised in local embeds.
var ImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg"}

const maxDownloadStem = 50

var (
	localEmbedRe    = regexp.MustCompile(`!\[\[([\w .-]+\.(?i:jpe?g|png|gif|webp|svg))\]\]`)
	externalEmbedRe = regexp.MustCompile(`!\[\[(https?://[^\]\s]+)\]\]`)
	externalImageRe = regexp.MustCompile(`!\[([^\]]*)\]\((https?://[^)\s]+)(?:\s+"[^"]*")?\)`)

	unsafeStemRe = regexp.MustCompile(`[^A-Za-z0-9_-]`)
	hashSuffixRe = regexp.MustCompile(`-[0-9a-f]{8}$`)
	separatorsRe = regexp.MustCompile(`[-_]+`)
)

// ResolveImages enumerates the images referenced by body. Local embeds keep
// their multiplicity; external URLs are deduplicated on first occurrence
// across both external syntaxes.
func ResolveImages(body string) interfaces.ImageRefs {
	refs := interfaces.ImageRefs{}
	for _, m := range localEmbedRe.FindAllStringSubmatch(body, -1) {
		refs.Local = append(refs.Local, m[1])
	}

	type hit struct {
		pos int
		url string
	}
	var hits []hit
	for _, m := range externalEmbedRe.FindAllStringSubmatchIndex(body, -1) {
		hits = append(hits, hit{pos: m[0], url: body[m[2]:m[3]]})
	}
	for _, m := range externalImageRe.FindAllStringSubmatchIndex(body, -1) {
		hits = append(hits, hit{pos: m[0], url: body[m[4]:m[5]]})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	seen := map[string]struct{}{}
	for _, h := range hits {
		if _, ok := seen[h.url]; ok {
			continue
		}
		seen[h.url] = struct{}{}
		refs.External = append(refs.External, h.url)
	}
	return refs
}

// IsImageFile reports whether name carries one of ImageExtensions.
func IsImageFile(name string) bool {
	return slices.Contains(ImageExtensions, strings.ToLower(path.Ext(name)))
}

// IsRemote reports whether ref is an http(s) URL.
func IsRemote(ref string) bool {
	lower := strings.ToLower(strings.TrimSpace(ref))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// DownloadName derives the local filename for a remote image: a sanitised,
// length-capped stem from the URL path, an 8 character hash of the full URL,
// and an image extension (".jpg" when the path has none).
func DownloadName(rawURL string) string {
	base := ""
	if u, err := url.Parse(rawURL); err == nil {
		base = path.Base(u.Path)
	}
	if base == "." || base == "/" {
		base = ""
	}

	ext := strings.ToLower(path.Ext(base))
	stem := strings.TrimSuffix(base, path.Ext(base))
	if !slices.Contains(ImageExtensions, ext) {
		ext = ".jpg"
	}

	stem = unsafeStemRe.ReplaceAllString(stem, "_")
	if len(stem) > maxDownloadStem {
		stem = stem[:maxDownloadStem]
	}
	if stem == "" {
		stem = "image"
	}

	sum := md5.Sum([]byte(rawURL))
	return stem + "-" + hex.EncodeToString(sum[:])[:8] + ext
}

// AltFromFilename turns a stored image filename into readable alt text.
func AltFromFilename(name string) string {
	stem := strings.TrimSuffix(name, path.Ext(name))
	stem = hashSuffixRe.ReplaceAllString(stem, "")
	return strings.TrimSpace(separatorsRe.ReplaceAllString(stem, " "))
}

// AltFromURL uses the last path segment of rawURL as alt text.
func AltFromURL(rawURL string) string {
	segment := ""
	if u, err := url.Parse(rawURL); err == nil {
		segment = path.Base(u.Path)
	}
	if segment == "." || segment == "/" || segment == "" {
		return "image"
	}
	return segment
}
