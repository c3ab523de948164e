package markdown

import (
	"strings"
)

// Transformer rewrites image references in a document body into asset
// references of the form <alias>/<collection>/<slug>/<filename>.
type Transformer struct {
	alias      string
	collection string
}

// NewTransformer builds a Transformer for the given asset alias and collection.
func NewTransformer(alias, collection string) *Transformer {
	return &Transformer{
		alias:      strings.TrimRight(alias, "/"),
		collection: strings.Trim(collection, "/"),
	}
}

// AssetPath returns the emitted reference for filename within slug.
func (t *Transformer) AssetPath(slug, filename string) string {
	return t.AssetPrefix(slug) + filename
}

// AssetPrefix returns the reference prefix shared by all assets of slug.
func (t *Transformer) AssetPrefix(slug string) string {
	return t.alias + "/" + t.collection + "/" + slug + "/"
}

// Transform applies the rewrite passes in order. downloads maps external URLs
// to the filenames they were stored under; URLs missing from it were not
// downloaded.
func (t *Transformer) Transform(body, slug string, downloads map[string]string) string {
	out := t.RewriteLocalEmbeds(body, slug)
	out = t.RewriteExternalEmbeds(out, slug, downloads)
	out = t.RewriteExternalImages(out, slug, downloads)
	out = EscapeBraces(out)
	return strings.TrimSpace(out)
}

// RewriteLocalEmbeds turns ![[photo.jpg]] into ![photo.jpg](<asset path>).
func (t *Transformer) RewriteLocalEmbeds(body, slug string) string {
	return localEmbedRe.ReplaceAllStringFunc(body, func(match string) string {
		name := localEmbedRe.FindStringSubmatch(match)[1]
		return "![" + name + "](" + t.AssetPath(slug, name) + ")"
	})
}

// RewriteExternalEmbeds turns ![[https://...]] into an asset reference when
// the URL was downloaded, or a plain remote image otherwise.
func (t *Transformer) RewriteExternalEmbeds(body, slug string, downloads map[string]string) string {
	return externalEmbedRe.ReplaceAllStringFunc(body, func(match string) string {
		rawURL := externalEmbedRe.FindStringSubmatch(match)[1]
		if name, ok := downloads[rawURL]; ok {
			return "![" + AltFromFilename(name) + "](" + t.AssetPath(slug, name) + ")"
		}
		return "![" + AltFromURL(rawURL) + "](" + encodeDestination(rawURL) + ")"
	})
}

// RewriteExternalImages points ![alt](https://...) at the downloaded asset,
// keeping the alt text. Images that were not downloaded keep their URL, with
// braces percent-encoded.
func (t *Transformer) RewriteExternalImages(body, slug string, downloads map[string]string) string {
	return externalImageRe.ReplaceAllStringFunc(body, func(match string) string {
		m := externalImageRe.FindStringSubmatch(match)
		name, ok := downloads[m[2]]
		if !ok {
			at := strings.Index(match, "]("+m[2])
			if at < 0 || !strings.ContainsAny(m[2], "{}") {
				return match
			}
			at += len("](")
			return match[:at] + encodeDestination(m[2]) + match[at+len(m[2]):]
		}
		return "![" + m[1] + "](" + t.AssetPath(slug, name) + ")"
	})
}

// FirstAsset returns the filename of the first asset reference of slug in
// body, or "" when there is none.
func (t *Transformer) FirstAsset(body, slug string) string {
	if assets := t.Assets(body, slug); len(assets) > 0 {
		return assets[0]
	}
	return ""
}

// Assets lists the filenames of every asset reference of slug in body, in
// order of appearance.
func (t *Transformer) Assets(body, slug string) []string {
	prefix := "](" + t.AssetPrefix(slug)
	var out []string
	for {
		idx := strings.Index(body, prefix)
		if idx < 0 {
			return out
		}
		body = body[idx+len(prefix):]
		end := strings.IndexByte(body, ')')
		if end < 0 {
			return out
		}
		out = append(out, body[:end])
		body = body[end:]
	}
}

// EscapeBraces backslash-escapes { and } in prose so MDX does not read them
// as expressions. Fenced blocks (``` toggles) and inline code spans are left
// untouched.
func EscapeBraces(body string) string {
	lines := strings.Split(body, "\n")
	inFence := false
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimLeft(line, " \t"), "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		lines[i] = escapeLine(line)
	}
	return strings.Join(lines, "\n")
}

func escapeLine(line string) string {
	if !strings.ContainsAny(line, "{}") {
		return line
	}
	segments := strings.Split(line, "`")
	for i := 0; i < len(segments); i += 2 {
		segments[i] = braceEscaper.Replace(segments[i])
	}
	return strings.Join(segments, "`")
}

var braceEscaper = strings.NewReplacer("{", `\{`, "}", `\}`)

var destinationEncoder = strings.NewReplacer("{", "%7B", "}", "%7D")

// encodeDestination percent-encodes braces in a link destination so the
// prose escape pass leaves the URL intact.
func encodeDestination(rawURL string) string {
	return destinationEncoder.Replace(rawURL)
}
