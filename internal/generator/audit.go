package generator

import (
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// assetAuditor walks an emitted body and reports asset references whose file
// is missing from the asset tree.
type assetAuditor struct {
	md       goldmark.Markdown
	assetDir string
	exists   func(string) bool
}

func newAssetAuditor(assetDir string, exists func(string) bool) *assetAuditor {
	return &assetAuditor{
		md:       goldmark.New(),
		assetDir: assetDir,
		exists:   exists,
	}
}

// Missing returns the image destinations under prefix that do not resolve to
// a file. prefix is the alias path shared by every asset of the document.
func (a *assetAuditor) Missing(body, slug, prefix string) []string {
	doc := a.md.Parser().Parse(text.NewReader([]byte(body)))

	var missing []string
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		image, ok := node.(*ast.Image)
		if !ok {
			return ast.WalkContinue, nil
		}
		destination := string(image.Destination)
		if !strings.HasPrefix(destination, prefix) {
			return ast.WalkContinue, nil
		}
		name := strings.TrimPrefix(destination, prefix)
		if !a.exists(filepath.Join(a.assetDir, slug, filepath.FromSlash(name))) {
			missing = append(missing, destination)
		}
		return ast.WalkContinue, nil
	})
	return missing
}
