// Package fs provides file-based export of articles.
package fs

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/fwojciec/medfeed"
)

// Ensure ExportStore implements medfeed.ExportStore at compile time.
var _ medfeed.ExportStore = (*ExportStore)(nil)

// pageExtensions are dropped from the last path segment before ".md" is
// appended.
var pageExtensions = []string{".html", ".htm", ".shtml", ".jsp"}

// ExportStore implements medfeed.ExportStore with atomic update semantics.
// Articles are saved to a temporary directory, then moved atomically on Commit.
type ExportStore struct {
	baseDir string
	name    string
}

// NewExportStore creates a new ExportStore.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewExportStore(baseDir, name string) *ExportStore {
	return &ExportStore{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *ExportStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *ExportStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes one article as a markdown file under the temporary directory.
func (s *ExportStore) Save(ctx context.Context, article *medfeed.ExportedArticle) error {
	relPath, err := URLToPath(article.SourceURL)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(s.tempDir(), filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	return os.WriteFile(fullPath, []byte(FormatArticle(article)), 0644)
}

// Commit replaces the output directory with the saved articles.
func (s *ExportStore) Commit() error {
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort discards the saved articles.
func (s *ExportStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}

// URLToPath converts an article URL to a relative, slash-separated file
// path rooted at the host.
// Example: https://example.com/Html/News/Articles/42.html → example.com/Html/News/Articles/42.md
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", medfeed.Errorf(medfeed.EINVALID, "invalid URL: %v", err)
	}
	if u.Host == "" {
		return "", medfeed.Errorf(medfeed.EINVALID, "URL has no host: %s", rawURL)
	}

	for _, seg := range strings.Split(u.Path, "/") {
		if seg == ".." {
			return "", medfeed.Errorf(medfeed.EINVALID, "path traversal in URL: %s", rawURL)
		}
	}

	p := strings.TrimPrefix(path.Clean("/"+u.Path), "/")
	switch {
	case p == "":
		p = "index"
	case strings.HasSuffix(u.Path, "/"):
		p += "/index"
	default:
		for _, ext := range pageExtensions {
			if strings.HasSuffix(strings.ToLower(p), ext) {
				p = p[:len(p)-len(ext)]
				break
			}
		}
	}

	return strings.ToLower(u.Host) + "/" + p + ".md", nil
}

// FormatArticle formats an exported article with YAML frontmatter.
func FormatArticle(a *medfeed.ExportedArticle) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("id: ")
	b.WriteString(a.ID)
	b.WriteString("\nsource: ")
	b.WriteString(a.SourceURL)
	b.WriteString("\ntitle: ")
	b.WriteString(a.Title)
	if !a.CreatedAt.IsZero() {
		b.WriteString("\npublished: ")
		b.WriteString(a.CreatedAt.Format("2006-01-02"))
	}
	b.WriteString("\n---\n\n")
	b.WriteString(a.Content)
	return b.String()
}
