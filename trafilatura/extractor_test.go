package trafilatura_test

import (
	"testing"

	"github.com/fwojciec/medfeed"
	"github.com/fwojciec/medfeed/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure MetadataExtractor implements medfeed.MetadataExtractor at compile time.
var _ medfeed.MetadataExtractor = (*trafilatura.MetadataExtractor)(nil)

func TestMetadataExtractor_ExtractMetadata(t *testing.T) {
	t.Parallel()

	t.Run("extracts title from meta tags", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head>
<title>冠脉CTA检查须知 - 医学科普</title>
<meta property="og:title" content="冠脉CTA检查须知">
</head>
<body>
<nav>导航</nav>
<main>
<h2>检查前准备</h2>
<p>检查前需要空腹四小时，并告知医生过敏史。这是正文内容，用于测试提取。</p>
<p>检查过程中请保持平静呼吸，按照技师的指令屏气。</p>
</main>
<footer>页脚</footer>
</body>
</html>`

		meta, err := trafilatura.NewMetadataExtractor().ExtractMetadata([]byte(html), "https://example.org/a.html")

		require.NoError(t, err)
		assert.NotEmpty(t, meta.Title)
	})

	t.Run("extracts publish date from meta tags", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head>
<title>Article</title>
<meta property="article:published_time" content="2023-05-01T08:00:00+08:00">
</head>
<body>
<article>
<h1>Article</h1>
<p>This is the main content of a medical article that is long enough to be extracted by heuristics.</p>
</article>
</body>
</html>`

		meta, err := trafilatura.NewMetadataExtractor().ExtractMetadata([]byte(html), "https://example.org/a.html")

		require.NoError(t, err)
		assert.Equal(t, 2023, meta.PublishedAt.Year())
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		_, err := trafilatura.NewMetadataExtractor().ExtractMetadata([]byte("  "), "https://example.org")

		assert.Equal(t, medfeed.EINVALID, medfeed.ErrorCode(err))
	})
}
