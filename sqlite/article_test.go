package sqlite_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/medfeed"
	"github.com/fwojciec/medfeed/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newDraft builds a draft whose content is: text, image 1, text, image 2,
// and a paragraph citing 图2.
func newDraft(sourceURL string) *medfeed.ArticleDraft {
	r := medfeed.Reconstruct([]medfeed.ContentNode{
		medfeed.TextNode{Text: "第一段"},
		medfeed.ImageNode{Src: "https://example.org/1.png"},
		medfeed.TextNode{Text: "第二段"},
		medfeed.ImageNode{Src: "https://example.org/2.png"},
		medfeed.TextNode{Text: "如图2所示"},
	}, nil, nil)
	return &medfeed.ArticleDraft{
		SourceURL:  sourceURL,
		Title:      "测试文章",
		CreatedAt:  time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
		Paragraphs: r.Paragraphs,
		Images:     r.Images,
		Links:      r.Links,
	}
}

func TestArticleService_IngestArticle(t *testing.T) {
	t.Parallel()

	t.Run("stores article with paragraphs images and links", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewArticleService(db)
		ctx := context.Background()

		res, err := svc.IngestArticle(ctx, newDraft("https://example.org/a.html"))

		require.NoError(t, err)
		assert.Equal(t, medfeed.IngestCreated, res.Status)
		require.NotNil(t, res.Article)
		assert.NotEmpty(t, res.Article.ID)
		assert.NotEmpty(t, res.Article.ContentHash)
		assert.False(t, res.Article.FetchedAt.IsZero())

		got, err := svc.FindArticleByID(ctx, res.Article.ID)
		require.NoError(t, err)
		assert.Equal(t, "测试文章", got.Title)
		assert.True(t, got.CreatedAt.Equal(time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)))

		require.Len(t, got.Images, 2)
		assert.Equal(t, "img_1", got.Images[0].Identifier)
		assert.Equal(t, 1, got.Images[0].Position)
		assert.Equal(t, "img_2", got.Images[1].Identifier)

		require.Len(t, got.Paragraphs, 5)
		for i, p := range got.Paragraphs {
			assert.Equal(t, i+1, p.Order)
			assert.Equal(t, got.ID, p.ArticleID)
		}
		assert.Equal(t, "第一段", got.Paragraphs[0].Content)
		assert.Zero(t, got.Paragraphs[0].ImageRef)
		assert.Empty(t, got.Paragraphs[0].ImageID)

		assert.True(t, got.Paragraphs[1].IsPlaceholder())
		assert.Equal(t, 1, got.Paragraphs[1].ImageRef)
		assert.Equal(t, got.Images[0].ID, got.Paragraphs[1].ImageID)

		assert.True(t, got.Paragraphs[3].IsPlaceholder())
		assert.Equal(t, got.Images[1].ID, got.Paragraphs[3].ImageID)

		assert.Equal(t, "如图2所示", got.Paragraphs[4].Content)
		assert.Equal(t, 2, got.Paragraphs[4].ImageRef)
		assert.Equal(t, got.Images[1].ID, got.Paragraphs[4].ImageID)
	})

	t.Run("is idempotent on source URL", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewArticleService(db)
		ctx := context.Background()

		first, err := svc.IngestArticle(ctx, newDraft("https://example.org/a.html"))
		require.NoError(t, err)
		require.Equal(t, medfeed.IngestCreated, first.Status)

		second, err := svc.IngestArticle(ctx, newDraft("https://example.org/a.html"))
		require.NoError(t, err)
		assert.Equal(t, medfeed.IngestAlreadyExists, second.Status)
		require.NotNil(t, second.Article)
		assert.Equal(t, first.Article.ID, second.Article.ID)

		assert.Equal(t, 1, countRows(t, db, "articles"))
		assert.Equal(t, 5, countRows(t, db, "paragraphs"))
		assert.Equal(t, 2, countRows(t, db, "images"))
	})

	t.Run("concurrent ingests of one URL create one article", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewArticleService(db)
		ctx := context.Background()

		const n = 8
		statuses := make([]medfeed.IngestStatus, n)
		var wg sync.WaitGroup
		for i := range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				res, err := svc.IngestArticle(ctx, newDraft("https://example.org/a.html"))
				if assert.NoError(t, err) {
					statuses[i] = res.Status
				}
			}()
		}
		wg.Wait()

		var created int
		for _, s := range statuses {
			if s == medfeed.IngestCreated {
				created++
			}
		}
		assert.Equal(t, 1, created)
		assert.Equal(t, 1, countRows(t, db, "articles"))
		assert.Equal(t, 5, countRows(t, db, "paragraphs"))
	})

	t.Run("rolls back everything when linking fails", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewArticleService(db)
		svc.SetBeforeLink(func() error { return errors.New("disk full") })
		ctx := context.Background()

		res, err := svc.IngestArticle(ctx, newDraft("https://example.org/a.html"))

		require.Error(t, err)
		assert.Nil(t, res)
		assert.Equal(t, medfeed.EINTERNAL, medfeed.ErrorCode(err))
		assert.Contains(t, medfeed.ErrorMessage(err), "disk full")

		_, err = svc.FindArticleBySourceURL(ctx, "https://example.org/a.html")
		assert.Equal(t, medfeed.ENOTFOUND, medfeed.ErrorCode(err))
		assert.Zero(t, countRows(t, db, "articles"))
		assert.Zero(t, countRows(t, db, "paragraphs"))
		assert.Zero(t, countRows(t, db, "images"))
	})

	t.Run("succeeds after an earlier rolled back attempt", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewArticleService(db)
		fail := true
		svc.SetBeforeLink(func() error {
			if fail {
				return errors.New("interrupted")
			}
			return nil
		})
		ctx := context.Background()

		_, err := svc.IngestArticle(ctx, newDraft("https://example.org/a.html"))
		require.Error(t, err)

		fail = false
		res, err := svc.IngestArticle(ctx, newDraft("https://example.org/a.html"))
		require.NoError(t, err)
		assert.Equal(t, medfeed.IngestCreated, res.Status)
	})

	t.Run("defaults created at to now", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewArticleService(db)
		draft := newDraft("https://example.org/a.html")
		draft.CreatedAt = time.Time{}

		res, err := svc.IngestArticle(context.Background(), draft)

		require.NoError(t, err)
		assert.WithinDuration(t, time.Now(), res.Article.CreatedAt, time.Minute)
	})

	t.Run("stores article without content", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewArticleService(db)
		ctx := context.Background()

		res, err := svc.IngestArticle(ctx, &medfeed.ArticleDraft{SourceURL: "https://example.org/empty", Title: medfeed.UntitledArticle})

		require.NoError(t, err)
		got, err := svc.FindArticleByID(ctx, res.Article.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Paragraphs)
		assert.Empty(t, got.Images)
	})

	t.Run("ignores links to unknown images", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewArticleService(db)
		ctx := context.Background()
		draft := &medfeed.ArticleDraft{
			SourceURL:  "https://example.org/a",
			Title:      "T",
			Paragraphs: []*medfeed.Paragraph{{Content: "见图5", Order: 1}},
			Links:      []medfeed.FigureLink{{ParagraphOrder: 1, ImagePosition: 5}},
		}

		res, err := svc.IngestArticle(ctx, draft)

		require.NoError(t, err)
		paragraphs, err := svc.FindParagraphs(ctx, res.Article.ID)
		require.NoError(t, err)
		require.Len(t, paragraphs, 1)
		assert.Zero(t, paragraphs[0].ImageRef)
	})

	t.Run("returns error for invalid draft", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewArticleService(db)

		_, err := svc.IngestArticle(context.Background(), &medfeed.ArticleDraft{Title: "no url"})

		assert.Equal(t, medfeed.EINVALID, medfeed.ErrorCode(err))
		assert.Zero(t, countRows(t, db, "articles"))
	})

	t.Run("returns error for nil draft", func(t *testing.T) {
		t.Parallel()

		_, err := sqlite.NewArticleService(setupTestDB(t)).IngestArticle(context.Background(), nil)

		assert.Equal(t, medfeed.EINVALID, medfeed.ErrorCode(err))
	})
}

func TestArticleService_FindArticleByID(t *testing.T) {
	t.Parallel()

	t.Run("returns ENOTFOUND for missing article", func(t *testing.T) {
		t.Parallel()

		_, err := sqlite.NewArticleService(setupTestDB(t)).FindArticleByID(context.Background(), "missing")

		assert.Equal(t, medfeed.ENOTFOUND, medfeed.ErrorCode(err))
	})
}

func TestArticleService_FindArticleBySourceURL(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := sqlite.NewArticleService(db)
	ctx := context.Background()

	res, err := svc.IngestArticle(ctx, newDraft("https://example.org/a.html"))
	require.NoError(t, err)

	got, err := svc.FindArticleBySourceURL(ctx, "https://example.org/a.html")
	require.NoError(t, err)
	assert.Equal(t, res.Article.ID, got.ID)
	assert.Empty(t, got.Paragraphs)

	_, err = svc.FindArticleBySourceURL(ctx, "https://example.org/b.html")
	assert.Equal(t, medfeed.ENOTFOUND, medfeed.ErrorCode(err))
}

func TestArticleService_FindArticles(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := sqlite.NewArticleService(db)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		draft := newDraft(fmt.Sprintf("https://example.org/%d.html", i))
		draft.CreatedAt = time.Date(2023, time.Month(i), 1, 0, 0, 0, 0, time.UTC)
		_, err := svc.IngestArticle(ctx, draft)
		require.NoError(t, err)
	}

	t.Run("returns newest first", func(t *testing.T) {
		t.Parallel()

		articles, err := svc.FindArticles(ctx, medfeed.ArticleFilter{})

		require.NoError(t, err)
		require.Len(t, articles, 3)
		assert.Equal(t, "https://example.org/3.html", articles[0].SourceURL)
		assert.Equal(t, "https://example.org/1.html", articles[2].SourceURL)
	})

	t.Run("applies limit and offset", func(t *testing.T) {
		t.Parallel()

		articles, err := svc.FindArticles(ctx, medfeed.ArticleFilter{Limit: 1, Offset: 1})

		require.NoError(t, err)
		require.Len(t, articles, 1)
		assert.Equal(t, "https://example.org/2.html", articles[0].SourceURL)
	})

	t.Run("applies offset without limit", func(t *testing.T) {
		t.Parallel()

		articles, err := svc.FindArticles(ctx, medfeed.ArticleFilter{Offset: 2})

		require.NoError(t, err)
		require.Len(t, articles, 1)
		assert.Equal(t, "https://example.org/1.html", articles[0].SourceURL)
	})

	t.Run("filters by source URL", func(t *testing.T) {
		t.Parallel()

		sourceURL := "https://example.org/2.html"
		articles, err := svc.FindArticles(ctx, medfeed.ArticleFilter{SourceURL: &sourceURL})

		require.NoError(t, err)
		require.Len(t, articles, 1)
		assert.Equal(t, sourceURL, articles[0].SourceURL)
	})
}

func TestArticleService_DeleteArticle(t *testing.T) {
	t.Parallel()

	t.Run("cascades to paragraphs and images", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewArticleService(db)
		ctx := context.Background()

		res, err := svc.IngestArticle(ctx, newDraft("https://example.org/a.html"))
		require.NoError(t, err)

		require.NoError(t, svc.DeleteArticle(ctx, res.Article.ID))

		assert.Zero(t, countRows(t, db, "articles"))
		assert.Zero(t, countRows(t, db, "paragraphs"))
		assert.Zero(t, countRows(t, db, "images"))
	})

	t.Run("returns ENOTFOUND for missing article", func(t *testing.T) {
		t.Parallel()

		err := sqlite.NewArticleService(setupTestDB(t)).DeleteArticle(context.Background(), "missing")

		assert.Equal(t, medfeed.ENOTFOUND, medfeed.ErrorCode(err))
	})
}
