package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/medfeed"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ medfeed.ArticleService = (*ArticleService)(nil)

// ArticleService implements medfeed.ArticleService using SQLite.
type ArticleService struct {
	db *DB

	// beforeLink runs after paragraphs are inserted and before figure
	// links are applied. Tests use it to inject failures.
	beforeLink func() error
}

// NewArticleService creates a new ArticleService.
func NewArticleService(db *DB) *ArticleService {
	return &ArticleService{db: db}
}

// IngestArticle stores a draft and its content graph in one transaction.
// The source URL is checked inside the transaction, and a concurrent
// insert that trips the UNIQUE constraint is reported as already
// existing rather than as an error. Any other failure rolls back every
// row and is returned as EINTERNAL.
func (s *ArticleService) IngestArticle(ctx context.Context, draft *medfeed.ArticleDraft) (*medfeed.IngestResult, error) {
	if draft == nil {
		return nil, medfeed.Errorf(medfeed.EINVALID, "article draft required")
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, persistenceError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	existing, err := findArticleBySourceURL(ctx, tx, draft.SourceURL)
	if err == nil {
		return &medfeed.IngestResult{Status: medfeed.IngestAlreadyExists, Article: existing}, nil
	}
	if medfeed.ErrorCode(err) != medfeed.ENOTFOUND {
		return nil, persistenceError("check existing article", err)
	}

	now := time.Now().UTC()
	article := &medfeed.Article{
		ID:          uuid.New().String(),
		Title:       draft.Title,
		SourceURL:   draft.SourceURL,
		ContentHash: hashContent(flowText(draft.Paragraphs, draft.Images)),
		CreatedAt:   draft.CreatedAt.UTC(),
		FetchedAt:   now,
	}
	if draft.CreatedAt.IsZero() {
		article.CreatedAt = now
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO articles (id, title, source_url, content_hash, created_at, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, article.ID, article.Title, article.SourceURL, article.ContentHash,
		article.CreatedAt.Format(time.RFC3339), article.FetchedAt.Format(time.RFC3339)); err != nil {
		if isUniqueViolation(err) {
			return &medfeed.IngestResult{Status: medfeed.IngestAlreadyExists}, nil
		}
		return nil, persistenceError("insert article", err)
	}

	imageIDs := make(map[int]string, len(draft.Images))
	for _, img := range draft.Images {
		stored := &medfeed.Image{
			ID:         uuid.New().String(),
			ArticleID:  article.ID,
			URL:        img.URL,
			Identifier: img.Identifier,
			Position:   img.Position,
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO images (id, article_id, url, identifier, position)
			VALUES (?, ?, ?, ?, ?)
		`, stored.ID, stored.ArticleID, stored.URL, stored.Identifier, stored.Position); err != nil {
			return nil, persistenceError("insert image", err)
		}
		imageIDs[stored.Position] = stored.ID
		article.Images = append(article.Images, stored)
	}

	paragraphs := make(map[int]*medfeed.Paragraph, len(draft.Paragraphs))
	for _, p := range draft.Paragraphs {
		stored := &medfeed.Paragraph{
			ID:        uuid.New().String(),
			ArticleID: article.ID,
			Content:   p.Content,
			Order:     p.Order,
		}
		var ref sql.NullString
		if p.IsPlaceholder() {
			if id, ok := imageIDs[p.ImageRef]; ok {
				ref = sql.NullString{String: id, Valid: true}
				stored.ImageRef, stored.ImageID = p.ImageRef, id
			}
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO paragraphs (id, article_id, content, image_ref_id, sort_order)
			VALUES (?, ?, ?, ?, ?)
		`, stored.ID, stored.ArticleID, stored.Content, ref, stored.Order); err != nil {
			return nil, persistenceError("insert paragraph", err)
		}
		paragraphs[stored.Order] = stored
		article.Paragraphs = append(article.Paragraphs, stored)
	}

	if s.beforeLink != nil {
		if err := s.beforeLink(); err != nil {
			return nil, persistenceError("link figures", err)
		}
	}

	for _, link := range draft.Links {
		id, ok := imageIDs[link.ImagePosition]
		if !ok {
			continue
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE paragraphs SET image_ref_id = ? WHERE article_id = ? AND sort_order = ?
		`, id, article.ID, link.ParagraphOrder); err != nil {
			return nil, persistenceError("link figure", err)
		}
		if p, ok := paragraphs[link.ParagraphOrder]; ok {
			p.ImageRef, p.ImageID = link.ImagePosition, id
		}
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return &medfeed.IngestResult{Status: medfeed.IngestAlreadyExists}, nil
		}
		return nil, persistenceError("commit", err)
	}

	return &medfeed.IngestResult{Status: medfeed.IngestCreated, Article: article}, nil
}

// FindArticleByID retrieves an article with its paragraphs and images.
func (s *ArticleService) FindArticleByID(ctx context.Context, id string) (*medfeed.Article, error) {
	a, err := scanArticle(s.db.QueryRowContext(ctx, `
		SELECT id, title, source_url, content_hash, created_at, fetched_at
		FROM articles
		WHERE id = ?
	`, id))
	if err != nil {
		return nil, err
	}

	if a.Paragraphs, err = s.FindParagraphs(ctx, a.ID); err != nil {
		return nil, err
	}
	if a.Images, err = s.FindImages(ctx, a.ID); err != nil {
		return nil, err
	}
	return a, nil
}

// FindArticleBySourceURL retrieves an article by its source URL.
func (s *ArticleService) FindArticleBySourceURL(ctx context.Context, sourceURL string) (*medfeed.Article, error) {
	return findArticleBySourceURL(ctx, s.db, sourceURL)
}

func findArticleBySourceURL(ctx context.Context, q queryer, sourceURL string) (*medfeed.Article, error) {
	return scanArticle(q.QueryRowContext(ctx, `
		SELECT id, title, source_url, content_hash, created_at, fetched_at
		FROM articles
		WHERE source_url = ?
	`, sourceURL))
}

// FindArticles retrieves articles matching the filter, newest first.
func (s *ArticleService) FindArticles(ctx context.Context, filter medfeed.ArticleFilter) ([]*medfeed.Article, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, title, source_url, content_hash, created_at, fetched_at FROM articles WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.SourceURL != nil {
		query.WriteString(" AND source_url = ?")
		args = append(args, *filter.SourceURL)
	}

	query.WriteString(" ORDER BY created_at DESC, fetched_at DESC, id")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []*medfeed.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}

	return articles, rows.Err()
}

// FindParagraphs retrieves an article's paragraphs in order. ImageRef is
// the position of the referenced image, resolved through image_ref_id.
func (s *ArticleService) FindParagraphs(ctx context.Context, articleID string) ([]*medfeed.Paragraph, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.article_id, p.content, p.sort_order, COALESCE(p.image_ref_id, ''), COALESCE(i.position, 0)
		FROM paragraphs p
		LEFT JOIN images i ON i.id = p.image_ref_id
		WHERE p.article_id = ?
		ORDER BY p.sort_order ASC
	`, articleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paragraphs []*medfeed.Paragraph
	for rows.Next() {
		var p medfeed.Paragraph
		if err := rows.Scan(&p.ID, &p.ArticleID, &p.Content, &p.Order, &p.ImageID, &p.ImageRef); err != nil {
			return nil, err
		}
		paragraphs = append(paragraphs, &p)
	}
	return paragraphs, rows.Err()
}

// FindImages retrieves an article's images by position.
func (s *ArticleService) FindImages(ctx context.Context, articleID string) ([]*medfeed.Image, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, article_id, url, identifier, position
		FROM images
		WHERE article_id = ?
		ORDER BY position ASC
	`, articleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []*medfeed.Image
	for rows.Next() {
		var img medfeed.Image
		if err := rows.Scan(&img.ID, &img.ArticleID, &img.URL, &img.Identifier, &img.Position); err != nil {
			return nil, err
		}
		images = append(images, &img)
	}
	return images, rows.Err()
}

// DeleteArticle permanently removes an article. Paragraphs and images
// are removed by cascade.
func (s *ArticleService) DeleteArticle(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM articles WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return medfeed.Errorf(medfeed.ENOTFOUND, "article not found")
	}

	return nil
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanArticle(row scanner) (*medfeed.Article, error) {
	var a medfeed.Article
	var createdAt, fetchedAt string

	err := row.Scan(&a.ID, &a.Title, &a.SourceURL, &a.ContentHash, &createdAt, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, medfeed.Errorf(medfeed.ENOTFOUND, "article not found")
	}
	if err != nil {
		return nil, err
	}

	if a.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if a.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at"); err != nil {
		return nil, err
	}
	return &a, nil
}

// flowText is the reading flow hashed into an article's content hash.
// Placeholders contribute the URL of the image they stand for.
func flowText(paragraphs []*medfeed.Paragraph, images []*medfeed.Image) string {
	urls := make(map[int]string, len(images))
	for _, img := range images {
		urls[img.Position] = img.URL
	}
	var b strings.Builder
	for _, p := range paragraphs {
		if p.IsPlaceholder() {
			b.WriteString(urls[p.ImageRef])
		} else {
			b.WriteString(p.Content)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
