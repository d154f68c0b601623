package medfeed

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	Convert(html string) (string, error)
}

// ArticleRenderer renders a stored article as Markdown.
type ArticleRenderer interface {
	// ConvertArticle renders the article's reading flow with its images
	// in place. The article must carry its paragraphs and images.
	ConvertArticle(a *Article) (string, error)
}
