package sqlite

// SetBeforeLink installs a hook that runs inside the ingest transaction
// after paragraphs are inserted and before figure links are applied.
func (s *ArticleService) SetBeforeLink(fn func() error) {
	s.beforeLink = fn
}
