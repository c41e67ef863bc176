package mastodon

// Status represents a single post as returned by the Mastodon API.
// Only the fields the archiver inspects or persists are mapped; the
// remote payload carries many more.
type Status struct {
	ID               string            `json:"id"`
	URL              string            `json:"url"`
	URI              string            `json:"uri"`
	CreatedAt        string            `json:"created_at"`
	Account          Account           `json:"account"`
	Content          string            `json:"content"`
	SpoilerText      string            `json:"spoiler_text"`
	Visibility       string            `json:"visibility"`
	Language         string            `json:"language"`
	RepliesCount     int               `json:"replies_count"`
	ReblogsCount     int               `json:"reblogs_count"`
	FavouritesCount  int               `json:"favourites_count"`
	MediaAttachments []MediaAttachment `json:"media_attachments"`
	Reblog           *Status           `json:"reblog,omitempty"`
}

// Account represents the author of a status
type Account struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Acct        string `json:"acct"`
	DisplayName string `json:"display_name"`
	URL         string `json:"url"`
}

// MediaAttachment represents a single media file attached to a status
type MediaAttachment struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	URL         string `json:"url"`
	PreviewURL  string `json:"preview_url"`
	Description string `json:"description"`
}

// MediaSource returns the status whose attachments should be archived.
// For a boost the inner reblogged status carries the media; the outer
// wrapper has none of its own.
func (s *Status) MediaSource() *Status {
	if s.Reblog != nil {
		return s.Reblog
	}
	return s
}
