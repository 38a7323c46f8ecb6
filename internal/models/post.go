package models

import "time"

// PostType distinguishes image notes from video notes
type PostType string

const (
	PostTypeNormal PostType = "normal"
	PostTypeVideo  PostType = "video"
)

// Post is the record the extraction client returns for one note
type Post struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Type        PostType  `json:"type"`
	AuthorID    string    `json:"author_id,omitempty"`
	AuthorName  string    `json:"author_name,omitempty"`
	PublishedAt time.Time `json:"published_at,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	MediaURLs   []string  `json:"media_urls,omitempty"`
	// DownloadPaths lists the local files written for MediaURLs
	DownloadPaths []string `json:"download_paths,omitempty"`
}

// IsEmpty reports whether the record carries nothing usable.
func (p Post) IsEmpty() bool {
	return p.ID == "" && p.Title == "" && len(p.MediaURLs) == 0
}

// DisplayTitle returns the title or a placeholder
func (p Post) DisplayTitle() string {
	if p.Title == "" {
		return "Unknown title"
	}
	return p.Title
}

// DisplayAuthor returns the author nickname or a placeholder
func (p Post) DisplayAuthor() string {
	if p.AuthorName == "" {
		return "Unknown author"
	}
	return p.AuthorName
}
