package extractor

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/aleister1102/notegrab/internal/common/errorwrapper"
	"github.com/aleister1102/notegrab/internal/models"
)

// ErrNoPostData means the page carried neither note state nor usable meta tags
var ErrNoPostData = errors.New("no post data found in page")

const initialStatePrefix = "window.__INITIAL_STATE__="

var undefinedLiteral = regexp.MustCompile(`([:\[,]\s*)undefined\b`)

type initialState struct {
	Note struct {
		CurrentNoteID string                       `json:"currentNoteId"`
		FirstNoteID   string                       `json:"firstNoteId"`
		NoteDetailMap map[string]noteDetailWrapper `json:"noteDetailMap"`
	} `json:"note"`
	NoteData struct {
		Data struct {
			NoteData noteCard `json:"noteData"`
		} `json:"data"`
	} `json:"noteData"`
}

type noteDetailWrapper struct {
	Note noteCard `json:"note"`
}

type noteCard struct {
	NoteID string `json:"noteId"`
	Title  string `json:"title"`
	Desc   string `json:"desc"`
	Type   string `json:"type"`
	Time   int64  `json:"time"`
	User   struct {
		UserID   string `json:"userId"`
		Nickname string `json:"nickname"`
		NickName string `json:"nickName"`
	} `json:"user"`
	TagList []struct {
		Name string `json:"name"`
	} `json:"tagList"`
	ImageList []struct {
		URLDefault string `json:"urlDefault"`
		URL        string `json:"url"`
	} `json:"imageList"`
	Video *struct {
		Media struct {
			Stream map[string][]struct {
				MasterURL string `json:"masterUrl"`
			} `json:"stream"`
		} `json:"media"`
	} `json:"video"`
}

// ParsePage extracts the post carried by a note page. The embedded initial
// state is preferred; OpenGraph meta tags are the fallback.
func ParsePage(html []byte, pageURL string) (*models.Post, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to parse HTML")
	}

	base, _ := url.Parse(pageURL)
	noteID := noteIDFromURL(base)

	if raw := findInitialState(doc); raw != "" {
		card, err := decodeInitialState(raw, noteID)
		if err != nil {
			return nil, err
		}
		if card != nil {
			return cardToPost(*card, pageURL, base), nil
		}
	}

	post := parseOpenGraph(doc, pageURL, base)
	if post.ID == "" {
		post.ID = noteID
	}
	if post.Title == "" && len(post.MediaURLs) == 0 {
		return nil, ErrNoPostData
	}
	return post, nil
}

func findInitialState(doc *goquery.Document) string {
	var raw string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if !strings.HasPrefix(text, initialStatePrefix) {
			return true
		}
		raw = strings.TrimSuffix(strings.TrimPrefix(text, initialStatePrefix), ";")
		return false
	})
	return raw
}

func decodeInitialState(raw, noteID string) (*noteCard, error) {
	cleaned := undefinedLiteral.ReplaceAllString(raw, "${1}null")

	var state initialState
	if err := json.Unmarshal([]byte(cleaned), &state); err != nil {
		return nil, errorwrapper.WrapError(err, "failed to decode initial state")
	}

	details := state.Note.NoteDetailMap
	for _, key := range []string{noteID, state.Note.CurrentNoteID, state.Note.FirstNoteID} {
		if key == "" {
			continue
		}
		if wrapper, ok := details[key]; ok && wrapper.Note.NoteID != "" {
			card := wrapper.Note
			return &card, nil
		}
	}
	for _, wrapper := range details {
		if wrapper.Note.NoteID != "" {
			card := wrapper.Note
			return &card, nil
		}
	}

	if mobile := state.NoteData.Data.NoteData; mobile.NoteID != "" {
		return &mobile, nil
	}
	return nil, nil
}

func cardToPost(card noteCard, pageURL string, base *url.URL) *models.Post {
	post := &models.Post{
		ID:          card.NoteID,
		URL:         pageURL,
		Title:       strings.TrimSpace(card.Title),
		Description: strings.TrimSpace(card.Desc),
		Type:        models.PostTypeNormal,
		AuthorID:    card.User.UserID,
		AuthorName:  card.User.Nickname,
	}
	if post.AuthorName == "" {
		post.AuthorName = card.User.NickName
	}
	if card.Time > 0 {
		post.PublishedAt = time.UnixMilli(card.Time).UTC()
	}
	for _, tag := range card.TagList {
		if tag.Name != "" {
			post.Tags = append(post.Tags, tag.Name)
		}
	}

	if card.Type == string(models.PostTypeVideo) && card.Video != nil {
		post.Type = models.PostTypeVideo
		for _, codec := range []string{"h264", "h265", "av1"} {
			streams := card.Video.Media.Stream[codec]
			if len(streams) == 0 {
				continue
			}
			if resolved, ok := resolveMediaURL(streams[0].MasterURL, base); ok {
				post.MediaURLs = append(post.MediaURLs, resolved)
				break
			}
		}
		return post
	}

	for _, image := range card.ImageList {
		raw := image.URLDefault
		if raw == "" {
			raw = image.URL
		}
		if resolved, ok := resolveMediaURL(raw, base); ok {
			post.MediaURLs = append(post.MediaURLs, resolved)
		}
	}
	return post
}

func parseOpenGraph(doc *goquery.Document, pageURL string, base *url.URL) *models.Post {
	post := &models.Post{URL: pageURL, Type: models.PostTypeNormal}

	meta := func(attr, name string) *goquery.Selection {
		return doc.Find("meta[" + attr + "='" + name + "']")
	}

	post.Title = strings.TrimSpace(meta("property", "og:title").AttrOr("content", ""))
	post.Description = strings.TrimSpace(meta("name", "description").AttrOr("content", ""))
	if post.Description == "" {
		post.Description = strings.TrimSpace(meta("property", "og:description").AttrOr("content", ""))
	}

	meta("property", "og:video").Each(func(_ int, s *goquery.Selection) {
		if resolved, ok := resolveMediaURL(s.AttrOr("content", ""), base); ok {
			post.Type = models.PostTypeVideo
			post.MediaURLs = append(post.MediaURLs, resolved)
		}
	})
	if post.Type != models.PostTypeVideo {
		meta("property", "og:image").Each(func(_ int, s *goquery.Selection) {
			if resolved, ok := resolveMediaURL(s.AttrOr("content", ""), base); ok {
				post.MediaURLs = append(post.MediaURLs, resolved)
			}
		})
	}
	return post
}

// noteIDFromURL returns the last path segment of /explore/<id> style URLs
func noteIDFromURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	p := strings.TrimSuffix(u.Path, "/")
	if !strings.Contains(p, "/explore/") && !strings.Contains(p, "/discovery/item/") {
		return ""
	}
	return path.Base(p)
}
