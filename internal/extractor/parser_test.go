package extractor

import (
	"testing"
	"time"

	"github.com/aleister1102/notegrab/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const imageNotePage = `<html><head><title>note</title></head><body>
<script>window.__INITIAL_STATE__={"global":{"appSettings":undefined},"note":{"currentNoteId":"66a1","noteDetailMap":{"66a1":{"note":{
"noteId":"66a1","title":"周末露营","desc":"camping notes","type":"normal","time":1719822600000,
"user":{"userId":"u1","nickname":"小明"},
"tagList":[{"name":"camping"},{"name":"outdoor"}],
"imageList":[{"urlDefault":"//sns-webpic.example.com/1040g/abc!nd_dft_wlteh_webp_3"},{"urlDefault":"https://sns-webpic.example.com/def.png"}],
"video":undefined}}}}}</script>
</body></html>`

const videoNotePage = `<html><body>
<script>window.__INITIAL_STATE__={"note":{"noteDetailMap":{"77b2":{"note":{
"noteId":"77b2","title":"","type":"video","user":{"userId":"u2","nickname":"阿花"},
"video":{"media":{"stream":{"h264":[{"masterUrl":"https://sns-video.example.com/77b2.mp4"}],"h265":[]}}},
"imageList":[{"urlDefault":"https://sns-webpic.example.com/cover.jpg"}]}}}}};</script>
</body></html>`

const openGraphPage = `<html><head>
<meta property="og:title" content="Sunset at the pier">
<meta name="description" content="golden hour">
<meta property="og:image" content="https://img.example.com/a.jpg">
<meta property="og:image" content="/relative/b.jpg">
</head><body></body></html>`

func TestParsePage_ImageNote(t *testing.T) {
	post, err := ParsePage([]byte(imageNotePage), "https://www.xiaohongshu.com/explore/66a1?xsec_token=x")
	require.NoError(t, err)

	assert.Equal(t, "66a1", post.ID)
	assert.Equal(t, "周末露营", post.Title)
	assert.Equal(t, "camping notes", post.Description)
	assert.Equal(t, models.PostTypeNormal, post.Type)
	assert.Equal(t, "u1", post.AuthorID)
	assert.Equal(t, "小明", post.AuthorName)
	assert.Equal(t, []string{"camping", "outdoor"}, post.Tags)
	assert.Equal(t, time.UnixMilli(1719822600000).UTC(), post.PublishedAt)
	assert.Equal(t, []string{
		"https://sns-webpic.example.com/1040g/abc!nd_dft_wlteh_webp_3",
		"https://sns-webpic.example.com/def.png",
	}, post.MediaURLs)
}

func TestParsePage_VideoNote(t *testing.T) {
	post, err := ParsePage([]byte(videoNotePage), "https://www.xiaohongshu.com/discovery/item/77b2")
	require.NoError(t, err)

	assert.Equal(t, "77b2", post.ID)
	assert.Equal(t, models.PostTypeVideo, post.Type)
	assert.Equal(t, "阿花", post.AuthorName)
	assert.Equal(t, []string{"https://sns-video.example.com/77b2.mp4"}, post.MediaURLs)
}

func TestParsePage_OpenGraphFallback(t *testing.T) {
	post, err := ParsePage([]byte(openGraphPage), "https://www.xiaohongshu.com/explore/88c3")
	require.NoError(t, err)

	assert.Equal(t, "88c3", post.ID)
	assert.Equal(t, "Sunset at the pier", post.Title)
	assert.Equal(t, "golden hour", post.Description)
	assert.Equal(t, []string{
		"https://img.example.com/a.jpg",
		"https://www.xiaohongshu.com/relative/b.jpg",
	}, post.MediaURLs)
}

func TestParsePage_NoData(t *testing.T) {
	_, err := ParsePage([]byte(`<html><body><p>login required</p></body></html>`), "https://www.xiaohongshu.com/explore/1")
	assert.ErrorIs(t, err, ErrNoPostData)
}

func TestParsePage_BrokenState(t *testing.T) {
	page := `<html><body><script>window.__INITIAL_STATE__={"note":</script></body></html>`
	_, err := ParsePage([]byte(page), "https://www.xiaohongshu.com/explore/1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoPostData)
}

func TestNoteIDFromURL(t *testing.T) {
	for raw, want := range map[string]string{
		"https://www.xiaohongshu.com/explore/66a1":            "66a1",
		"https://www.xiaohongshu.com/explore/66a1/":           "66a1",
		"https://www.xiaohongshu.com/discovery/item/77b2?a=b": "77b2",
		"https://www.xiaohongshu.com/user/profile/u1":         "",
	} {
		post, _ := ParsePage([]byte(openGraphPage), raw)
		require.NotNil(t, post)
		if want != "" {
			assert.Equal(t, want, post.ID, raw)
		} else {
			assert.Empty(t, post.ID, raw)
		}
	}
}

func TestMediaExtension(t *testing.T) {
	assert.Equal(t, ".png", mediaExtension("https://x/def.png", false))
	assert.Equal(t, ".webp", mediaExtension("https://x/abc!nd_dft_wlteh_webp_3", false))
	assert.Equal(t, ".jpg", mediaExtension("https://x/abc", false))
	assert.Equal(t, ".mp4", mediaExtension("https://x/stream", true))
	assert.Equal(t, ".mov", mediaExtension("https://x/clip.MOV", true))
}
