package urlhandler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const testOrigin = "https://www.xiaohongshu.com"

func TestNormalizeLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected string
		ok       bool
	}{
		{name: "empty line", line: "", ok: false},
		{name: "whitespace only", line: "   \t ", ok: false},
		{name: "comment", line: "# saved posts", ok: false},
		{name: "indented comment", line: "   #https://example.com", ok: false},
		{
			name:     "absolute https",
			line:     "https://www.xiaohongshu.com/explore/66a1b2c3d4e5f6",
			expected: "https://www.xiaohongshu.com/explore/66a1b2c3d4e5f6",
			ok:       true,
		},
		{
			name:     "absolute with surrounding whitespace",
			line:     "  http://xhslink.com/a/AbCd  \r",
			expected: "http://xhslink.com/a/AbCd",
			ok:       true,
		},
		{
			name:     "site relative",
			line:     "/explore/66a1b2c3d4e5f6?xsec_token=abc",
			expected: "https://www.xiaohongshu.com/explore/66a1b2c3d4e5f6?xsec_token=abc",
			ok:       true,
		},
		{
			name:     "bare string passes through",
			line:     "www.xiaohongshu.com/explore/1",
			expected: "www.xiaohongshu.com/explore/1",
			ok:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeLine(tt.line, testOrigin)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNormalizeLine_TrailingSlashOrigin(t *testing.T) {
	got, ok := NormalizeLine("/explore/1", testOrigin+"/")
	assert.True(t, ok)
	assert.Equal(t, "https://www.xiaohongshu.com/explore/1", got)
}

func TestNormalizeLine_Idempotent(t *testing.T) {
	lines := []string{
		"/explore/1",
		"https://www.xiaohongshu.com/discovery/item/2",
		"xhslink.com/a/3",
		"  /user/profile/4  ",
	}

	for _, line := range lines {
		first, ok := NormalizeLine(line, testOrigin)
		assert.True(t, ok)
		second, ok := NormalizeLine(first, testOrigin)
		assert.True(t, ok)
		assert.Equal(t, first, second, "normalizing %q twice changed it", line)
	}
}

func TestHasScheme(t *testing.T) {
	assert.True(t, HasScheme("https://example.com"))
	assert.True(t, HasScheme("HTTP://example.com"))
	assert.True(t, HasScheme("git+ssh://host/repo"))
	assert.False(t, HasScheme("/explore/1"))
	assert.False(t, HasScheme("example.com/path"))
	assert.False(t, HasScheme("://missing"))
}

func TestValidateBaseOrigin(t *testing.T) {
	tests := []struct {
		origin  string
		wantErr bool
	}{
		{"https://www.xiaohongshu.com", false},
		{"https://www.xiaohongshu.com/", false},
		{"http://localhost:8080", false},
		{"", true},
		{"www.xiaohongshu.com", true},
		{"https://", true},
		{"https://www.xiaohongshu.com/explore", true},
		{"https://www.xiaohongshu.com?x=1", true},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			err := ValidateBaseOrigin(tt.origin)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcde...", Truncate("abcdefgh", 5))
	assert.Equal(t, "小红书...", Truncate("小红书笔记", 3))
	assert.Equal(t, "", Truncate("anything", 0))
}
