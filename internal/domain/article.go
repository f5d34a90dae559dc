package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

var (
	ErrArticleNotFound = errors.New("article not found")
	ErrForbidden       = errors.New("forbidden")
)

const (
	WordsPerMinute   = 200
	ExcerptMaxLength = 150
)

type Article struct {
	ID        string
	Title     string
	Body      string
	Excerpt   string
	Tags      []string
	Published bool
	UserID    string // owner
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a *Article) OwnedBy(userID string) bool {
	return userID != "" && a.UserID == userID
}

func (a *Article) WordCount() int {
	return WordCount(a.Body)
}

// ReadingTime renders the estimate shown next to an article, e.g. "2 min read".
func (a *Article) ReadingTime() string {
	return FormatReadingTime(a.WordCount())
}

func WordCount(text string) int {
	return len(strings.Fields(text))
}

// ReadingMinutes rounds up and never reports less than a minute.
func ReadingMinutes(words int) int {
	minutes := int(math.Ceil(float64(words) / WordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

func FormatReadingTime(words int) string {
	return fmt.Sprintf("%d min read", ReadingMinutes(words))
}

// NormalizeTags splits comma-joined entries, trims every piece, and drops
// empties and repeats while keeping first-seen order.
func NormalizeTags(raw []string) []string {
	tags := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, entry := range raw {
		for _, piece := range strings.Split(entry, ",") {
			tag := strings.TrimSpace(piece)
			if tag == "" {
				continue
			}
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	return tags
}

// Excerpt truncates body to ExcerptMaxLength characters.
func Excerpt(body string) string {
	runes := []rune(body)
	if len(runes) <= ExcerptMaxLength {
		return body
	}
	return strings.TrimSpace(string(runes[:ExcerptMaxLength])) + "..."
}

// ArticleFilter narrows an already owner-scoped list. Zero value matches everything.
type ArticleFilter struct {
	Query string // substring of title or body, case-insensitive
	Tag   string // substring of any one tag, case-insensitive
}

func (f ArticleFilter) Match(a *Article) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(a.Title), q) && !strings.Contains(strings.ToLower(a.Body), q) {
			return false
		}
	}
	if t := strings.ToLower(strings.TrimSpace(f.Tag)); t != "" {
		found := false
		for _, tag := range a.Tags {
			if strings.Contains(strings.ToLower(tag), t) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (f ArticleFilter) Apply(articles []*Article) []*Article {
	out := make([]*Article, 0, len(articles))
	for _, a := range articles {
		if f.Match(a) {
			out = append(out, a)
		}
	}
	return out
}

// TagSet is the union of tags across articles in first-seen order.
func TagSet(articles []*Article) []string {
	tags := []string{}
	seen := make(map[string]struct{})
	for _, a := range articles {
		for _, t := range a.Tags {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			tags = append(tags, t)
		}
	}
	return tags
}

type ArticleStats struct {
	Articles       int
	Words          int
	ReadingMinutes int
}

func ComputeStats(articles []*Article) ArticleStats {
	var s ArticleStats
	for _, a := range articles {
		s.Articles++
		s.Words += a.WordCount()
	}
	s.ReadingMinutes = int(math.Round(float64(s.Words) / WordsPerMinute))
	return s
}
