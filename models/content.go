package models

import (
	"time"

	"github.com/surafelx/portfolio26/blocks"
)

type Article struct {
	ID          string         `json:"id" bson:"id"`
	Title       string         `json:"title" bson:"title"`
	Excerpt     string         `json:"excerpt" bson:"excerpt"`
	Blocks      []blocks.Block `json:"blocks" bson:"blocks"`
	Tags        []string       `json:"tags" bson:"tags"`
	PublishedAt string         `json:"publishedAt" bson:"publishedAt"`
	ReadingTime string         `json:"readingTime" bson:"readingTime"`
	Author      string         `json:"author" bson:"author"`
	CoverImage  string         `json:"coverImage,omitempty" bson:"coverImage,omitempty"`
	// Content is the markdown-style body of articles written before blocks.
	Content   string    `json:"content,omitempty" bson:"content,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (a Article) DocID() string        { return a.ID }
func (a Article) Created() time.Time   { return a.CreatedAt }
func (a Article) Summary() ContentLink { return ContentLink{ID: a.ID, Title: a.Title} }

// ArticlePatch carries the fields of a partial article update.
type ArticlePatch struct {
	Title       *string         `json:"title"`
	Excerpt     *string         `json:"excerpt"`
	Blocks      *[]blocks.Block `json:"blocks"`
	Tags        *[]string       `json:"tags"`
	PublishedAt *string         `json:"publishedAt"`
	ReadingTime *string         `json:"readingTime"`
	Author      *string         `json:"author"`
	CoverImage  *string         `json:"coverImage"`
}

func (p ArticlePatch) Apply(a *Article) {
	set(&a.Title, p.Title)
	set(&a.Excerpt, p.Excerpt)
	set(&a.Blocks, p.Blocks)
	set(&a.Tags, p.Tags)
	set(&a.PublishedAt, p.PublishedAt)
	set(&a.ReadingTime, p.ReadingTime)
	set(&a.Author, p.Author)
	set(&a.CoverImage, p.CoverImage)
}

type Note struct {
	ID     string         `json:"id" bson:"id"`
	Title  string         `json:"title" bson:"title"`
	Blocks []blocks.Block `json:"blocks" bson:"blocks"`
	// Content is the flat body of notes written before blocks existed.
	Content   string    `json:"content,omitempty" bson:"content,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (n Note) DocID() string      { return n.ID }
func (n Note) Created() time.Time { return n.CreatedAt }

// Normalized returns n with a legacy flat body presented as a single
// paragraph block. The stored document is not changed.
func (n Note) Normalized() Note {
	if len(n.Blocks) > 0 || n.Content == "" {
		return n
	}
	n.Blocks = []blocks.Block{{ID: n.ID + "-content", Kind: blocks.Paragraph, Content: n.Content}}
	return n
}

type NotePatch struct {
	Title  *string         `json:"title"`
	Blocks *[]blocks.Block `json:"blocks"`
}

func (p NotePatch) Apply(n *Note) {
	set(&n.Title, p.Title)
	if p.Blocks != nil {
		n.Blocks = *p.Blocks
		n.Content = ""
	}
}

type Project struct {
	ID          string    `json:"id" bson:"id"`
	Title       string    `json:"title" bson:"title"`
	Brief       string    `json:"brief" bson:"brief"`
	Description string    `json:"description" bson:"description"`
	Tags        []string  `json:"tags" bson:"tags"`
	Keywords    []string  `json:"keywords" bson:"keywords"`
	TechStack   []string  `json:"techStack" bson:"techStack"`
	ImageURL    string    `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	LiveURL     string    `json:"liveUrl,omitempty" bson:"liveUrl,omitempty"`
	GithubURL   string    `json:"githubUrl,omitempty" bson:"githubUrl,omitempty"`
	VideoURL    string    `json:"videoUrl,omitempty" bson:"videoUrl,omitempty"`
	Year        string    `json:"year" bson:"year"`
	Priority    int       `json:"priority" bson:"priority"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (p Project) DocID() string      { return p.ID }
func (p Project) Created() time.Time { return p.CreatedAt }

type ProjectPatch struct {
	Title       *string   `json:"title"`
	Brief       *string   `json:"brief"`
	Description *string   `json:"description"`
	Tags        *[]string `json:"tags"`
	Keywords    *[]string `json:"keywords"`
	TechStack   *[]string `json:"techStack"`
	ImageURL    *string   `json:"imageUrl"`
	LiveURL     *string   `json:"liveUrl"`
	GithubURL   *string   `json:"githubUrl"`
	VideoURL    *string   `json:"videoUrl"`
	Year        *string   `json:"year"`
	Priority    *int      `json:"priority"`
}

func (p ProjectPatch) Apply(pr *Project) {
	set(&pr.Title, p.Title)
	set(&pr.Brief, p.Brief)
	set(&pr.Description, p.Description)
	set(&pr.Tags, p.Tags)
	set(&pr.Keywords, p.Keywords)
	set(&pr.TechStack, p.TechStack)
	set(&pr.ImageURL, p.ImageURL)
	set(&pr.LiveURL, p.LiveURL)
	set(&pr.GithubURL, p.GithubURL)
	set(&pr.VideoURL, p.VideoURL)
	set(&pr.Year, p.Year)
	set(&pr.Priority, p.Priority)
}

// ContentLink is the id/title pair used in listings and error payloads.
type ContentLink struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
