package site

import (
	"time"

	"github.com/surafelx/portfolio26/blocks"
	"github.com/surafelx/portfolio26/models"
)

const sampleNotice = "Database connection temporarily unavailable. Full content will be available soon."

func sampleNote(now time.Time) models.Note {
	lang := &blocks.Metadata{Language: "javascript"}
	return models.Note{
		ID:    "sample-note",
		Title: "Sample Note - Database Connection",
		Blocks: []blocks.Block{
			{ID: "sample-note-1", Kind: blocks.Title, Content: "Database Status"},
			{ID: "sample-note-2", Kind: blocks.Paragraph, Content: "This is a sample note showing that the database connection is currently unavailable. When the connection is restored, you'll see the full content."},
			{ID: "sample-note-3", Kind: blocks.Code, Content: "console.log('Database connection status: checking...');", Metadata: lang},
			{ID: "sample-note-4", Kind: blocks.Paragraph, Content: "Please check back later when the full notes and articles will be available."},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func sampleArticle(now time.Time) models.Article {
	seq := []blocks.Block{
		{ID: "sample-article-1", Kind: blocks.H2, Content: "Content Unavailable"},
		{ID: "sample-article-2", Kind: blocks.Paragraph, Content: "This is a sample article shown while the database connection is unavailable. When the connection is restored, you'll see the full content."},
		{ID: "sample-article-3", Kind: blocks.Quote, Content: "Please check back later."},
	}
	return models.Article{
		ID:          "sample-article",
		Title:       "Sample Article - Database Connection",
		Excerpt:     "Placeholder content while the database is unavailable.",
		Blocks:      seq,
		Tags:        []string{"status"},
		PublishedAt: now.Format("2006-01-02"),
		ReadingTime: blocks.ReadingTime(seq),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func sampleProject(now time.Time) models.Project {
	return models.Project{
		ID:          "sample-project",
		Title:       "Sample Project - Database Connection",
		Brief:       "Placeholder project shown while the database is unavailable.",
		Description: "Project details will be available once the database connection is restored.",
		Tags:        []string{"status"},
		Keywords:    []string{},
		TechStack:   []string{},
		Year:        now.Format("2006"),
		Priority:    1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
