package models

import "time"

// Subject is what a view event is about.
type Subject string

const (
	SubjectVisit   Subject = "visit"
	SubjectProject Subject = "project"
	SubjectArticle Subject = "article"
	SubjectNote    Subject = "note"
)

var Subjects = []Subject{SubjectVisit, SubjectProject, SubjectArticle, SubjectNote}

// Collection is where events for s are stored.
func (s Subject) Collection() string {
	if s == SubjectVisit {
		return "visits"
	}
	return string(s) + "_views"
}

// Field is the document field carrying the subject id, e.g. "projectId".
// Visits have none.
func (s Subject) Field() string {
	if s == SubjectVisit {
		return ""
	}
	return string(s) + "Id"
}

func (s Subject) Valid() bool {
	for _, v := range Subjects {
		if v == s {
			return true
		}
	}
	return false
}

// ViewEvent is one append-only access record.
type ViewEvent struct {
	ID        string    `json:"id"`
	Subject   Subject   `json:"subject"`
	SubjectID string    `json:"subjectId,omitempty"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"userAgent"`
	Browser   string    `json:"browser,omitempty"`
	OS        string    `json:"os,omitempty"`
	Bot       bool      `json:"bot,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ViewCount struct {
	ID    string `json:"id" bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}

type VisitStats struct {
	Total     int64 `json:"total"`
	UniqueIPs int64 `json:"uniqueIPs"`
}

// Dashboard is the admin analytics summary.
type Dashboard struct {
	Visitors       int64       `json:"visitors"`
	UniqueVisitors int64       `json:"uniqueVisitors"`
	PageViews      int64       `json:"pageViews"`
	ProjectsViewed int64       `json:"projectsViewed"`
	ArticlesRead   int64       `json:"articlesRead"`
	NotesRead      int64       `json:"notesRead"`
	ProjectStats   []ViewCount `json:"projectStats"`
	ArticleStats   []ViewCount `json:"articleStats"`
	NoteStats      []ViewCount `json:"noteStats"`
}

type ContactMessage struct {
	ID        string    `json:"id" bson:"id"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Message   string    `json:"message" bson:"message"`
	Read      bool      `json:"read" bson:"read"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

func (c ContactMessage) DocID() string      { return c.ID }
func (c ContactMessage) Created() time.Time { return c.CreatedAt }
