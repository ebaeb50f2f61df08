// Package site renders the public pages.
package site

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/surafelx/portfolio26/about"
	"github.com/surafelx/portfolio26/analytics"
	"github.com/surafelx/portfolio26/apperr"
	"github.com/surafelx/portfolio26/articles"
	"github.com/surafelx/portfolio26/blocks"
	"github.com/surafelx/portfolio26/contact"
	"github.com/surafelx/portfolio26/content"
	"github.com/surafelx/portfolio26/logx"
	"github.com/surafelx/portfolio26/models"
	"github.com/surafelx/portfolio26/notes"
	"github.com/surafelx/portfolio26/projects"
	"github.com/surafelx/portfolio26/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"home", "about", "notes", "article", "note", "project", "contact", "error"}

var funcs = template.FuncMap{
	"date": func(t time.Time) string { return t.Format("January 2, 2006") },
	"iso":  func(t time.Time) string { return t.UTC().Format(time.RFC3339) },
	"join": func(items []string) string { return strings.Join(items, ", ") },
	"paragraphs": func(s string) []string {
		var out []string
		for _, p := range strings.Split(s, "\n") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	},
}

// Services are the readers the pages draw from.
type Services struct {
	Projects *projects.Service
	Articles *articles.Service
	Notes    *notes.Service
	About    *about.Service
	Contact  *contact.Service
	Tracker  *analytics.Tracker
}

type Options struct {
	SiteName string
	// ShowSampleContent renders a placeholder document instead of a 404
	// when a detail page cannot load.
	ShowSampleContent bool
	Renderer          *blocks.Renderer
	Log               *logx.Logger
	Now               func() time.Time
}

type Site struct {
	svc   Services
	opts  Options
	log   *logx.Logger
	pages map[string]*template.Template
}

func New(svc Services, opts Options) (*Site, error) {
	if opts.SiteName == "" {
		opts.SiteName = "Portfolio"
	}
	if opts.Renderer == nil {
		opts.Renderer = blocks.NewRenderer("", nil)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s page: %w", name, err)
		}
		pages[name] = t
	}
	return &Site{svc: svc, opts: opts, log: logx.OrNop(opts.Log), pages: pages}, nil
}

type page struct {
	SiteName string
	Title    string
	Notice   string
	Year     int
	Body     template.HTML
	Data     any
}

// listState is one list on a page: its items, or why there are none.
type listState[T any] struct {
	Items     []T
	Err       string
	Empty     bool
	EmptyText string
}

func newListState[T any](items []T, err error, emptyText string) listState[T] {
	if err != nil {
		return listState[T]{Err: "Could not load content. Please try again later."}
	}
	return listState[T]{Items: items, Empty: len(items) == 0, EmptyText: emptyText}
}

func (s *Site) render(w http.ResponseWriter, r *http.Request, status int, name string, p page) {
	p.SiteName = s.opts.SiteName
	p.Year = s.opts.Now().Year()

	var buf bytes.Buffer
	if err := s.pages[name].ExecuteTemplate(&buf, "base", p); err != nil {
		s.log.Error("[render] template failed", "page", name, "path", r.URL.Path, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

type errorPage struct {
	Status  int
	Message string
}

func (s *Site) notFound(w http.ResponseWriter, r *http.Request, what string) {
	s.render(w, r, http.StatusNotFound, "error", page{
		Title: "Not found",
		Data:  errorPage{Status: http.StatusNotFound, Message: what + " not found"},
	})
}

func client(r *http.Request) analytics.Client {
	return analytics.Client{IP: utils.ClientIP(r), UserAgent: r.UserAgent()}
}

// Home lists projects and articles, loaded concurrently. A failure in one
// list does not hide the other.
func (s *Site) Home(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), content.Timeout)
	defer cancel()

	var (
		prj             []models.Project
		arts            []models.Article
		prjErr, artsErr error
	)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		prj, prjErr = s.svc.Projects.List(ctx)
	}()
	go func() {
		defer wg.Done()
		arts, artsErr = s.svc.Articles.List(ctx)
	}()
	wg.Wait()
	s.logLoad("projects", prjErr)
	s.logLoad("articles", artsErr)

	s.svc.Tracker.RecordAsync(r.Context(), models.SubjectVisit, "", client(r))
	s.render(w, r, http.StatusOK, "home", page{
		Data: struct {
			Projects listState[models.Project]
			Articles listState[models.Article]
		}{
			newListState(prj, prjErr, "No projects yet."),
			newListState(arts, artsErr, "No articles yet."),
		},
	})
}

func (s *Site) logLoad(what string, err error) {
	if err != nil {
		s.log.Error("[site] list load failed", "list", what, "error", err)
	}
}

func (s *Site) Notes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), content.Timeout)
	defer cancel()

	all, err := s.svc.Notes.List(ctx)
	s.logLoad("notes", err)
	s.render(w, r, http.StatusOK, "notes", page{Title: "Notes", Data: newListState(all, err, "No notes yet.")})
}

func (s *Site) About(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), content.Timeout)
	defer cancel()

	data := struct {
		Profile *models.About
		Err     string
	}{}
	a, err := s.svc.About.Get(ctx)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		data.Err = "Profile coming soon."
	case err != nil:
		s.logLoad("about", err)
		data.Err = "Could not load content. Please try again later."
	default:
		data.Profile = &a
	}
	s.render(w, r, http.StatusOK, "about", page{Title: "About", Data: data})
}

// detail loads a document for a detail page. When loading fails it returns
// the sample document if sample content is enabled, or ok=false after
// writing a 404.
func detail[T any](s *Site, w http.ResponseWriter, r *http.Request, what string, load func(context.Context) (T, error), sample func(time.Time) T) (doc T, notice string, ok bool) {
	ctx, cancel := context.WithTimeout(r.Context(), content.Timeout)
	defer cancel()

	doc, err := load(ctx)
	if err == nil {
		return doc, "", true
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		s.log.Error("[site] detail load failed", "page", what, "path", r.URL.Path, "error", err)
	}
	if s.opts.ShowSampleContent {
		return sample(s.opts.Now().UTC()), sampleNotice, true
	}
	s.notFound(w, r, what)
	return doc, "", false
}

func (s *Site) Article(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	a, notice, ok := detail(s, w, r, "Article", func(ctx context.Context) (models.Article, error) {
		return s.svc.Articles.Get(ctx, id)
	}, sampleArticle)
	if !ok {
		return
	}
	if notice == "" {
		s.svc.Tracker.RecordAsync(r.Context(), models.SubjectArticle, a.ID, client(r))
	}
	body, err := s.opts.Renderer.RenderAll(r.Context(), a.Blocks)
	if err != nil {
		s.log.Error("[Article] block render failed", "id", id, "error", err)
	}
	s.render(w, r, http.StatusOK, "article", page{Title: a.Title, Notice: notice, Body: body, Data: a})
}

func (s *Site) Note(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	n, notice, ok := detail(s, w, r, "Note", func(ctx context.Context) (models.Note, error) {
		return s.svc.Notes.Get(ctx, id)
	}, sampleNote)
	if !ok {
		return
	}
	if notice == "" {
		s.svc.Tracker.RecordAsync(r.Context(), models.SubjectNote, n.ID, client(r))
	}
	body, err := s.opts.Renderer.RenderAll(r.Context(), n.Blocks)
	if err != nil {
		s.log.Error("[Note] block render failed", "id", id, "error", err)
	}
	s.render(w, r, http.StatusOK, "note", page{Title: n.Title, Notice: notice, Body: body, Data: n})
}

func (s *Site) Project(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	p, notice, ok := detail(s, w, r, "Project", func(ctx context.Context) (models.Project, error) {
		return s.svc.Projects.Get(ctx, id)
	}, sampleProject)
	if !ok {
		return
	}
	if notice == "" {
		s.svc.Tracker.RecordAsync(r.Context(), models.SubjectProject, p.ID, client(r))
	}
	var body template.HTML
	if p.ImageURL != "" {
		cover := blocks.Block{ID: p.ID + "-cover", Kind: blocks.Image, Content: p.ImageURL, Metadata: &blocks.Metadata{Alt: p.Title}}
		var err error
		if body, err = s.opts.Renderer.Render(r.Context(), cover); err != nil {
			s.log.Error("[Project] cover render failed", "id", id, "error", err)
		}
	}
	s.render(w, r, http.StatusOK, "project", page{Title: p.Title, Notice: notice, Body: body, Data: p})
}

type contactPage struct {
	Form      contact.Submission
	Err       string
	Sent      bool
	MaxLength int
}

func (s *Site) ContactForm(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.render(w, r, http.StatusOK, "contact", page{Title: "Contact", Data: contactPage{MaxLength: contact.MaxMessageLength}})
}

// ContactSubmit handles the form post for browsers without JavaScript.
func (s *Site) ContactSubmit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	data := contactPage{MaxLength: contact.MaxMessageLength}
	if err := r.ParseForm(); err != nil {
		data.Err = "Invalid form submission"
		s.render(w, r, http.StatusBadRequest, "contact", page{Title: "Contact", Data: data})
		return
	}
	data.Form = contact.Submission{
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Message: r.PostFormValue("message"),
	}

	ctx, cancel := context.WithTimeout(r.Context(), content.Timeout)
	defer cancel()
	if _, err := s.svc.Contact.Submit(ctx, data.Form); err != nil {
		status := apperr.Status(err)
		if status >= http.StatusInternalServerError {
			s.log.Error("[ContactSubmit] store failed", "error", err)
		}
		data.Err = apperr.Message(err)
		s.render(w, r, status, "contact", page{Title: "Contact", Data: data})
		return
	}
	data.Sent = true
	s.render(w, r, http.StatusOK, "contact", page{Title: "Contact", Data: data})
}
