package blocks

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"math"
	"net/url"
	"regexp"
	"strings"
)

// Probe reports whether an image URL can currently be loaded.
type Probe interface {
	Available(ctx context.Context, rawURL string) bool
}

// Renderer maps blocks to HTML. An image the probe reports as unavailable,
// or whose URL is empty or unusable, is rendered as a placeholder carrying
// FallbackText. Images that pass still swap to the same placeholder in the
// browser if they fail to load.
type Renderer struct {
	FallbackText string
	Probe        Probe
}

func NewRenderer(fallback string, probe Probe) *Renderer {
	if fallback == "" {
		fallback = "Image not available"
	}
	return &Renderer{FallbackText: fallback, Probe: probe}
}

type imageView struct {
	URL      string
	Alt      string
	Caption  string
	Missing  bool
	Fallback string
}

type blockView struct {
	ID        string
	Content   string
	Meta      Metadata
	Images    []imageView
	GridClass string
	Columns   int
	Left      []string
	Right     []string
	Embed     string
	Source    string
}

// Render returns the HTML for one block. Unknown kinds render as empty output.
func (r *Renderer) Render(ctx context.Context, b Block) (template.HTML, error) {
	spec, ok := kindSpecs[b.Kind]
	if !ok {
		return "", nil
	}
	v := r.view(ctx, b)
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, spec.template, v); err != nil {
		return "", fmt.Errorf("render %s block %s: %w", b.Kind, b.ID, err)
	}
	return template.HTML(buf.String()), nil
}

// RenderAll renders seq in order.
func (r *Renderer) RenderAll(ctx context.Context, seq []Block) (template.HTML, error) {
	var sb strings.Builder
	for _, b := range seq {
		h, err := r.Render(ctx, b)
		if err != nil {
			return "", err
		}
		sb.WriteString(string(h))
	}
	return template.HTML(sb.String()), nil
}

func (r *Renderer) view(ctx context.Context, b Block) blockView {
	m := b.Meta()
	v := blockView{ID: b.ID, Content: b.Content, Meta: m}
	switch b.Kind {
	case Image:
		if strings.TrimSpace(b.Content) != "" {
			v.Images = []imageView{r.image(ctx, b.Content, m.Alt, m.Caption)}
		} else {
			for _, img := range m.Images {
				v.Images = append(v.Images, r.image(ctx, img.URL, img.Alt, img.Caption))
			}
			if len(v.Images) == 0 {
				v.Images = []imageView{r.image(ctx, "", m.Alt, m.Caption)}
			}
		}
	case ImageGrid:
		v.Columns = m.Layout.Columns()
		v.GridClass = GridClass(m.Layout)
		for _, img := range m.Images {
			v.Images = append(v.Images, r.image(ctx, img.URL, img.Alt, img.Caption))
		}
	case TwoColumn:
		v.Left = lines(b.Content)
		v.Right = lines(m.Caption)
	case Video, YouTube:
		src := strings.TrimSpace(m.VideoURL)
		if src == "" {
			src = strings.TrimSpace(b.Content)
		}
		if embed, ok := EmbedURL(src); ok {
			v.Embed = embed
		} else if b.Kind == Video && isHTTP(src) {
			v.Source = src
		}
	}
	return v
}

func (r *Renderer) image(ctx context.Context, raw, alt, caption string) imageView {
	raw = strings.TrimSpace(raw)
	missing := !usableImageURL(raw)
	if !missing && r.Probe != nil && !r.Probe.Available(ctx, raw) {
		missing = true
	}
	return imageView{URL: raw, Alt: alt, Caption: caption, Missing: missing, Fallback: r.FallbackText}
}

func usableImageURL(raw string) bool {
	if raw == "" {
		return false
	}
	if strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//") {
		return true
	}
	return isHTTP(raw)
}

func isHTTP(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// GridClass returns the responsive column classes for a grid layout.
func GridClass(l Layout) string {
	switch l {
	case LayoutGrid2:
		return "grid-cols-1 md:grid-cols-2"
	case LayoutGrid3:
		return "grid-cols-1 md:grid-cols-2 lg:grid-cols-3"
	case LayoutGrid4:
		return "grid-cols-1 md:grid-cols-2 lg:grid-cols-4"
	}
	return "grid-cols-1"
}

func lines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

var youtubeID = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// EmbedURL derives the embeddable player URL for a YouTube link. Accepted
// shapes: youtu.be/<id>, youtube.com/watch?v=<id>, youtube.com/embed/<id>,
// youtube.com/shorts/<id> and youtube.com/live/<id>.
func EmbedURL(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	host = strings.TrimPrefix(host, "m.")
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")

	var id string
	switch host {
	case "youtu.be":
		id = segments[0]
	case "youtube.com", "youtube-nocookie.com", "music.youtube.com":
		switch {
		case u.Path == "/watch" || u.Path == "/watch/":
			id = u.Query().Get("v")
		case len(segments) >= 2 && (segments[0] == "embed" || segments[0] == "shorts" || segments[0] == "live" || segments[0] == "v"):
			id = segments[1]
		}
	}
	if !youtubeID.MatchString(id) {
		return "", false
	}
	return "https://www.youtube.com/embed/" + id, true
}

const wordsPerMinute = 200

// ReadingTime estimates a reading-time label from the text-bearing blocks of seq.
func ReadingTime(seq []Block) string {
	words := 0
	for _, b := range seq {
		switch b.Kind {
		case H1, H2, H3, H4, Title, Paragraph, Quote:
			words += len(strings.Fields(b.Content))
		case TwoColumn:
			words += len(strings.Fields(b.Content)) + len(strings.Fields(b.Meta().Caption))
		}
	}
	minutes := int(math.Ceil(float64(words) / wordsPerMinute))
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}
