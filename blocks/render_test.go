package blocks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProbe map[string]bool

func (p stubProbe) Available(_ context.Context, u string) bool { return p[u] }

func render(t *testing.T, r *Renderer, b Block) string {
	t.Helper()
	h, err := r.Render(context.Background(), b)
	require.NoError(t, err)
	return string(h)
}

func TestRenderHeadingsAndText(t *testing.T) {
	r := NewRenderer("", nil)

	assert.Equal(t, `<h1 class="block-heading text-4xl font-bold">Hello &lt;world&gt;</h1>`,
		render(t, r, Block{Kind: H1, Content: "Hello <world>"}))
	assert.Contains(t, render(t, r, Block{Kind: H4, Content: "x"}), "<h4")
	assert.Contains(t, render(t, r, Block{Kind: Title, Content: "Note"}), `<h2 class="block-title`)
	assert.Contains(t, render(t, r, Block{Kind: Paragraph, Content: "body"}), "<p class=\"block-paragraph")
	assert.Contains(t, render(t, r, Block{Kind: Quote, Content: "q", Metadata: &Metadata{Caption: "me"}}), "<cite>me</cite>")
}

func TestRenderUnknownKindIsSkipped(t *testing.T) {
	r := NewRenderer("", nil)
	assert.Empty(t, render(t, r, Block{Kind: "marquee", Content: "x"}))

	all, err := r.RenderAll(context.Background(), []Block{
		{Kind: Paragraph, Content: "one"},
		{Kind: "marquee", Content: "two"},
		{Kind: Paragraph, Content: "three"},
	})
	require.NoError(t, err)
	assert.NotContains(t, string(all), "two")
	assert.Contains(t, string(all), "three")
}

func TestRenderToleratesMissingMetadata(t *testing.T) {
	r := NewRenderer("", nil)
	for _, k := range AllKinds {
		_, err := r.Render(context.Background(), Block{ID: "x", Kind: k})
		assert.NoError(t, err, k)
	}
}

func TestRenderBrokenImageShowsFallback(t *testing.T) {
	r := NewRenderer("Picture unavailable", stubProbe{"https://cdn.example/ok.png": true})

	broken := render(t, r, Block{Kind: Image, Content: "https://cdn.example/gone.png", Metadata: &Metadata{Alt: "gone"}})
	assert.Contains(t, broken, "Picture unavailable")
	assert.NotContains(t, broken, "<img")

	ok := render(t, r, Block{Kind: Image, Content: "https://cdn.example/ok.png", Metadata: &Metadata{Caption: "fine"}})
	assert.Contains(t, ok, `<img src="https://cdn.example/ok.png"`)
	assert.Contains(t, ok, "<figcaption>fine</figcaption>")

	empty := render(t, NewRenderer("", nil), Block{Kind: Image})
	assert.Contains(t, empty, "Image not available")
	assert.NotContains(t, empty, "<img")

	scripted := render(t, NewRenderer("", nil), Block{Kind: Image, Content: "javascript:alert(1)"})
	assert.NotContains(t, scripted, "<img")
}

func TestRenderImageFromMetadataImages(t *testing.T) {
	r := NewRenderer("", nil)
	out := render(t, r, Block{Kind: Image, Metadata: &Metadata{Images: []GridImage{{URL: "/a.png"}, {URL: "/b.png"}}}})
	assert.Equal(t, 2, strings.Count(out, "<img "))
}

func TestRenderImageGrid(t *testing.T) {
	r := NewRenderer("", nil)
	out := render(t, r, Block{Kind: ImageGrid, Metadata: &Metadata{
		Layout: LayoutGrid3,
		Images: []GridImage{{URL: "/1.png", Alt: "one", Caption: "first"}, {URL: "/2.png", Alt: "two"}, {URL: "/3.png"}},
	}})
	assert.Contains(t, out, "lg:grid-cols-3")
	assert.Contains(t, out, `data-columns="3"`)
	assert.Equal(t, 3, strings.Count(out, "<img "))
	assert.Contains(t, out, `alt="one"`)
	assert.Contains(t, out, "<figcaption>first</figcaption>")
}

func TestGridClass(t *testing.T) {
	assert.Equal(t, "grid-cols-1", GridClass(LayoutSingle))
	assert.Equal(t, "grid-cols-1 md:grid-cols-2", GridClass(LayoutGrid2))
	assert.Equal(t, "grid-cols-1 md:grid-cols-2 lg:grid-cols-4", GridClass(LayoutGrid4))
	assert.Equal(t, "grid-cols-1", GridClass("weird"))
	assert.Equal(t, 1, Layout("").Columns())
}

func TestRenderCode(t *testing.T) {
	r := NewRenderer("", nil)
	out := render(t, r, Block{Kind: Code, Content: "x := 1 < 2", Metadata: &Metadata{Language: "go"}})
	assert.Contains(t, out, `class="language-go"`)
	assert.Contains(t, out, "x := 1 &lt; 2")

	plain := render(t, r, Block{Kind: Code, Content: "ls"})
	assert.Contains(t, plain, "<code>ls</code>")
}

func TestRenderTwoColumn(t *testing.T) {
	r := NewRenderer("", nil)
	out := render(t, r, Block{Kind: TwoColumn, Content: "left one\nleft two", Metadata: &Metadata{Caption: "right one\n\nright two"}})
	assert.Equal(t, 4, strings.Count(out, "<p>"))
	assert.Contains(t, out, "<p>left two</p>")
	assert.Contains(t, out, "<p>right two</p>")
}

func TestEmbedURL(t *testing.T) {
	want := "https://www.youtube.com/embed/dQw4w9WgXcQ"
	for _, raw := range []string{
		"https://youtu.be/dQw4w9WgXcQ",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s",
		"https://m.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://www.youtube.com/embed/dQw4w9WgXcQ",
		"https://youtube.com/shorts/dQw4w9WgXcQ",
		" https://youtu.be/dQw4w9WgXcQ?si=abc ",
	} {
		got, ok := EmbedURL(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}

	for _, raw := range []string{"", "not a url", "https://vimeo.com/12345", "https://www.youtube.com/watch?v=short", "https://youtube.com/channel/abc"} {
		_, ok := EmbedURL(raw)
		assert.False(t, ok, raw)
	}
}

func TestRenderVideoKinds(t *testing.T) {
	r := NewRenderer("", nil)

	yt := render(t, r, Block{Kind: YouTube, Content: "https://youtu.be/dQw4w9WgXcQ"})
	assert.Contains(t, yt, `src="https://www.youtube.com/embed/dQw4w9WgXcQ"`)

	video := render(t, r, Block{Kind: Video, Metadata: &Metadata{VideoURL: "https://cdn.example/clip.mp4", Caption: "demo"}})
	assert.Contains(t, video, "<video controls")
	assert.Contains(t, video, "<figcaption>demo</figcaption>")

	bad := render(t, r, Block{Kind: YouTube, Content: "https://vimeo.com/1"})
	assert.Contains(t, bad, "Video not available")
	assert.NotContains(t, bad, "<iframe")
}

func TestRenderLiveCode(t *testing.T) {
	r := NewRenderer("", nil)
	out := render(t, r, Block{ID: "blk", Kind: LiveCode, Content: `s("bd sd")`})
	assert.Contains(t, out, `data-runtime="strudel"`)
	assert.Contains(t, out, `data-action="play"`)
	assert.Contains(t, out, `data-action="stop"`)
	assert.Contains(t, out, "s(&#34;bd sd&#34;)")
}

func TestReadingTime(t *testing.T) {
	assert.Equal(t, "1 min read", ReadingTime(nil))
	body := strings.Repeat("word ", 450)
	assert.Equal(t, "3 min read", ReadingTime([]Block{{Kind: Paragraph, Content: body}, {Kind: Code, Content: body}}))
}

func TestHTTPProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ok.png" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewHTTPProbe(srv.URL, time.Second, time.Minute)
	ctx := context.Background()

	assert.True(t, p.Available(ctx, srv.URL+"/ok.png"))
	assert.True(t, p.Available(ctx, "/ok.png"))
	assert.False(t, p.Available(ctx, "/missing.png"))

	srv.Close()
	assert.True(t, p.Available(ctx, "/ok.png"), "cached result expected")
}
