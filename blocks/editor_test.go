package blocks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func seed() []Block {
	return []Block{
		{ID: "a", Kind: H1, Content: "Title"},
		{ID: "b", Kind: Paragraph, Content: "Body"},
		{ID: "c", Kind: ImageGrid, Metadata: &Metadata{Layout: LayoutGrid3, Images: []GridImage{{URL: "/one.png"}}}},
	}
}

type recorder struct {
	calls [][]Block
}

func (r *recorder) onChange(seq []Block) { r.calls = append(r.calls, seq) }

func (r *recorder) last(t *testing.T) []Block {
	t.Helper()
	require.NotEmpty(t, r.calls)
	return r.calls[len(r.calls)-1]
}

func TestAddBlock(t *testing.T) {
	rec := &recorder{}
	e := NewEditor(seed(), ArticleKinds, rec.onChange)

	id := e.AddBlock(ImageGrid)
	require.NotEmpty(t, id)

	got := rec.last(t)
	require.Len(t, got, 4)
	added := got[3]
	assert.Equal(t, id, added.ID)
	assert.Equal(t, ImageGrid, added.Kind)
	assert.Empty(t, added.Content)
	assert.Equal(t, LayoutGrid2, added.Meta().Layout)
	assert.Empty(t, added.Meta().Images)
}

func TestAddBlockRejectsKindOutsideSet(t *testing.T) {
	rec := &recorder{}
	e := NewEditor(nil, NoteKinds, rec.onChange)

	assert.Empty(t, e.AddBlock(ImageGrid))
	assert.Empty(t, rec.calls)
	assert.Empty(t, e.Blocks())
}

func TestDeletedIDIsNeverReused(t *testing.T) {
	e := NewEditor(nil, nil, nil)
	seen := map[string]bool{}
	for range 50 {
		id := e.AddBlock(Paragraph)
		require.False(t, seen[id], "id %s reused", id)
		seen[id] = true
		e.DeleteBlock(id)
	}
	assert.Empty(t, e.Blocks())
}

func TestUpdateBlock(t *testing.T) {
	rec := &recorder{}
	e := NewEditor(seed(), nil, rec.onChange)

	e.UpdateBlock("b", Patch{Content: ptr("Changed")})
	got := rec.last(t)
	assert.Equal(t, "Changed", got[1].Content)
	assert.Equal(t, Paragraph, got[1].Kind)

	e.UpdateBlock("b", Patch{Kind: ptr(Quote), Metadata: &Metadata{Caption: "someone"}})
	got = rec.last(t)
	assert.Equal(t, Quote, got[1].Kind)
	assert.Equal(t, "someone", got[1].Meta().Caption)
	assert.Equal(t, "Changed", got[1].Content)
}

func TestUpdateMissingBlockIsNoop(t *testing.T) {
	rec := &recorder{}
	before := seed()
	e := NewEditor(before, nil, rec.onChange)

	e.UpdateBlock("nope", Patch{Content: ptr("x")})

	assert.Empty(t, rec.calls)
	assert.Equal(t, before, e.Blocks())
}

func TestMoveBlock(t *testing.T) {
	rec := &recorder{}
	e := NewEditor(seed(), nil, rec.onChange)

	e.MoveBlock("b", Up)
	got := rec.last(t)
	assert.Equal(t, []string{"b", "a", "c"}, ids(got))

	e.MoveBlock("b", Down)
	assert.Equal(t, []string{"a", "b", "c"}, ids(rec.last(t)))
}

func TestMoveAtBoundaryIsNoop(t *testing.T) {
	rec := &recorder{}
	before := seed()
	e := NewEditor(before, nil, rec.onChange)

	e.MoveBlock("a", Up)
	e.MoveBlock("c", Down)
	e.MoveBlock("b", Direction("sideways"))
	e.MoveBlock("missing", Up)

	assert.Empty(t, rec.calls)
	assert.Equal(t, before, e.Blocks())
}

func TestDeleteBlock(t *testing.T) {
	rec := &recorder{}
	e := NewEditor(seed(), nil, rec.onChange)

	e.DeleteBlock("missing")
	assert.Empty(t, rec.calls)

	e.DeleteBlock("a")
	assert.Equal(t, []string{"b", "c"}, ids(rec.last(t)))
}

func TestGridImages(t *testing.T) {
	rec := &recorder{}
	e := NewEditor(seed(), nil, rec.onChange)

	e.AddGridImage("c")
	images := rec.last(t)[2].Meta().Images
	require.Len(t, images, 2)
	assert.Equal(t, GridImage{}, images[1])

	e.UpdateGridImage("c", 1, ImagePatch{URL: ptr("/two.png"), Alt: ptr("second")})
	images = rec.last(t)[2].Meta().Images
	assert.Equal(t, GridImage{URL: "/two.png", Alt: "second"}, images[1])
	assert.Equal(t, LayoutGrid3, rec.last(t)[2].Meta().Layout)

	e.RemoveGridImage("c", 0)
	images = rec.last(t)[2].Meta().Images
	require.Len(t, images, 1)
	assert.Equal(t, "/two.png", images[0].URL)

	calls := len(rec.calls)
	e.UpdateGridImage("c", 7, ImagePatch{URL: ptr("x")})
	e.RemoveGridImage("c", -1)
	e.AddGridImage("a")
	assert.Len(t, rec.calls, calls)
}

func TestCallbackReceivesCopies(t *testing.T) {
	rec := &recorder{}
	e := NewEditor(seed(), nil, rec.onChange)

	e.AddGridImage("c")
	rec.last(t)[2].Metadata.Images[0].URL = "tampered"

	assert.Equal(t, "/one.png", e.Blocks()[2].Meta().Images[0].URL)
}

func TestApply(t *testing.T) {
	e := NewEditor(seed(), ArticleKinds, nil)

	err := Apply(e, []Op{
		{Op: "add", Kind: Code, Patch: &Patch{Content: ptr("fmt.Println()"), Metadata: &Metadata{Language: "go"}}},
		{Op: "move", ID: "a", Direction: Down},
		{Op: "delete", ID: "c"},
		{Op: "update", ID: "missing", Patch: &Patch{Content: ptr("ignored")}},
	})
	require.NoError(t, err)

	got := e.Blocks()
	require.Len(t, got, 3)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "a", got[1].ID)
	assert.Equal(t, Code, got[2].Kind)
	assert.Equal(t, "go", got[2].Meta().Language)

	assert.Error(t, Apply(e, []Op{{Op: "explode"}}))
}

func ids(seq []Block) []string {
	out := make([]string, len(seq))
	for i, b := range seq {
		out[i] = b.ID
	}
	return out
}
