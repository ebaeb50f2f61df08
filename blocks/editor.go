package blocks

import (
	"fmt"
	"reflect"
)

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Patch is a partial block update. Nil fields are left alone; a non-nil
// Metadata replaces the block's metadata as a whole.
type Patch struct {
	Kind     *Kind     `json:"type,omitempty"`
	Content  *string   `json:"content,omitempty"`
	Metadata *Metadata `json:"metadata,omitempty"`
}

// ImagePatch is a partial update of one image-grid entry.
type ImagePatch struct {
	URL     *string `json:"url,omitempty"`
	Alt     *string `json:"alt,omitempty"`
	Caption *string `json:"caption,omitempty"`
}

// Editor transforms a block sequence in memory. Each call that changes the
// sequence hands a copy of the complete new sequence to onChange. Nothing is
// persisted here; the owner saves when it chooses to.
//
// Every operation is total: unknown ids, out-of-range indices and moves past
// either end leave the sequence untouched and do not notify.
type Editor struct {
	blocks   []Block
	allowed  []Kind
	onChange func([]Block)
}

// NewEditor starts from a copy of seq. allowed restricts AddBlock; nil allows every kind.
func NewEditor(seq []Block, allowed []Kind, onChange func([]Block)) *Editor {
	if allowed == nil {
		allowed = AllKinds
	}
	return &Editor{blocks: CloneAll(seq), allowed: allowed, onChange: onChange}
}

// Blocks returns a copy of the current sequence.
func (e *Editor) Blocks() []Block {
	return CloneAll(e.blocks)
}

func (e *Editor) commit(next []Block) {
	if reflect.DeepEqual(next, e.blocks) {
		return
	}
	e.blocks = next
	if e.onChange != nil {
		e.onChange(CloneAll(next))
	}
}

func (e *Editor) index(id string) int {
	for i, b := range e.blocks {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// AddBlock appends an empty block of kind k and returns its id, or "" when
// k is not allowed in this editor.
func (e *Editor) AddBlock(k Kind) string {
	if !Allowed(k, e.allowed) {
		return ""
	}
	b := New(k)
	next := append(CloneAll(e.blocks), b)
	e.commit(next)
	return b.ID
}

// UpdateBlock merges p into the block with the given id.
func (e *Editor) UpdateBlock(id string, p Patch) {
	i := e.index(id)
	if i < 0 {
		return
	}
	next := CloneAll(e.blocks)
	b := &next[i]
	if p.Kind != nil && p.Kind.Valid() {
		b.Kind = *p.Kind
	}
	if p.Content != nil {
		b.Content = *p.Content
	}
	if p.Metadata != nil {
		m := p.Metadata.clone()
		b.Metadata = &m
	}
	e.commit(next)
}

// MoveBlock swaps the block with its neighbour in direction d.
func (e *Editor) MoveBlock(id string, d Direction) {
	i := e.index(id)
	if i < 0 {
		return
	}
	j := i
	switch d {
	case Up:
		j = i - 1
	case Down:
		j = i + 1
	}
	if j == i || j < 0 || j >= len(e.blocks) {
		return
	}
	next := CloneAll(e.blocks)
	next[i], next[j] = next[j], next[i]
	e.commit(next)
}

// DeleteBlock removes the block with the given id.
func (e *Editor) DeleteBlock(id string) {
	i := e.index(id)
	if i < 0 {
		return
	}
	next := make([]Block, 0, len(e.blocks)-1)
	for j, b := range e.blocks {
		if j != i {
			next = append(next, b.Clone())
		}
	}
	e.commit(next)
}

// AddGridImage appends an empty entry to an image-grid block.
func (e *Editor) AddGridImage(id string) {
	e.editGrid(id, func(images []GridImage) []GridImage {
		return append(images, GridImage{})
	})
}

// UpdateGridImage merges p into the grid entry at index.
func (e *Editor) UpdateGridImage(id string, index int, p ImagePatch) {
	e.editGrid(id, func(images []GridImage) []GridImage {
		if index < 0 || index >= len(images) {
			return images
		}
		img := &images[index]
		if p.URL != nil {
			img.URL = *p.URL
		}
		if p.Alt != nil {
			img.Alt = *p.Alt
		}
		if p.Caption != nil {
			img.Caption = *p.Caption
		}
		return images
	})
}

// RemoveGridImage drops the grid entry at index.
func (e *Editor) RemoveGridImage(id string, index int) {
	e.editGrid(id, func(images []GridImage) []GridImage {
		if index < 0 || index >= len(images) {
			return images
		}
		return append(images[:index], images[index+1:]...)
	})
}

func (e *Editor) editGrid(id string, fn func([]GridImage) []GridImage) {
	i := e.index(id)
	if i < 0 || e.blocks[i].Kind != ImageGrid {
		return
	}
	next := CloneAll(e.blocks)
	m := next[i].Meta().clone()
	if m.Images == nil {
		m.Images = []GridImage{}
	}
	m.Images = fn(m.Images)
	next[i].Metadata = &m
	e.commit(next)
}

// Op is one editor call in a batch, as sent by the admin dashboard.
type Op struct {
	Op        string      `json:"op"`
	ID        string      `json:"id,omitempty"`
	Kind      Kind        `json:"type,omitempty"`
	Direction Direction   `json:"direction,omitempty"`
	Index     int         `json:"index,omitempty"`
	Patch     *Patch      `json:"patch,omitempty"`
	Image     *ImagePatch `json:"image,omitempty"`
}

// Apply runs ops against e in order. An "add" op applies its Patch to the
// block it created. Only an unrecognised op name is an error; everything
// else follows the editor's no-op rules.
func Apply(e *Editor, ops []Op) error {
	for n, op := range ops {
		switch op.Op {
		case "add":
			id := e.AddBlock(op.Kind)
			if id != "" && op.Patch != nil {
				e.UpdateBlock(id, *op.Patch)
			}
		case "update":
			if op.Patch != nil {
				e.UpdateBlock(op.ID, *op.Patch)
			}
		case "move":
			e.MoveBlock(op.ID, op.Direction)
		case "delete":
			e.DeleteBlock(op.ID)
		case "grid-add":
			e.AddGridImage(op.ID)
		case "grid-update":
			if op.Image != nil {
				e.UpdateGridImage(op.ID, op.Index, *op.Image)
			}
		case "grid-remove":
			e.RemoveGridImage(op.ID, op.Index)
		default:
			return fmt.Errorf("op %d: unknown operation %q", n, op.Op)
		}
	}
	return nil
}
