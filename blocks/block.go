// Package blocks implements the typed content blocks that make up article
// and note bodies, the in-memory editor over a block sequence and the HTML
// renderer.
package blocks

import (
	"strings"

	"github.com/oklog/ulid/v2"
)

// Layout is the column hint of an image grid.
type Layout string

const (
	LayoutSingle Layout = "single"
	LayoutGrid2  Layout = "grid-2"
	LayoutGrid3  Layout = "grid-3"
	LayoutGrid4  Layout = "grid-4"
)

// Columns returns the column count for l; anything unrecognised is a single column.
func (l Layout) Columns() int {
	switch l {
	case LayoutGrid2:
		return 2
	case LayoutGrid3:
		return 3
	case LayoutGrid4:
		return 4
	}
	return 1
}

type GridImage struct {
	URL     string `json:"url" bson:"url"`
	Alt     string `json:"alt" bson:"alt"`
	Caption string `json:"caption" bson:"caption"`
}

// Metadata is the kind-dependent attribute bag. Each field is only
// meaningful for the kinds listed in the kind registry.
type Metadata struct {
	Alt      string      `json:"alt,omitempty" bson:"alt,omitempty"`
	Caption  string      `json:"caption,omitempty" bson:"caption,omitempty"`
	Language string      `json:"language,omitempty" bson:"language,omitempty"`
	Layout   Layout      `json:"layout,omitempty" bson:"layout,omitempty"`
	Images   []GridImage `json:"images,omitempty" bson:"images,omitempty"`
	VideoURL string      `json:"videoUrl,omitempty" bson:"videoUrl,omitempty"`
	Title    string      `json:"title,omitempty" bson:"title,omitempty"`
}

func (m Metadata) clone() Metadata {
	if m.Images != nil {
		m.Images = append([]GridImage{}, m.Images...)
	}
	return m
}

type Block struct {
	ID       string    `json:"id" bson:"id"`
	Kind     Kind      `json:"type" bson:"type"`
	Content  string    `json:"content" bson:"content"`
	Metadata *Metadata `json:"metadata,omitempty" bson:"metadata,omitempty"`
}

// Meta returns the block metadata, or the zero value when absent.
func (b Block) Meta() Metadata {
	if b.Metadata == nil {
		return Metadata{}
	}
	return *b.Metadata
}

// Clone returns a deep copy of b.
func (b Block) Clone() Block {
	if b.Metadata != nil {
		m := b.Metadata.clone()
		b.Metadata = &m
	}
	return b
}

// New returns an empty block of kind k with a fresh id and default metadata.
func New(k Kind) Block {
	m := DefaultMetadata(k)
	return Block{ID: NewID(), Kind: k, Metadata: &m}
}

// NewID returns a process-unique, time-ordered block id.
func NewID() string {
	return "block-" + strings.ToLower(ulid.Make().String())
}

// CloneAll deep-copies a block sequence.
func CloneAll(seq []Block) []Block {
	if seq == nil {
		return nil
	}
	out := make([]Block, len(seq))
	for i, b := range seq {
		out[i] = b.Clone()
	}
	return out
}

// EnsureIDs assigns fresh ids to blocks that arrive without one.
func EnsureIDs(seq []Block) []Block {
	out := CloneAll(seq)
	for i := range out {
		if strings.TrimSpace(out[i].ID) == "" {
			out[i].ID = NewID()
		}
	}
	return out
}

// Validate returns the first block whose kind is not in set.
func Validate(seq []Block, set []Kind) (Block, bool) {
	for _, b := range seq {
		if !Allowed(b.Kind, set) {
			return b, false
		}
	}
	return Block{}, true
}
