package blocks

// Kind discriminates the block variants. The wire name is "type".
type Kind string

const (
	H1        Kind = "h1"
	H2        Kind = "h2"
	H3        Kind = "h3"
	H4        Kind = "h4"
	Paragraph Kind = "paragraph"
	Image     Kind = "image"
	ImageGrid Kind = "image-grid"
	Code      Kind = "code"
	Quote     Kind = "quote"
	TwoColumn Kind = "two-column"
	Video     Kind = "video"
	YouTube   Kind = "youtube"
	LiveCode  Kind = "strudel"
	Title     Kind = "title"
)

// AllKinds is the closed set of block kinds, in editor menu order.
var AllKinds = []Kind{H1, H2, H3, H4, Paragraph, Image, ImageGrid, Code, Quote, TwoColumn, Video, YouTube, LiveCode, Title}

// ArticleKinds may appear in an article body.
var ArticleKinds = []Kind{H1, H2, H3, H4, Paragraph, Image, ImageGrid, Code, Quote, TwoColumn, Video, YouTube, LiveCode}

// NoteKinds may appear in a note body.
var NoteKinds = []Kind{Title, Paragraph, Image, Code, Quote}

// CodeLanguages are offered by the editor for code blocks.
var CodeLanguages = []string{"javascript", "typescript", "python", "go", "bash", "json"}

// Field names an editable attribute of a block.
type Field string

const (
	FieldContent  Field = "content"
	FieldAlt      Field = "alt"
	FieldCaption  Field = "caption"
	FieldLanguage Field = "language"
	FieldLayout   Field = "layout"
	FieldImages   Field = "images"
	FieldVideoURL Field = "videoUrl"
	FieldTitle    Field = "title"
)

type kindSpec struct {
	label    string
	fields   []Field
	defaults func() Metadata
	template string
}

func noMetadata() Metadata { return Metadata{} }

// kindSpecs is the single registry for per-kind behaviour. Every kind in
// AllKinds must have an entry with a label, a field set and a template;
// kind_test.go enforces it.
var kindSpecs = map[Kind]kindSpec{
	H1:        {label: "Heading 1", fields: []Field{FieldContent}, defaults: noMetadata, template: "h1"},
	H2:        {label: "Heading 2", fields: []Field{FieldContent}, defaults: noMetadata, template: "h2"},
	H3:        {label: "Heading 3", fields: []Field{FieldContent}, defaults: noMetadata, template: "h3"},
	H4:        {label: "Heading 4", fields: []Field{FieldContent}, defaults: noMetadata, template: "h4"},
	Paragraph: {label: "Paragraph", fields: []Field{FieldContent}, defaults: noMetadata, template: "paragraph"},
	Image:     {label: "Image", fields: []Field{FieldContent, FieldAlt, FieldCaption}, defaults: noMetadata, template: "image"},
	ImageGrid: {
		label:  "Image Grid",
		fields: []Field{FieldLayout, FieldImages},
		defaults: func() Metadata {
			return Metadata{Images: []GridImage{}, Layout: LayoutGrid2}
		},
		template: "image-grid",
	},
	Code:      {label: "Code", fields: []Field{FieldContent, FieldLanguage}, defaults: noMetadata, template: "code"},
	Quote:     {label: "Quote", fields: []Field{FieldContent, FieldCaption}, defaults: noMetadata, template: "quote"},
	TwoColumn: {label: "Two Columns", fields: []Field{FieldContent, FieldCaption}, defaults: noMetadata, template: "two-column"},
	Video:     {label: "Video", fields: []Field{FieldVideoURL, FieldTitle, FieldCaption}, defaults: noMetadata, template: "video"},
	YouTube:   {label: "YouTube", fields: []Field{FieldContent, FieldTitle}, defaults: noMetadata, template: "youtube"},
	LiveCode:  {label: "Strudel Pattern", fields: []Field{FieldContent, FieldTitle}, defaults: noMetadata, template: "strudel"},
	Title:     {label: "Title", fields: []Field{FieldContent}, defaults: noMetadata, template: "title"},
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	_, ok := kindSpecs[k]
	return ok
}

func (k Kind) Label() string { return kindSpecs[k].label }

// Fields is the set of attributes the editor exposes for k. Unknown kinds expose nothing.
func Fields(k Kind) []Field {
	spec, ok := kindSpecs[k]
	if !ok {
		return nil
	}
	return append([]Field(nil), spec.fields...)
}

// DefaultMetadata returns fresh default metadata for a new block of kind k.
func DefaultMetadata(k Kind) Metadata {
	spec, ok := kindSpecs[k]
	if !ok || spec.defaults == nil {
		return Metadata{}
	}
	return spec.defaults()
}

// Allowed reports whether k is in set.
func Allowed(k Kind, set []Kind) bool {
	for _, s := range set {
		if s == k {
			return true
		}
	}
	return false
}

// KindInfo describes one kind for the admin editor.
type KindInfo struct {
	Kind     Kind     `json:"type"`
	Label    string   `json:"label"`
	Fields   []Field  `json:"fields"`
	Defaults Metadata `json:"defaults"`
}

// Describe lists set with labels, field sets and default metadata.
func Describe(set []Kind) []KindInfo {
	out := make([]KindInfo, 0, len(set))
	for _, k := range set {
		out = append(out, KindInfo{Kind: k, Label: k.Label(), Fields: Fields(k), Defaults: DefaultMetadata(k)})
	}
	return out
}
