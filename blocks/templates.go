package blocks

import "html/template"

const blockTemplates = `
{{define "h1"}}<h1 class="block-heading text-4xl font-bold">{{.Content}}</h1>{{end}}
{{define "h2"}}<h2 class="block-heading text-3xl font-bold">{{.Content}}</h2>{{end}}
{{define "h3"}}<h3 class="block-heading text-2xl font-semibold">{{.Content}}</h3>{{end}}
{{define "h4"}}<h4 class="block-heading text-xl font-semibold">{{.Content}}</h4>{{end}}
{{define "title"}}<h2 class="block-title text-2xl font-bold">{{.Content}}</h2>{{end}}
{{define "paragraph"}}<p class="block-paragraph whitespace-pre-line">{{.Content}}</p>{{end}}
{{define "picture"}}<figure class="block-image">
{{- if .Missing}}<div class="image-fallback" role="img" aria-label="{{.Alt}}"><span>{{.Fallback}}</span></div>
{{- else}}<img src="{{.URL}}" alt="{{.Alt}}" loading="lazy" onerror="this.hidden=true;this.nextElementSibling.hidden=false"><div class="image-fallback" role="img" aria-label="{{.Alt}}" hidden><span>{{.Fallback}}</span></div>
{{- end}}{{with .Caption}}<figcaption>{{.}}</figcaption>{{end}}</figure>{{end}}
{{define "image"}}{{range .Images}}{{template "picture" .}}{{end}}{{end}}
{{define "image-grid"}}<div class="block-image-grid grid gap-4 {{.GridClass}}" data-columns="{{.Columns}}">{{range .Images}}{{template "picture" .}}{{end}}</div>{{end}}
{{define "code"}}<pre class="block-code"><code{{with .Meta.Language}} class="language-{{.}}"{{end}}>{{.Content}}</code></pre>{{end}}
{{define "quote"}}<blockquote class="block-quote"><p>{{.Content}}</p>{{with .Meta.Caption}}<cite>{{.}}</cite>{{end}}</blockquote>{{end}}
{{define "two-column"}}<div class="block-two-column grid grid-cols-1 md:grid-cols-2 gap-8"><div>{{range .Left}}<p>{{.}}</p>{{end}}</div><div>{{range .Right}}<p>{{.}}</p>{{end}}</div></div>{{end}}
{{define "embed"}}<figure class="block-video">
{{- if .Embed}}<div class="aspect-video"><iframe src="{{.Embed}}" title="{{or .Meta.Title "Embedded video"}}" allow="accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture" allowfullscreen loading="lazy"></iframe></div>
{{- else if .Source}}<video controls preload="metadata" src="{{.Source}}"></video>
{{- else}}<div class="embed-unavailable"><span>Video not available</span></div>
{{- end}}{{with .Meta.Caption}}<figcaption>{{.}}</figcaption>{{end}}</figure>{{end}}
{{define "video"}}{{template "embed" .}}{{end}}
{{define "youtube"}}{{template "embed" .}}{{end}}
{{define "strudel"}}<div class="block-live-code" data-runtime="strudel" data-block="{{.ID}}">{{with .Meta.Title}}<h4>{{.}}</h4>{{end}}<pre><code class="language-javascript">{{.Content}}</code></pre><div class="live-code-controls"><button type="button" data-action="play">Play</button><button type="button" data-action="stop">Stop</button></div></div>{{end}}
`

var templates = template.Must(template.New("blocks").Parse(blockTemplates))
