package blocks

import "strings"

var headingKinds = map[string]Kind{"#": H1, "##": H2, "###": H3, "####": H4}

// FromLegacy splits a flat markdown-style body into blocks: "#" to "####"
// lines become headings, ``` fences become code blocks (the fence suffix is
// the language), "> " lines become quotes and blank-line separated text
// becomes paragraphs.
func FromLegacy(body string) []Block {
	var (
		out    []Block
		para   []string
		code   []string
		lang   string
		fenced bool
	)
	add := func(k Kind, content string, m *Metadata) {
		out = append(out, Block{ID: NewID(), Kind: k, Content: content, Metadata: m})
	}
	flush := func() {
		if len(para) > 0 {
			add(Paragraph, strings.Join(para, "\n"), nil)
			para = nil
		}
	}

	for _, line := range strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(line)
		if fenced {
			if strings.HasPrefix(trimmed, "```") {
				add(Code, strings.Join(code, "\n"), &Metadata{Language: lang})
				code, lang, fenced = nil, "", false
				continue
			}
			code = append(code, line)
			continue
		}
		switch {
		case strings.HasPrefix(trimmed, "```"):
			flush()
			fenced = true
			lang = strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
			if lang == "" {
				lang = CodeLanguages[0]
			}
		case trimmed == "":
			flush()
		case strings.HasPrefix(trimmed, "> "):
			flush()
			add(Quote, strings.TrimPrefix(trimmed, "> "), &Metadata{})
		default:
			marks, text, ok := strings.Cut(trimmed, " ")
			if k, heading := headingKinds[marks]; ok && heading {
				flush()
				add(k, strings.TrimSpace(text), nil)
				continue
			}
			para = append(para, trimmed)
		}
	}
	if fenced {
		add(Code, strings.Join(code, "\n"), &Metadata{Language: lang})
	}
	flush()
	return out
}
