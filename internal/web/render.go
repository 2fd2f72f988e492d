package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"unicode/utf8"

	"kuralhub/internal/browse"
	"kuralhub/internal/catalog"
	"kuralhub/pkg/models"
)

//go:embed templates/*.html static/*.js static/*.css
var assetsFS embed.FS

// Highlight HTML-escapes text and wraps every case-insensitive occurrence
// of query in a highlight span. Matching uses the same case folding as the
// filter engine, so anything that matched a search is also highlighted.
func Highlight(text, query string) template.HTML {
	q := catalog.Fold(strings.TrimSpace(query))
	if q == "" {
		return template.HTML(template.HTMLEscapeString(text))
	}

	// fold rune by rune, remembering the source rune of every folded byte
	var folded strings.Builder
	var starts, ends []int
	for i := 0; i < len(text); {
		_, size := utf8.DecodeRuneInString(text[i:])
		f := catalog.Fold(text[i : i+size])
		for j := 0; j < len(f); j++ {
			starts = append(starts, i)
			ends = append(ends, i+size)
		}
		folded.WriteString(f)
		i += size
	}
	haystack := folded.String()

	var b strings.Builder
	last := 0
	for off := 0; off < len(haystack); {
		k := strings.Index(haystack[off:], q)
		if k < 0 {
			break
		}
		from, to := off+k, off+k+len(q)
		off = to
		start, end := starts[from], ends[to-1]
		if start < last {
			start = last
		}
		if end <= start {
			continue
		}
		b.WriteString(template.HTMLEscapeString(text[last:start]))
		b.WriteString(`<span class="highlight">`)
		b.WriteString(template.HTMLEscapeString(text[start:end]))
		b.WriteString(`</span>`)
		last = end
	}
	b.WriteString(template.HTMLEscapeString(text[last:]))
	return template.HTML(b.String())
}

type kuralVM struct {
	ID        string
	Number    string
	Text      template.HTML
	GlossTa   string
	MeaningEn string
	TextEn    string
}

type groupVM struct {
	Index    int
	Title    template.HTML
	Count    int
	Expanded bool
	Kurals   []kuralVM
}

type resultsVM struct {
	Filtering bool
	Empty     bool
	Kurals    int
	Chapters  int
	Groups    []groupVM
}

type pageVM struct {
	Theme   string
	Status  browse.Status
	Stats   models.Stats
	Filter  catalog.Filter
	Query   string
	Options catalog.Options
	Results resultsVM
	WSPath  string
}

// buildResults turns a filter result into the accordion view model. The
// first chapter opens when searching or narrowed to a section or chapter.
func buildResults(res browse.Result) resultsVM {
	f := res.Filter
	expandFirst := f.Query != "" || f.Section != "" || f.Chapter != ""

	vm := resultsVM{
		Filtering: f.Active(),
		Empty:     res.Empty(),
		Kurals:    res.Kurals,
		Chapters:  res.Chapters,
		Groups:    make([]groupVM, 0, len(res.Groups)),
	}
	for i, g := range res.Groups {
		gv := groupVM{
			Index:    i,
			Title:    Highlight(g.Chapter, f.Query),
			Count:    len(g.Kurals),
			Expanded: expandFirst && i == 0,
			Kurals:   make([]kuralVM, 0, len(g.Kurals)),
		}
		for j, k := range g.Kurals {
			gv.Kurals = append(gv.Kurals, kuralVM{
				ID:        fmt.Sprintf("explanation-%d-%d", i, j),
				Number:    k.Number,
				Text:      Highlight(k.Text, f.Query),
				GlossTa:   k.GlossTa,
				MeaningEn: k.MeaningEn,
				TextEn:    k.TextEn,
			})
		}
		vm.Groups = append(vm.Groups, gv)
	}
	return vm
}

// Renderer executes the embedded templates.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("").ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

func (r *Renderer) Template() *template.Template { return r.tmpl }

// Results renders the accordion fragment for res.
func (r *Renderer) Results(res browse.Result) (string, error) {
	var b bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&b, "results", buildResults(res)); err != nil {
		return "", fmt.Errorf("render results: %w", err)
	}
	return b.String(), nil
}
