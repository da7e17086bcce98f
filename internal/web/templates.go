package web

import (
	"embed"
	"html/template"
	"io/fs"
	"path"
	"strconv"

	"github.com/shopspring/decimal"

	"condo/internal/logs"
)

//go:embed templates/*.tmpl
var tplFS embed.FS

// набор готовых шаблонов по страницам (ключ = имя файла страницы, напр. "contracts_index.tmpl")
type pageTemplates map[string]*template.Template

const dateLayout = "2006-01-02"

var funcs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"date":  formatDate,
	"sameID": func(id uint, raw string) bool {
		return raw != "" && strconv.FormatUint(uint64(id), 10) == raw
	},
}

func parseTemplates() pageTemplates {
	all, err := fs.Glob(tplFS, "templates/*.tmpl")
	if err != nil {
		logs.Logger.Fatalf("web: glob templates failed: %v", err)
	}
	if len(all) == 0 {
		logs.Logger.Fatal("web: no templates found in embed FS")
	}

	// layout + конкретная страница
	out := make(pageTemplates)
	for _, f := range all {
		if path.Base(f) == "layout.tmpl" {
			continue
		}
		t := template.New("layout").Funcs(funcs)
		if _, err := t.ParseFS(tplFS, "templates/layout.tmpl", f); err != nil {
			logs.Logger.Fatalf("web: parse %s: %v", f, err)
		}
		out[path.Base(f)] = t
	}
	return out
}
