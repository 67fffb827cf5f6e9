// Package templates renders the HTML pages and HTMX fragments.
//
// Pages are html/template files embedded from html/. Each page file is parsed
// on top of layout.html and must define "title" and "content"; any other
// blocks it defines can be rendered alone as HTMX fragments.
package templates

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"bidestimator/services"
)

//go:embed html/*.html
var files embed.FS

var funcs = template.FuncMap{
	"currency": services.FormatCurrency,
	"percent":  services.FormatPercent,
	"num":      formatNumber,
	"rate":     formatRate,
	"navClass": navClass,
	"fieldErr": func(errs map[string]string, key string) string { return errs[key] },
	"hasPrefix": strings.HasPrefix,
}

var pages = mustParsePages()

func mustParsePages() map[string]*template.Template {
	base := template.Must(template.New("base").Funcs(funcs).ParseFS(files, "html/layout.html"))

	names, err := fs.Glob(files, "html/*.html")
	if err != nil {
		panic(err)
	}

	out := make(map[string]*template.Template, len(names))
	for _, name := range names {
		if name == "html/layout.html" {
			continue
		}
		t := template.Must(template.Must(base.Clone()).ParseFS(files, name))
		out[strings.TrimSuffix(path.Base(name), ".html")] = t
	}
	return out
}

type layoutData struct {
	Header  HeaderData
	Sidebar SidebarData
	Data    any
}

// page renders a full document: layout, navigation and the page's content block.
func page(name string, data any, header HeaderData, sidebar SidebarData) templ.Component {
	return templ.FromGoHTML(lookup(name, "layout"), layoutData{
		Header:  header,
		Sidebar: sidebar,
		Data:    data,
	})
}

// fragment renders one named block of a page, for HTMX swaps.
func fragment(name, block string, data any) templ.Component {
	return templ.FromGoHTML(lookup(name, block), data)
}

func lookup(name, block string) *template.Template {
	set, ok := pages[name]
	if !ok {
		panic(fmt.Sprintf("templates: unknown page %q", name))
	}
	t := set.Lookup(block)
	if t == nil {
		panic(fmt.Sprintf("templates: page %q has no block %q", name, block))
	}
	return t
}

// formatNumber prints quantities and hours without trailing zeros.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatRate is the input value for an optional labor rate; empty means inherit.
func formatRate(r *float64) string {
	if r == nil {
		return ""
	}
	return formatNumber(*r)
}

func navClass(activePath, prefix string) string {
	if activePath == prefix || strings.HasPrefix(activePath, prefix+"/") {
		return "nav-link active"
	}
	return "nav-link"
}
