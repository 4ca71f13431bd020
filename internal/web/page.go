package web

import (
	"net/http"
	"net/url"
	"strconv"

	gomponents "maragu.dev/gomponents"
	html "maragu.dev/gomponents/html"

	"github.com/JonMunkholm/datatable/internal/core"
	"github.com/JonMunkholm/datatable/internal/logging"
)

func renderHTML(w http.ResponseWriter, r *http.Request, status int, node gomponents.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := node.Render(w); err != nil {
		logging.FromContext(r.Context()).Error("html render error", "error", err)
	}
}

// tablePage renders the derived view. alert is shown above the table when
// the last action failed.
func tablePage(v core.View, alert *core.UserMessage) gomponents.Node {
	return html.Doctype(html.HTML(
		html.Lang("en"),
		html.Head(
			html.Meta(html.Charset("utf-8")),
			html.Meta(html.Name("viewport"), html.Content("width=device-width, initial-scale=1")),
			html.TitleEl(gomponents.Text("Data Table")),
			html.StyleEl(gomponents.Raw(stylesheet)),
		),
		html.Body(
			html.Class("theme-"+string(v.Theme)),
			html.Main(
				html.Class("layout"),
				pageHeader(v),
				gomponents.If(alert != nil, alertBox(alert)),
				toolbar(v),
				dataTable(v),
				pager(v),
			),
		),
	))
}

func pageHeader(v core.View) gomponents.Node {
	next := core.ThemeDark
	if v.Theme == core.ThemeDark {
		next = core.ThemeLight
	}
	return html.Header(
		html.Class("topbar"),
		html.H1(gomponents.Text("Data Table")),
		html.Div(
			html.Class("stats"),
			chip("Total rows", v.TotalRows),
			chip("Matching", v.TotalCount),
			chip("Visible columns", v.VisibleColumnCount),
			html.A(html.Class("button"), html.Href(pageURL(url.Values{"theme": {string(next)}})),
				gomponents.Text("Switch to "+string(next))),
		),
	)
}

func chip(label string, n int) gomponents.Node {
	return html.Span(html.Class("chip"), gomponents.Textf("%s: %d", label, n))
}

func alertBox(msg *core.UserMessage) gomponents.Node {
	return html.Div(
		html.Class("alert"),
		html.Role("alert"),
		html.Strong(gomponents.Text(msg.Message)),
		gomponents.If(msg.Action != "", html.Span(gomponents.Text(" "+msg.Action+"."))),
		html.Span(html.Class("muted"), gomponents.Text(" (Code: "+msg.Code+")")),
	)
}

func toolbar(v core.View) gomponents.Node {
	return html.Div(
		html.Class("toolbar"),
		html.Form(
			html.Method("get"), html.Action("/"),
			html.Input(html.Type("search"), html.Name("search"), html.Value(v.Search), html.Placeholder("Search all fields")),
			html.Button(html.Type("submit"), gomponents.Text("Search")),
		),
		html.Form(
			html.Method("post"), html.Action("/import"), html.EncType("multipart/form-data"),
			html.Input(html.Type("file"), html.Name("file"), html.Accept(".csv,text/csv"), html.Required()),
			html.Button(html.Type("submit"), gomponents.Text("Import CSV")),
		),
		html.Form(
			html.Method("post"), html.Action("/sample"),
			html.Button(html.Type("submit"), gomponents.Text("Load sample data")),
		),
		html.A(html.Class("button"), html.Href("/api/export"), gomponents.Text("Export CSV")),
	)
}

func dataTable(v core.View) gomponents.Node {
	headers := make([]gomponents.Node, 0, len(v.Columns))
	for _, c := range v.Columns {
		headers = append(headers, html.Th(sortLink(v.Sort, c)))
	}

	rows := make([]gomponents.Node, 0, len(v.Rows))
	for _, r := range v.Rows {
		cells := make([]gomponents.Node, 0, len(v.Columns))
		for _, text := range v.Cells(r) {
			cells = append(cells, html.Td(gomponents.Text(text)))
		}
		rows = append(rows, html.Tr(html.Data("row-id", string(r.Row.ID)), gomponents.Group(cells)))
	}
	if len(rows) == 0 {
		rows = append(rows, html.Tr(html.Td(
			html.ColSpan(strconv.Itoa(max(len(v.Columns), 1))),
			html.Class("muted"),
			gomponents.Text("No rows"),
		)))
	}

	return html.Div(
		html.Class("table-wrap"),
		html.Table(
			html.THead(html.Tr(gomponents.Group(headers))),
			html.TBody(gomponents.Group(rows)),
		),
	)
}

// sortLink toggles asc/desc on the active column and starts other columns
// ascending.
func sortLink(cur core.SortSpec, c core.Column) gomponents.Node {
	dir := core.SortAsc
	label := c.Label
	if cur.Field == c.Field {
		if cur.Direction == core.SortAsc {
			dir = core.SortDesc
			label += " ▲"
		} else {
			label += " ▼"
		}
	}
	return html.A(
		html.Href(pageURL(url.Values{"sort": {c.Field}, "dir": {string(dir)}})),
		gomponents.Text(label),
	)
}

func pager(v core.View) gomponents.Node {
	current := v.Page + 1
	return html.Nav(
		html.Class("pager"),
		gomponents.If(v.Page > 0,
			html.A(html.Href(pageURL(url.Values{"page": {strconv.Itoa(current - 1)}})), gomponents.Text("Previous"))),
		html.Span(gomponents.Textf("Page %d of %d", current, v.PageCount)),
		gomponents.If(current < v.PageCount,
			html.A(html.Href(pageURL(url.Values{"page": {strconv.Itoa(current + 1)}})), gomponents.Text("Next"))),
	)
}

func pageURL(q url.Values) string {
	return "/?" + q.Encode()
}

const stylesheet = `
body { font-family: system-ui, sans-serif; margin: 0; }
body.theme-light { background: #fafafa; color: #1f2328; }
body.theme-dark { background: #16181d; color: #e6e6e6; }
.layout { max-width: 1100px; margin: 0 auto; padding: 1.5rem; }
.topbar { display: flex; justify-content: space-between; align-items: center; flex-wrap: wrap; gap: 1rem; }
.stats, .toolbar { display: flex; gap: .5rem; flex-wrap: wrap; align-items: center; }
.toolbar { margin: 1rem 0; }
.chip { border: 1px solid #8884; border-radius: 999px; padding: .2rem .7rem; font-size: .85rem; }
.button, button { border: 1px solid #8886; border-radius: 6px; padding: .3rem .8rem; background: none; color: inherit; cursor: pointer; text-decoration: none; }
.alert { border: 1px solid #d33; background: #d331; padding: .6rem 1rem; border-radius: 6px; }
.muted { opacity: .7; }
.table-wrap { overflow-x: auto; }
table { border-collapse: collapse; width: 100%; }
th, td { text-align: left; padding: .45rem .6rem; border-bottom: 1px solid #8883; }
th a { color: inherit; text-decoration: none; }
.pager { display: flex; gap: 1rem; justify-content: center; margin-top: 1rem; }
.pager a { color: inherit; }
`
