package scrape

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"draftdesk/internal/errs"
)

// Row is one table row keyed by header cell text.
type Row map[string]string

// Header cells with no text get this placeholder name. The portal renders an
// unlabeled actions column at the end of its listing table.
const emptyHeaderName = "Action"

// ParseTable extracts rows from the first <table> of an HTML document.
// Header row cell texts become column names; data rows map column name to
// trimmed cell text. Rows without <td> cells, and rows whose keyColumn is
// empty, are dropped. x/net/html is tolerant of malformed markup, so partial
// documents yield best-effort rows instead of failing. An empty result is the
// pagination stop signal, not an error.
func ParseTable(r io.Reader, keyColumn string) ([]Row, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errs.Wrap(err, "parse html")
	}

	table := findFirst(doc, "table")
	if table == nil {
		return nil, nil
	}

	trs := collectRows(table)
	if len(trs) == 0 {
		return nil, nil
	}

	headers := headerNames(trs[0])
	if len(headers) == 0 {
		return nil, nil
	}

	rows := make([]Row, 0, len(trs)-1)
	for _, tr := range trs[1:] {
		cells := childCells(tr, "td")
		if len(cells) == 0 {
			continue
		}

		row := make(Row, len(cells))
		for idx, cell := range cells {
			name := fmt.Sprintf("column_%d", idx)
			if idx < len(headers) {
				name = headers[idx]
			}
			row[name] = cellText(cell)
		}

		if keyColumn != "" && row[keyColumn] == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findFirst(child, tag); found != nil {
			return found
		}
	}
	return nil
}

// collectRows gathers tr descendants of the table without descending into
// nested tables.
func collectRows(table *html.Node) []*html.Node {
	var rows []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if child.Type != html.ElementNode {
				continue
			}
			switch child.Data {
			case "tr":
				rows = append(rows, child)
			case "table":
				continue
			default:
				walk(child)
			}
		}
	}
	walk(table)
	return rows
}

func headerNames(headerRow *html.Node) []string {
	cells := childCells(headerRow, "th")
	if len(cells) == 0 {
		return nil
	}

	names := make([]string, 0, len(cells))
	for _, cell := range cells {
		name := cellText(cell)
		if name == "" {
			name = emptyHeaderName
		}
		names = append(names, name)
	}
	return names
}

func childCells(row *html.Node, tag string) []*html.Node {
	var cells []*html.Node
	for child := row.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && child.Data == tag {
			cells = append(cells, child)
		}
	}
	return cells
}

func cellText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
