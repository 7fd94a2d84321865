package scrape

import (
	"strings"
	"testing"
)

const listingPage = `
<html><body>
<div class="wrapper">
<table class="listing">
  <thead>
    <tr><th>Order ID</th><th>Address</th><th>Priority</th><th>Order Date</th><th>Due In</th><th></th></tr>
  </thead>
  <tbody>
    <tr>
      <td><a href="/orders/1001">ORD-1001</a></td>
      <td>12 Harbour St,
          Sydney</td>
      <td><span class="badge">Urgent</span></td>
      <td>Sat 14 Feb 26 (2:15 pm)</td>
      <td>tomorrow</td>
      <td><button>Open</button></td>
    </tr>
    <tr>
      <td>ORD-1002</td>
      <td>4 Hill Rd</td>
      <td>Regular</td>
      <td>Sat 14 Feb 26 (9:00 am)</td>
      <td>2 days</td>
      <td></td>
    </tr>
    <tr><td></td><td>orphan row without id</td><td></td><td></td><td></td><td></td></tr>
  </tbody>
</table>
</body></html>`

func TestParseTableReadsHeaderedRows(t *testing.T) {
	rows, err := ParseTable(strings.NewReader(listingPage), ColumnOrderID)
	if err != nil {
		t.Fatalf("ParseTable() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("ParseTable() len = %d, want 2", len(rows))
	}

	first := rows[0]
	if first[ColumnOrderID] != "ORD-1001" {
		t.Fatalf("order id = %q", first[ColumnOrderID])
	}
	if first[ColumnAddress] != "12 Harbour St, Sydney" {
		t.Fatalf("address = %q, whitespace not collapsed", first[ColumnAddress])
	}
	if first[ColumnPriority] != "Urgent" {
		t.Fatalf("priority = %q", first[ColumnPriority])
	}
	if first[ColumnOrderDate] != "Sat 14 Feb 26 (2:15 pm)" {
		t.Fatalf("order date = %q", first[ColumnOrderDate])
	}
	if first["Action"] != "Open" {
		t.Fatalf("unnamed column = %q, want placeholder header", first["Action"])
	}

	if rows[1][ColumnDueIn] != "2 days" {
		t.Fatalf("due in = %q", rows[1][ColumnDueIn])
	}
}

func TestParseTableDropsRowsWithEmptyKey(t *testing.T) {
	rows, err := ParseTable(strings.NewReader(listingPage), ColumnOrderID)
	if err != nil {
		t.Fatalf("ParseTable() error = %v", err)
	}
	for _, row := range rows {
		if row[ColumnOrderID] == "" {
			t.Fatalf("row with empty key survived: %v", row)
		}
	}
}

func TestParseTableNoTable(t *testing.T) {
	rows, err := ParseTable(strings.NewReader("<html><body><p>no orders</p></body></html>"), ColumnOrderID)
	if err != nil {
		t.Fatalf("ParseTable() error = %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("ParseTable() len = %d, want 0", len(rows))
	}
}

func TestParseTableIgnoresNestedTables(t *testing.T) {
	page := `
<table>
  <tr><th>Order ID</th><th>Address</th></tr>
  <tr>
    <td>ORD-1</td>
    <td><table><tr><td>inner</td></tr></table>nested text</td>
  </tr>
</table>`
	rows, err := ParseTable(strings.NewReader(page), ColumnOrderID)
	if err != nil {
		t.Fatalf("ParseTable() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("ParseTable() len = %d, want 1", len(rows))
	}
}
