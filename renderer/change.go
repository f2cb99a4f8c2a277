// Package renderer turns reports into text: plain column-aligned tables
// for files and pipes, markdown for terminal display.
package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/watchbook"
	md "github.com/nao1215/markdown"
)

// ChangeText renders a change report as a plain text table: one line per
// symbol, label columns left-aligned, numeric columns right-aligned.
// Rows are rendered in report order (sorted by the caller's policy).
func ChangeText(r *watchbook.ChangeReport) string {
	symbolW := len("SYMBOL")
	changeW := len("CHANGE")
	priceW := len("PRICE")
	volumeW := len("VOLUME")

	type row struct{ symbol, change, price, volume string }
	rows := make([]row, 0, len(r.Rows))
	for _, cr := range r.Rows {
		row := row{
			symbol: cr.Symbol,
			change: fmt.Sprintf("%+.2f", float64(cr.Change)),
			price:  cr.Price.String(),
		}
		if cr.Volume > 0 {
			row.volume = fmt.Sprintf("%d", cr.Volume)
		}
		symbolW = max(symbolW, len(row.symbol))
		changeW = max(changeW, len(row.change))
		priceW = max(priceW, len(row.price))
		volumeW = max(volumeW, len(row.volume))
		rows = append(rows, row)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s changes %s (vs %s)\n", r.Category, r.Current, r.Previous)
	fmt.Fprintf(&b, "%-*s  %*s  %*s  %*s\n", symbolW, "SYMBOL", changeW, "CHANGE", priceW, "PRICE", volumeW, "VOLUME")
	for _, row := range rows {
		fmt.Fprintf(&b, "%-*s  %*s  %*s  %*s\n", symbolW, row.symbol, changeW, row.change, priceW, row.price, volumeW, row.volume)
	}
	if len(r.Unavailable) > 0 {
		fmt.Fprintf(&b, "unavailable: %s\n", strings.Join(r.Unavailable, ", "))
	}
	return b.String()
}

// ChangeMarkdown renders a change report as a markdown document.
func ChangeMarkdown(r *watchbook.ChangeReport) string {
	var buf strings.Builder
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Daily Changes: %s", r.Category))
	doc.PlainText(fmt.Sprintf("Comparing close of %s with close of %s.", r.Current, r.Previous))

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Symbol", "Change", "Price", "Volume"},
	}
	for _, row := range r.Rows {
		volume := ""
		if row.Volume > 0 {
			volume = fmt.Sprintf("%d", row.Volume)
		}
		table.Rows = append(table.Rows, []string{
			row.Symbol,
			row.Change.SignedString(),
			row.Price.String(),
			volume,
		})
	}
	doc.Table(table)

	if len(r.Unavailable) > 0 {
		doc.H2("Unavailable")
		doc.PlainText("No comparable close for: " + strings.Join(r.Unavailable, ", ") + ".")
	}

	return doc.String()
}

// ReconcileMarkdown renders the outcome of a reconcile run.
func ReconcileMarkdown(r watchbook.ReconcileReport) string {
	var buf strings.Builder
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Reconcile into %q", r.Target))
	doc.BulletList(
		fmt.Sprintf("added: %d", r.Added),
		fmt.Sprintf("already present: %d", r.Skipped),
	)
	appendDuplicates(doc, r.Duplicates)
	return doc.String()
}

// DuplicatesMarkdown renders a catalog-wide duplicate scan.
func DuplicatesMarkdown(dups []watchbook.Duplicate) string {
	var buf strings.Builder
	doc := md.NewMarkdown(&buf)

	doc.H1("Cross-Category Duplicates")
	if len(dups) == 0 {
		doc.PlainText("No symbol is filed under more than one category.")
		return doc.String()
	}
	appendDuplicates(doc, dups)
	return doc.String()
}

func appendDuplicates(doc *md.Markdown, dups []watchbook.Duplicate) {
	if len(dups) == 0 {
		return
	}
	doc.H2("Duplicates to Review")
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignLeft},
		Header:    []string{"Symbol", "Count", "Categories"},
	}
	for _, d := range dups {
		table.Rows = append(table.Rows, []string{
			d.Symbol,
			fmt.Sprintf("%d", d.Count()),
			strings.Join(d.Categories, ", "),
		})
	}
	doc.Table(table)
}
