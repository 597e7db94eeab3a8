package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// columnAlignment controls body alignment per column; headers stay
// left-aligned regardless.
type columnAlignment = text.Align

const (
	alignLeft  = text.AlignLeft
	alignRight = text.AlignRight
)

// renderTable lays rows out under headers using the shared rounded style.
// Short rows are padded with empty cells and a nil aligns slice means
// everything is left-aligned.
func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	if len(headers) == 0 {
		return ""
	}

	toRow := func(cells []string) table.Row {
		r := make(table.Row, len(headers))
		for i := range r {
			r[i] = ""
			if i < len(cells) {
				r[i] = cells[i]
			}
		}
		return r
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(toRow(headers))
	for _, row := range rows {
		tw.AppendRow(toRow(row))
	}

	configs := make([]table.ColumnConfig, len(headers))
	for i := range configs {
		configs[i] = table.ColumnConfig{
			Number:      i + 1,
			Align:       alignLeft,
			AlignHeader: text.AlignLeft,
		}
		if i < len(aligns) {
			configs[i].Align = aligns[i]
		}
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}
