package cli

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// renderTable 最后一列以外左对齐，rightAlignLast 控制末列（数量列）右对齐
func renderTable(headers []string, rows [][]string, rightAlignLast bool) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	if rightAlignLast {
		tw.SetColumnConfigs([]table.ColumnConfig{{
			Number:      columns,
			Align:       text.AlignRight,
			AlignHeader: text.AlignLeft,
		}})
	}
	return tw.Render()
}
