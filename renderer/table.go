package renderer

type tableView struct {
	Columns []string
	Rows    [][]string
}

// Table renders rows of cells under columns as a markdown table. Rows shorter
// than columns are padded with empty cells, extra cells are dropped.
func Table(columns []string, rows [][]string) string {
	view := tableView{Columns: make([]string, len(columns))}
	for i, c := range columns {
		view.Columns[i] = cell(c)
	}
	for _, row := range rows {
		cells := make([]string, len(columns))
		for i, v := range row[:min(len(row), len(columns))] {
			cells[i] = cell(v)
		}
		view.Rows = append(view.Rows, cells)
	}
	return renderTemplate("table", "table.md", nil, view)
}
