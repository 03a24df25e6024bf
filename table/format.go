package table

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

// Format renders up to maxRows rows as an aligned text grid headed by the
// table name and column names. When rows are omitted a trailing line reports
// how many. A negative maxRows renders every row.
func (t *Table) Format(maxRows int) string {
	var sb strings.Builder
	rows := t.RowCount()
	shown := rows
	if maxRows >= 0 && maxRows < rows {
		shown = maxRows
	}

	fmt.Fprintf(&sb, "%s (%d rows, %d columns)\n", t.name, rows, len(t.columns))
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', tabwriter.AlignRight)
	for i, c := range t.columns {
		if i > 0 {
			_, _ = w.Write([]byte{'\t'})
		}
		_, _ = w.Write([]byte(c.Name()))
	}
	_, _ = w.Write([]byte("\t\n"))
	for row := range shown {
		for i, c := range t.columns {
			if i > 0 {
				_, _ = w.Write([]byte{'\t'})
			}
			_, _ = w.Write([]byte(sanitizeCell(c.String(row))))
		}
		_, _ = w.Write([]byte("\t\n"))
	}
	_ = w.Flush()

	if shown < rows {
		fmt.Fprintf(&sb, "... %d more rows\n", rows-shown)
	}

	return sb.String()
}

// String renders the first 20 rows.
func (t *Table) String() string {
	return t.Format(20)
}

func sanitizeCell(s string) string {
	return strings.NewReplacer("\t", " ", "\n", " ", "\r", " ").Replace(s)
}
