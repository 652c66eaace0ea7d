package output

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// TableFormatter formats verdicts as a human-readable table.
type TableFormatter struct {
	writer io.Writer
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// Format writes the verdicts as aligned columns.
func (f *TableFormatter) Format(rows []VerdictRow) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(f.writer, "No URLs evaluated.")
		return err
	}

	tw := tabwriter.NewWriter(f.writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "URL\tHOSTNAME\tVERDICT")
	for _, row := range rows {
		verdict := "allowed"
		if !row.Allowed {
			verdict = "denied: " + row.Reason
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", row.URL, row.Hostname, verdict)
	}
	return tw.Flush()
}
