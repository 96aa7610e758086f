package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"

	"morsel-dashboard/internal/models"
	"morsel-dashboard/internal/services"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
	boldColor    = color.New(color.Bold)

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	amountStyle = cellStyle.Align(lipgloss.Right)
)

func printSuccess(w io.Writer, format string, args ...any) {
	successColor.Fprintf(w, "✓ %s\n", fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	errorColor.Fprintf(w, "✗ %s\n", fmt.Sprintf(format, args...))
}

func printInfo(w io.Writer, format string, args ...any) {
	infoColor.Fprintf(w, "ℹ %s\n", fmt.Sprintf(format, args...))
}

func printBold(w io.Writer, format string, args ...any) {
	boldColor.Fprintln(w, fmt.Sprintf(format, args...))
}

// renderTable draws rows under headers. Columns listed in amountCols are
// right aligned.
func renderTable(headers []string, rows [][]string, amountCols ...int) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			for _, c := range amountCols {
				if c == col {
					return amountStyle
				}
			}
			return cellStyle
		})
	return t.Render()
}

// printRecords prints at most limit records in dataset order.
func printRecords(w io.Writer, records []models.SalesRecord, limit int) {
	if len(records) > limit {
		records = records[:limit]
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.Sales.StringFixed(2), r.Date.Format(models.DateLayout), r.Region.String()})
	}
	fmt.Fprintln(w, renderTable([]string{"SALES", "DATE", "REGION"}, rows, 0))
}

func printSummary(w io.Writer, s models.SalesSummary) {
	printBold(w, "Sales by date and region")
	if len(s.ByDateRegion) == 0 {
		printInfo(w, "no sales match the filter")
	} else {
		rows := make([][]string, 0, len(s.ByDateRegion))
		for _, r := range s.ByDateRegion {
			rows = append(rows, []string{r.Date.Format(models.DateLayout), r.Region.String(), r.Sales.StringFixed(2)})
		}
		fmt.Fprintln(w, renderTable([]string{"DATE", "REGION", "SALES"}, rows, 2))
	}

	fmt.Fprintln(w)
	printBold(w, "Sales by region")
	if len(s.ByRegion) == 0 {
		printInfo(w, "no sales match the filter")
		return
	}
	rows := make([][]string, 0, len(s.ByRegion))
	for _, r := range s.ByRegion {
		rows = append(rows, []string{r.Region.String(), r.Sales.StringFixed(2), services.CurrencyLabel(r.Sales)})
	}
	fmt.Fprintln(w, renderTable([]string{"REGION", "SALES", "LABEL"}, rows, 1, 2))
}
