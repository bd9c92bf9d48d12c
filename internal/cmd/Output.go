package cmd

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/poppolopoppo/msvcenv/internal/base"
	"github.com/poppolopoppo/msvcenv/internal/config"
	"gopkg.in/yaml.v3"
)

/***************************************
 * Table
 ***************************************/

type TableStyle struct {
	Border      lipgloss.Border
	BorderColor lipgloss.Color
	HeaderStyle lipgloss.Style
	CellStyle   lipgloss.Style
}

func DefaultTableStyle() TableStyle {
	return TableStyle{
		Border:      lipgloss.NormalBorder(),
		BorderColor: lipgloss.Color("240"),
		HeaderStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		CellStyle:   lipgloss.NewStyle(),
	}
}

type Table struct {
	Headers []string
	Rows    [][]string
	Style   TableStyle
}

func NewTable(headers ...string) *Table {
	return &Table{
		Headers: headers,
		Style:   DefaultTableStyle(),
	}
}

func (x *Table) Row(cells ...string) *Table {
	x.Rows = append(x.Rows, cells)
	return x
}
func (x *Table) Len() int { return len(x.Rows) }

func (x *Table) String() string {
	tbl := table.New().
		Border(x.Style.Border).
		BorderStyle(lipgloss.NewStyle().Foreground(x.Style.BorderColor)).
		Headers(x.Headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return x.Style.HeaderStyle
			}
			return x.Style.CellStyle
		})
	for _, row := range x.Rows {
		tbl.Row(row...)
	}
	return tbl.String()
}

/***************************************
 * Output
 ***************************************/

// Report is anything a command can print, tables are only built when asked for.
type Report interface {
	Tables() []*Table
}

func WriteReport(dst io.Writer, format config.OutputFormat, report Report) error {
	switch format {
	case config.OUTPUT_JSON:
		return base.JsonSerialize(report, dst, base.OptionJsonPrettyPrint(true))
	case config.OUTPUT_YAML:
		encoder := yaml.NewEncoder(dst)
		encoder.SetIndent(2)
		if err := encoder.Encode(report); err != nil {
			return err
		}
		return encoder.Close()
	case config.OUTPUT_TABLE:
		for _, it := range report.Tables() {
			if _, err := io.WriteString(dst, it.String()+"\n"); err != nil {
				return err
			}
		}
		return nil
	default:
		return base.MakeUnexpectedValueError(format, format)
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
