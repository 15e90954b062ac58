package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ecobazaarx/ecoimpact/internal/greenops"
	"github.com/ecobazaarx/ecoimpact/internal/impact"
)

// Output formats accepted by --output.
const (
	outputTable = "table"
	outputJSON  = "json"

	tabPadding = 2
	boxWidth   = 56
)

// isWriterTerminal reports whether w is an *os.File attached to a terminal.
// Any other writer, such as a bytes.Buffer in tests, gets plain output.
func isWriterTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isTerminal(f)
	}
	return false
}

// styler renders labels and bands with Lip Gloss on a TTY and as plain text
// everywhere else.
type styler struct {
	styled bool
}

func newStyler(w io.Writer) styler {
	return styler{styled: isWriterTerminal(w)}
}

func (s styler) title(text string) string {
	if !s.styled {
		return text + "\n" + strings.Repeat("=", len(text))
	}
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33")).Render(text)
}

func (s styler) label(text string) string {
	if !s.styled {
		return text
	}
	return lipgloss.NewStyle().Bold(true).Render(text)
}

func (s styler) band(b greenops.ImpactBand) string {
	if !s.styled {
		return "[" + string(b) + "]"
	}
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(b.Color())).Render(string(b))
}

func (s styler) box(content string) string {
	if !s.styled {
		return content
	}
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Width(boxWidth).
		Render(content)
}

// resolveOutputFormat falls back to the configured default for an empty flag.
func resolveOutputFormat(flag, configured string) (string, error) {
	format := flag
	if format == "" {
		format = configured
	}
	switch format {
	case outputTable, outputJSON:
		return format, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (use table or json)", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderEstimate(w io.Writer, rep greenops.Report) error {
	s := newStyler(w)
	var b strings.Builder

	line := func(label, value string) {
		fmt.Fprintf(&b, "%-14s %s\n", s.label(label+":"), value)
	}

	line("Category", rep.Category)
	line("Material CO2", greenops.FormatKg(rep.Result.MaterialCO2))
	line("Shipping CO2", greenops.FormatKg(rep.Result.ShippingCO2))
	line("Footprint", greenops.FormatKg(rep.Result.Footprint)+"  "+s.band(rep.Band))
	line("Eco score", greenops.FormatFloat(rep.Result.EcoScore, 1)+" / 5")
	if !rep.Equivalency.IsEmpty {
		b.WriteString(rep.Equivalency.DisplayText + "\n")
	}

	if bd := rep.Breakdown; bd != nil {
		b.WriteString("\n" + s.label("How this was calculated") + "\n")
		if bd.CategoryFallback {
			fmt.Fprintf(&b, "  category not recognised, using %s factors\n", bd.Category)
		}
		fmt.Fprintf(&b, "  weight %s kg, price %s (category average %s)\n",
			greenops.FormatFloat(bd.WeightKg, 3), greenops.FormatFloat(bd.PriceAmount, 2),
			greenops.FormatFloat(bd.AveragePrice, 2))
		if bd.DimensionsUsed {
			fmt.Fprintf(&b, "  volume %s m3 from dimensions\n", greenops.FormatFloat(bd.VolumeM3, 4))
		} else {
			fmt.Fprintf(&b, "  volume %s m3 estimated from weight\n", greenops.FormatFloat(bd.VolumeM3, 4))
		}
		if len(bd.UnknownMaterials) > 0 {
			fmt.Fprintf(&b, "  unknown materials: %s\n", strings.Join(bd.UnknownMaterials, ", "))
		}
		fmt.Fprintf(&b, "  eco score: base %.1f\n", impact.BaseEcoScore)
		for _, a := range bd.Adjustments {
			fmt.Fprintf(&b, "  eco score: %s %+.1f\n", a.Reason, a.Delta)
		}
	}

	_, err := fmt.Fprintln(w, s.box(strings.TrimRight(b.String(), "\n")))
	return err
}
