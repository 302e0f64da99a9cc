package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/yanqian/ppgi-advisor/internal/domain/food"
	"github.com/yanqian/ppgi-advisor/internal/domain/glycemic"
	"github.com/yanqian/ppgi-advisor/internal/domain/prediction"
)

type interpretationView struct {
	Food           *prediction.FoodSelection `json:"food,omitempty"`
	Interpretation glycemic.Interpretation   `json:"interpretation"`
}

func renderInterpretation(w io.Writer, format string, interp glycemic.Interpretation, selection *prediction.FoodSelection) error {
	switch format {
	case outputJSON:
		return writeJSON(w, interpretationView{Food: selection, Interpretation: interp})
	case outputYAML:
		return writeYAML(w, interpretationView{Food: selection, Interpretation: interp})
	default:
		displayInterpretation(w, interp, selection)
		return nil
	}
}

func displayInterpretation(w io.Writer, interp glycemic.Interpretation, selection *prediction.FoodSelection) {
	cyan := color.New(color.FgCyan, color.Bold)
	band := bandColor(interp.GIBand)

	fmt.Fprintln(w)
	cyan.Fprintln(w, "Prediction Result")
	if selection != nil {
		name := selection.Name
		if selection.Autofilled {
			name += " (nutrients from food table)"
		}
		fmt.Fprintf(w, "  Food:           %s\n", name)
	}
	fmt.Fprintf(w, "  Predicted PPGI: %s\n", band.Sprint(formatNumber(interp.PPGI)))
	fmt.Fprintf(w, "  %s\n", band.Sprint(interp.GILabel))

	if interp.GL != nil {
		line := formatNumber(*interp.GL)
		if interp.GLBand != nil {
			line += " " + bandColor(*interp.GLBand).Sprintf("(%s glycemic load)", *interp.GLBand)
		}
		fmt.Fprintf(w, "  Glycemic load:  %s\n", line)
	}
	if interp.HasIAUC() {
		fmt.Fprintf(w, "  IAUC (food): %s | IAUC (glucose ref): %s\n", formatNumber(*interp.IAUCFood), formatNumber(*interp.IAUCGlucoseRef))
	}
	if interp.Adjustment != nil {
		adj := interp.Adjustment
		fmt.Fprintf(w, "  Personal range: %.1f - %.1f (risk %.0f%%)\n", adj.Low, adj.High, adj.Normalized*100)
	}
	if interp.Source != "" {
		fmt.Fprintf(w, "  Source:         %s\n", interp.Source)
	}
	if interp.FallbackWarning {
		color.New(color.FgYellow, color.Bold).Fprintln(w, "  Warning: the prediction service used its fallback estimate; treat this value with caution.")
	}
	fmt.Fprintln(w)
}

// bandColor mirrors the alert colours of the web form.
func bandColor(band glycemic.Band) *color.Color {
	switch band {
	case glycemic.BandHigh:
		return color.New(color.FgRed, color.Bold)
	case glycemic.BandMedium:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgGreen, color.Bold)
	}
}

func renderFoods(w io.Writer, format string, items []food.Item) error {
	switch format {
	case outputJSON:
		return writeJSON(w, items)
	case outputYAML:
		return writeYAML(w, items)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tLABEL\tCARB\tPROTEIN\tFAT\tFIBER")
	for _, item := range items {
		n := item.Nutrients
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", item.Key, item.Label,
			formatNumber(n.Carb), formatNumber(n.Protein), formatNumber(n.Fat), formatNumber(n.DietaryFiber))
	}
	return tw.Flush()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeYAML emits v with its JSON field names, in declaration order.
func writeYAML(w io.Writer, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return err
	}
	blockStyle(&node)
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return err
	}
	return enc.Close()
}

func blockStyle(node *yaml.Node) {
	node.Style &^= yaml.FlowStyle | yaml.DoubleQuotedStyle
	for _, child := range node.Content {
		blockStyle(child)
	}
}
