package chart

// Fixed palettes keyed by semantic category set. Keys are the labels the
// stored procedures emit; a category renders the same color in every section
// and on every re-render. Unknown labels fall back to a rotation of the
// default qualitative palette, assigned in first-seen order.

// DiscountLevelColors maps discount tier labels to colors.
var DiscountLevelColors = map[string]string{
	"0% (No Discount)": "#1f77b4",
	"0.01% to 10.00%":  "#ff7f0e",
	"10.01% to 20.00%": "#2ca02c",
	"20.01% to 30.00%": "#d62728",
	"30.01% to 40.00%": "#9467bd",
	"Over 40.00%":      "#8c564b",
}

// MarkupRangeColors maps price markup buckets to colors.
var MarkupRangeColors = map[string]string{
	"Under 25%":   "#1f77b4",
	"25% to 50%":  "#ff7f0e",
	"50% to 75%":  "#2ca02c",
	"75% to 100%": "#d62728",
	"Over 100%":   "#9467bd",
}

// QuarterColors maps calendar quarters to colors.
var QuarterColors = map[string]string{
	"Q1 (Jan-Mar)": "#1f77b4",
	"Q2 (Apr-Jun)": "#ff7f0e",
	"Q3 (Jul-Sep)": "#2ca02c",
	"Q4 (Oct-Dec)": "#d62728",
}

// ActivityColors maps user activity labels to colors.
var ActivityColors = map[string]string{
	"Active":    "#36C2F6",
	"Silent":    "#FF9900",
	"Lost":      "#E41F1F",
	"No Orders": "#9E9E9E",
}

// TierColors maps spending tier labels to colors.
var TierColors = map[string]string{
	"Platinum": "#B0B0B0",
	"Gold":     "#FFD700",
	"Silver":   "#C0C0C0",
	"Bronze":   "#CD7F32",
}

// UserTypeColors maps the VIP split to brand colors.
var UserTypeColors = map[string]string{
	"VIP":     "#FF9900",
	"Non-VIP": "#232F3E",
}

// defaultPalette is the qualitative rotation for category sets without a
// fixed semantic palette (provinces, product names).
var defaultPalette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// PaletteFor builds the concrete label->color map for a spec from a fixed
// semantic palette, filling labels the palette does not know from the
// default rotation in first-seen order. With a nil fixed map the whole
// rotation applies, which is still stable for a stable label order.
func PaletteFor(fixed map[string]string, labels []string) map[string]string {
	out := make(map[string]string, len(labels))
	next := 0
	for _, label := range labels {
		if _, seen := out[label]; seen {
			continue
		}
		if color, ok := fixed[label]; ok {
			out[label] = color
			continue
		}
		out[label] = defaultPalette[next%len(defaultPalette)]
		next++
	}
	return out
}
