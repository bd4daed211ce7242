package charts

// Font used across every chart element; the pages load it from Google Fonts.
const Font = "Montserrat"

// Theme colors.
const (
	TitleColor      = "#002E2C"
	AxisColor       = "#035E7B"
	BackgroundColor = "#FFF9FB"
	FlowColor       = "#aa4a52"
)

// Config is the top-level Vega-Lite config block.
type Config struct {
	Title      TitleConfig `json:"title"`
	Axis       GuideConfig `json:"axis"`
	Legend     GuideConfig `json:"legend"`
	View       ViewConfig  `json:"view"`
	Range      RangeConfig `json:"range"`
	Background string      `json:"background"`
}

// TitleConfig styles chart titles.
type TitleConfig struct {
	FontSize int    `json:"fontSize"`
	Font     string `json:"font"`
	Anchor   string `json:"anchor"`
	Color    string `json:"color"`
}

// GuideConfig styles axes and legends alike.
type GuideConfig struct {
	LabelFontSize int    `json:"labelFontSize"`
	TitleFontSize int    `json:"titleFontSize"`
	LabelFont     string `json:"labelFont"`
	TitleFont     string `json:"titleFont"`
	LabelColor    string `json:"labelColor"`
	TitleColor    string `json:"titleColor"`
}

// ViewConfig sets the default view size and fill.
type ViewConfig struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Fill   string `json:"fill"`
}

// RangeConfig holds the named color schemes.
type RangeConfig struct {
	Category  []string `json:"category"`
	Diverging []string `json:"diverging"`
	Heatmap   []string `json:"heatmap"`
	Ordinal   []string `json:"ordinal"`
}

// Theme returns the dashboard theme.
func Theme() *Config {
	guide := GuideConfig{
		LabelFontSize: 12,
		TitleFontSize: 14,
		LabelFont:     Font,
		TitleFont:     Font,
		LabelColor:    AxisColor,
		TitleColor:    AxisColor,
	}
	return &Config{
		Title: TitleConfig{
			FontSize: 20,
			Font:     Font,
			Anchor:   "start",
			Color:    TitleColor,
		},
		Axis:   guide,
		Legend: guide,
		View: ViewConfig{
			Width:  600,
			Height: 400,
			Fill:   BackgroundColor,
		},
		Range: RangeConfig{
			Category: []string{
				"#c9e4caff", "#87bba2ff", "#55828bff", "#3b6064ff", "#364958ff",
				"#dc965aff", "#632b30ff", "#bc9cb0ff", "#1c1c1cff", "#e4572eff",
			},
			Diverging: []string{"#e4572eff", "#dc965aff", "#87bba2ff", "#55828bff", "#3b6064ff", "#1c1c1cff"},
			Heatmap:   []string{"#1c1c1cff", "#364958ff", "#3b6064ff", "#55828bff", "#87bba2ff", "#c9e4caff"},
			Ordinal:   []string{"#632b30ff", "#bc9cb0ff", "#87bba2ff", "#e4572eff"},
		},
		Background: BackgroundColor,
	}
}
