package charts

import "encoding/json"

// Spec is a Vega-Lite view: a unit (mark + encoding), a layer or an
// horizontal concatenation. Only the subset of the grammar the dashboard
// uses is modeled.
type Spec struct {
	Schema      string                              `json:"$schema,omitempty"`
	Description string                              `json:"description,omitempty"`
	Config      *Config                             `json:"config,omitempty"`
	Background  string                              `json:"background,omitempty"`
	Datasets    map[string][]map[string]interface{} `json:"datasets,omitempty"`
	Params      []Param                             `json:"params,omitempty"`

	Data       *Data       `json:"data,omitempty"`
	Transform  []Transform `json:"transform,omitempty"`
	Mark       *Mark       `json:"mark,omitempty"`
	Encoding   *Encoding   `json:"encoding,omitempty"`
	Projection *Projection `json:"projection,omitempty"`
	Width      int         `json:"width,omitempty"`
	Height     int         `json:"height,omitempty"`

	Layer   []*Spec `json:"layer,omitempty"`
	HConcat []*Spec `json:"hconcat,omitempty"`
}

// Data points at a named dataset, a URL or inline values.
type Data struct {
	Name   string      `json:"name,omitempty"`
	URL    string      `json:"url,omitempty"`
	Format *DataFormat `json:"format,omitempty"`
}

// DataFormat describes how URL data is parsed.
type DataFormat struct {
	Type    string `json:"type"`
	Feature string `json:"feature,omitempty"`
}

// Mark is a mark definition.
type Mark struct {
	Type    string   `json:"type"`
	Stroke  string   `json:"stroke,omitempty"`
	Color   string   `json:"color,omitempty"`
	Opacity *float64 `json:"opacity,omitempty"`
	Size    *float64 `json:"size,omitempty"`
}

// Encoding maps fields to visual channels.
type Encoding struct {
	X          *Channel  `json:"x,omitempty"`
	Y          *Channel  `json:"y,omitempty"`
	Color      *Channel  `json:"color,omitempty"`
	Size       *Channel  `json:"size,omitempty"`
	Opacity    *Channel  `json:"opacity,omitempty"`
	Latitude   *Channel  `json:"latitude,omitempty"`
	Longitude  *Channel  `json:"longitude,omitempty"`
	Latitude2  *Channel  `json:"latitude2,omitempty"`
	Longitude2 *Channel  `json:"longitude2,omitempty"`
	Order      *Channel  `json:"order,omitempty"`
	Tooltip    []Channel `json:"tooltip,omitempty"`
}

// Channel is a field or value definition of one encoding channel.
type Channel struct {
	Field     string      `json:"field,omitempty"`
	Type      string      `json:"type,omitempty"`
	Title     string      `json:"title,omitempty"`
	Format    string      `json:"format,omitempty"`
	Sort      string      `json:"sort,omitempty"`
	Axis      *Axis       `json:"axis,omitempty"`
	Legend    interface{} `json:"legend,omitempty"`
	Value     interface{} `json:"value,omitempty"`
	Condition *Condition  `json:"condition,omitempty"`
}

// NoLegend disables the legend of a channel.
var NoLegend = json.RawMessage("null")

// Axis customizes a positional channel's axis.
type Axis struct {
	Title      string `json:"title,omitempty"`
	TickCount  int    `json:"tickCount,omitempty"`
	LabelLimit int    `json:"labelLimit,omitempty"`
}

// Legend customizes a channel's legend.
type Legend struct {
	Title string `json:"title,omitempty"`
}

// Condition switches a channel value while a parameter predicate holds.
type Condition struct {
	Param string      `json:"param"`
	Value interface{} `json:"value"`
}

// Transform is one view-level data transform: a filter, a lookup or an
// aggregate.
type Transform struct {
	Filter interface{} `json:"filter,omitempty"`

	Lookup string      `json:"lookup,omitempty"`
	From   *LookupFrom `json:"from,omitempty"`
	As     []string    `json:"as,omitempty"`

	Aggregate []AggregateOp `json:"aggregate,omitempty"`
	GroupBy   []string      `json:"groupby,omitempty"`
}

// LookupFrom is the secondary data of a lookup transform.
type LookupFrom struct {
	Data   Data     `json:"data"`
	Key    string   `json:"key"`
	Fields []string `json:"fields,omitempty"`
}

// AggregateOp is one aggregation of an aggregate transform.
type AggregateOp struct {
	Op    string `json:"op"`
	Field string `json:"field"`
	As    string `json:"as"`
}

// ParamPredicate tests whether a datum is in a selection.
type ParamPredicate struct {
	Param string `json:"param"`
	Empty *bool  `json:"empty,omitempty"`
}

// Or combines predicates.
type Or struct {
	Or []interface{} `json:"or"`
}

// Param is a selection or variable parameter.
type Param struct {
	Name   string      `json:"name"`
	Value  interface{} `json:"value,omitempty"`
	Select *Selection  `json:"select,omitempty"`
	Bind   interface{} `json:"bind,omitempty"`
}

// Selection configures a selection parameter.
type Selection struct {
	Type    string   `json:"type"`
	On      string   `json:"on,omitempty"`
	Nearest bool     `json:"nearest,omitempty"`
	Fields  []string `json:"fields,omitempty"`
}

// Projection is a cartographic projection.
type Projection struct {
	Type string `json:"type"`
}

// MarshalIndent renders spec as indented JSON.
func (s *Spec) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

func float(v float64) *float64 { return &v }

func boolean(v bool) *bool { return &v }

func named(name string) *Data { return &Data{Name: name} }
