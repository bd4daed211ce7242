// Package charts builds Vega-Lite v5 specifications from cleaned migration
// tables. Data is inlined under top-level named datasets so a spec renders
// without network access except for the world atlas.
package charts
