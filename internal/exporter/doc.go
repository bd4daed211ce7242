// Package exporter writes the pipeline's outputs to disk.
//
// CSVWriter renders frames and raw records as CSV, optionally prefixed with a
// UTF-8 BOM so Excel detects the encoding. TableExporter writes every cleaned
// table of a dataset to the clean data directory. SpecWriter writes chart
// specifications as indented JSON.
//
// All writes go through files.Manager and replace their target atomically.
package exporter
