// Package dataprocessing turns the UN migration workbooks into tidy frames.
//
// # Architecture
//
// The package has four parts:
//
// 1. Parser: reads a worksheet into a gota DataFrame, skipping banner rows and
// disambiguating repeated headers positionally
// 2. Cleaners: CleanTotalStock, CleanSexStock, CleanRegionStock and
// CleanEstimates filter, rename and melt the raw frames
// 3. Countries: loads the coordinates reference table used for filtering,
// chart lookups and the dashboard country search
// 4. Summarizer: descriptive statistics of the net migration rate
//
// Processor ties them together for one run.
//
// # Usage
//
//	proc := dataprocessing.NewProcessor(cfg.Inputs, paths, logger, otel)
//	ds, err := proc.Run(ctx)
//	if err != nil {
//	    return err
//	}
//	flows := ds.TotalStock
//
// # Data Flow
//
//	xlsx → ReadSheet → raw frame → Clean* → long frame → charts / exporter
//
// # Missing values
//
// The ".." placeholder and empty cells load as missing. Values that fail
// numeric coercion during a melt become NaN, and Records reports both as nil.
package dataprocessing
