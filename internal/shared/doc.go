// Package shared holds helpers used by more than one migviz package.
//
// The testutil subpackage captures slog output for assertions and writes
// small sample stock and estimates workbooks plus a country coordinates file,
// so pipeline tests can run end to end without the real UN datasets:
//
//	logger, logs := testutil.NewTestLogger(t)
//	in := testutil.WriteSampleInputs(t, t.TempDir())
//	// run the processor against in.StockWorkbook ...
//	testutil.AssertLogContains(t, logs, slog.LevelInfo, "Clean step finished")
package shared
