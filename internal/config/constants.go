package config

import "time"

// Application constants
const (
	AppName = "migviz"

	// Input files (relative to the inputs base directory)
	DefaultStockWorkbook     = "data/undesa_pd_2020_ims_stock_by_sex_destination_and_origin.xlsx"
	DefaultEstimatesWorkbook = "data/WPP2024_GEN_F01_DEMOGRAPHIC_INDICATORS_COMPACT.xlsx"
	DefaultCountriesCSV      = "data/country-coord.csv"

	// Output directories (relative to the inputs base directory)
	DefaultCleanDir = "data/clean"
	DefaultWWWDir   = "www"
	DefaultLogsDir  = "logs"
	DefaultLogFile  = "logs/migviz.log"

	// Cleaned table file names
	TotalStockFile  = "total_stock.csv"
	SexStockFile    = "sex_stock.csv"
	RegionStockFile = "region_stock.csv"
	EstimatesFile   = "estimates.csv"
	RateSummaryFile = "rate_summary.csv"

	// Dashboard pages
	IndexPage   = "index.html"
	CountryPage = "plots_country.html"
	RegionPage  = "plots_region.html"

	// Sub directories of the www directory
	SpecsSubdir     = "specs"
	StaticSubdir    = "static"
	SnapshotsSubdir = "snapshots"

	RateSVGFile = "net_migration_rate.svg"

	DefaultShutdownTimeout = 10 * time.Second
)
