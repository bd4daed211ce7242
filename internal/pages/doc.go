// Package pages renders the dashboard: an index page, the country flow page
// and the regional rate page.
//
// Every page embeds the specs of all years so it works when opened straight
// from disk. The same specs are also written one file per chart and year
// under specs/ for the preview server.
package pages
