// Package services holds the logic behind the preview server's JSON
// endpoints. HealthService inspects the www directory to report whether a
// dashboard has been built and what it contains.
package services
