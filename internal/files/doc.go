// Package files writes and discovers the generated dashboard files.
//
// Manager writes files atomically under the www directory. Discovery lists
// the pages and chart specs that a build produced.
package files
