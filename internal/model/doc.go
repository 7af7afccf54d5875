// Package model defines the data types shared across the crawler:
// URL classification errors, result and image records, fetched resources,
// and the end-of-run report.
//
// The package has no dependencies on other internal packages so that it can
// be imported from anywhere without cycles.
package model
