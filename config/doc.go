// Package config loads index definitions and engine settings from YAML.
//
//	date_format: japanese
//	indexes:
//	  - column: book
//	    kind: hash
//	    buckets: 64
//	  - column: child
//	    kind: range
//	    buckets: 10
//	    min: 0
//	    max: 100
//	  - column: deal_date
//	    kind: date
//
// A Config is resolved against a sieve.Schema with BuildSet.
package config
