// Package kernel contains shared value objects of the marketplace domain:
// typed numeric identifiers for the persisted aggregates and the Money value
// used for all monetary breakdowns. Persistence is keyed by these numeric IDs;
// the zero value of every ID is invalid.
package kernel
