// Package analytics joins the vaccination, population and property datasets
// on ZIP code and derives per-ZIP statistics.
//
// An Engine owns its three record collections for its whole life and never
// changes them, so every query is a pure function of its arguments. Results
// are memoized per argument key on first use and never invalidated. Build a
// new Engine for a new load; do not try to reuse one.
//
// An Engine is not safe for concurrent use.
package analytics
