// Package profiles locates and parses dbt profiles.yml files.
//
// A [Locator] resolves the file from a [LocatorConfig] (profiles directory
// override, project directory, home directory, in that order). An
// [Extractor] reads the located file on every call and projects each target
// into a [TargetSummary], resolving the database through the adapter lookup
// table in [DatabaseFields].
//
// All failures are returned as [*Error], which carries a [Kind] and matches
// the corresponding sentinel error with [errors.Is].
package profiles
