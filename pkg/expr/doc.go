// Package expr provides CEL (Common Expression Language) filters over dbt
// targets.
//
// Expressions have access to a single variable, `target`
// (map<string, dyn>), with the keys:
//   - `name` (string): The target name.
//   - `profile` (string): The profile that defines the target.
//   - `type` (string or null): The adapter type.
//   - `database` (string or null): The resolved database or catalog.
//
// Example: target.type == "postgres" && target.name.startsWith("prod").
package expr
