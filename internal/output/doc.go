// Package output renders the final outcome of a repository search as
// human-readable text, JSON, or YAML.
package output
