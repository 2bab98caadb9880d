// Package files resolves command line arguments to SAF inputs.
//
// A Discovery expands directories to the SAF files they contain and glob
// patterns to their matches. A file counts as SAF when its name ends in
// .saf, optionally followed by a compression suffix (.gz, .bz2, .xz, .zst).
//
// Patterns use doublestar syntax, so "runs/**/*.saf" walks subdirectories.
//
// Example usage:
//
//	discovery := files.NewDiscovery(".")
//	inputs, err := discovery.ExpandInputs([]string{"runs/", "extra/*.saf.gz"})
package files
