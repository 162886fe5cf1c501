// Package model defines the symbol graph and AST data structures shared by
// the registry, the resolver and the mutation analyzer.
package model

// Path represents a file system path.
type Path string

// UnitFile represents a compilation-unit file produced by the parser.
type UnitFile struct {
	Path Path
	Hash string
}
