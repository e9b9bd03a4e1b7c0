// Package spatial maintains a grid-bucketed index over all located
// media records, supporting inclusive range queries and k-nearest
// queries by great-circle distance. The grid trades the balanced-tree
// alternatives for determinism and simpler reasoning: cells hold
// unordered id sets, range queries enumerate overlapping cells, and
// nearest queries expand outward ring by ring with a sound early exit.
package spatial
