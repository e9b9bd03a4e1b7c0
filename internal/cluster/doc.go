// Package cluster computes the visual marker groups shown on the map
// for a given zoom/resolution level. Clustering is a pure recomputation
// over the current spatial index snapshot: ids are quantized into grid
// cells sized inversely to the resolution, each occupied cell becomes
// one cluster, and no merge state survives between calls.
package cluster
