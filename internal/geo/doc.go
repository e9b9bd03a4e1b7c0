// Package geo provides the coordinate math shared by the spatial index
// and the cluster engine: coordinate validation, great-circle distance,
// bounding boxes, and grid-cell quantization.
package geo
