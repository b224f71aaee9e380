// Package glytrait holds the small file helpers shared by the glytrait
// packages and binaries: compression sniffing, delimiter detection and home
// directory expansion. The trait machinery itself lives in the formula,
// glycan and trait packages.
package glytrait
