//go:build cgo

package algorithms

import "cromulator/algorithms/gozstd"

func init() {
	Register(Backend{Name: "gozstd", Size: gozstd.CompressedSize, Leveled: true, MinLevel: gozstd.MinLevel, MaxLevel: gozstd.MaxLevel})
}
