package binaryio

import "math"

func float32FromBits(d uint32) float32 {
	return math.Float32frombits(d)
}

func float64FromBits(q uint64) float64 {
	return math.Float64frombits(q)
}

func float32Bits(v float32) uint32 {
	return math.Float32bits(v)
}

func float64Bits(v float64) uint64 {
	return math.Float64bits(v)
}
