package toneadjust

import (
	"image"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ChannelStats summarizes one plane. Black and White count the samples
// sitting at 0 and 255, which is where saturation shows up.
type ChannelStats struct {
	Mean, StdDev float64
	Min, Max     float64
	Black, White int
}

// Stats computes ChannelStats for every plane of img.
func Stats(img *Image) [NumChannels]ChannelStats {
	var out [NumChannels]ChannelStats
	if img == nil {
		return out
	}
	for c := 0; c < NumChannels; c++ {
		out[c] = planeStats(img.Planes[c])
	}
	return out
}

func planeStats(p *image.Gray) ChannelStats {
	var s ChannelStats
	if p == nil || len(p.Pix) == 0 {
		return s
	}
	// Tally a histogram so the weighted moments run over 256 values
	// instead of every pixel.
	var hist [256]float64
	for _, v := range p.Pix {
		hist[v]++
	}
	values := make([]float64, 0, 256)
	weights := make([]float64, 0, 256)
	for v, n := range hist {
		if n == 0 {
			continue
		}
		values = append(values, float64(v))
		weights = append(weights, n)
	}
	s.Mean, s.StdDev = stat.MeanStdDev(values, weights)
	if len(values) == 1 {
		s.StdDev = 0
	}
	s.Min = floats.Min(values)
	s.Max = floats.Max(values)
	s.Black = int(hist[0])
	s.White = int(hist[255])
	return s
}
