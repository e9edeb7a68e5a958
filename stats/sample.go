// Copyright 2022 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package stats

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Sample is an unordered set of numerical data.
type Sample struct {
	data   []float64
	sorted []float64 // cached sorted copy of data
}

// NewSample creates a Sample. The data slice is used as is, not copied.
func NewSample(data []float64) *Sample {
	return &Sample{data: data}
}

// Data returns the sample data.
func (s *Sample) Data() []float64 { return s.data }

// Copy the Sample, so the original data can be safely modified.
func (s *Sample) Copy() *Sample {
	cp := make([]float64, len(s.data))
	copy(cp, s.data)
	return NewSample(cp)
}

// Mean of the sample; 0 for an empty sample.
func (s *Sample) Mean() float64 {
	if len(s.data) == 0 {
		return 0
	}
	return stat.Mean(s.data, nil)
}

// StdDev is the unbiased sample standard deviation; 0 for fewer than 2
// elements.
func (s *Sample) StdDev() float64 {
	if len(s.data) < 2 {
		return 0
	}
	return stat.StdDev(s.data, nil)
}

// Min of the sample; 0 for an empty sample.
func (s *Sample) Min() float64 {
	if len(s.data) == 0 {
		return 0
	}
	return floats.Min(s.data)
}

// Max of the sample; 0 for an empty sample.
func (s *Sample) Max() float64 {
	if len(s.data) == 0 {
		return 0
	}
	return floats.Max(s.data)
}

// Quantile of the sample for p in [0..1], using the empirical distribution.
func (s *Sample) Quantile(p float64) float64 {
	if len(s.data) == 0 {
		return 0
	}
	if s.sorted == nil {
		s.sorted = make([]float64, len(s.data))
		copy(s.sorted, s.data)
		sort.Float64s(s.sorted)
	}
	return stat.Quantile(p, stat.Empirical, s.sorted, nil)
}

// Median of the sample.
func (s *Sample) Median() float64 { return s.Quantile(0.5) }

// Summary statistics of a Sample.
type Summary struct {
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Median float64
	Max    float64
}

// Summary computes all the summary statistics.
func (s *Sample) Summary() Summary {
	return Summary{
		Count:  len(s.data),
		Mean:   s.Mean(),
		StdDev: s.StdDev(),
		Min:    s.Min(),
		Median: s.Median(),
		Max:    s.Max(),
	}
}
