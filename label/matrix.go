package label

import (
	"gonum.org/v1/gonum/mat"
)

// Matrix is a candidate-by-LF label matrix with values in {-1, 0, +1}.
// Rows follow the candidate order of the Apply call that built it; Keys
// holds the candidate keys for those rows.
type Matrix struct {
	*mat.Dense
	LFNames []string
	Keys    []string
}

// SummaryStats are matrix-level labeling statistics: each is a fraction of
// candidates.
type SummaryStats struct {
	// Coverage is the fraction of candidates with at least one label.
	Coverage float64
	// Overlaps is the fraction of candidates labeled by two or more LFs.
	Overlaps float64
	// Conflicts is the fraction of candidates with disagreeing labels.
	Conflicts float64
}

// Summary computes matrix-level coverage, overlap and conflict fractions.
func (m *Matrix) Summary() SummaryStats {
	rows, cols := m.Dims()
	if rows == 0 {
		return SummaryStats{}
	}
	var covered, overlapped, conflicted int
	for i := 0; i < rows; i++ {
		nonZero, pos, neg := 0, false, false
		for j := 0; j < cols; j++ {
			switch v := m.At(i, j); {
			case v > 0:
				nonZero++
				pos = true
			case v < 0:
				nonZero++
				neg = true
			}
		}
		if nonZero > 0 {
			covered++
		}
		if nonZero > 1 {
			overlapped++
		}
		if pos && neg {
			conflicted++
		}
	}
	n := float64(rows)
	return SummaryStats{
		Coverage:  float64(covered) / n,
		Overlaps:  float64(overlapped) / n,
		Conflicts: float64(conflicted) / n,
	}
}

// LFStat holds per-LF labeling statistics.
type LFStat struct {
	Name string
	// Coverage is the fraction of candidates this LF labels.
	Coverage float64
	// Overlaps is the fraction of candidates this LF labels that at least
	// one other LF also labels.
	Overlaps float64
	// Conflicts is the fraction of candidates this LF labels where another
	// LF disagrees.
	Conflicts float64
}

// LFStats computes per-LF coverage, overlap and conflict fractions.
func (m *Matrix) LFStats() []LFStat {
	rows, cols := m.Dims()
	stats := make([]LFStat, cols)
	for j := range stats {
		stats[j].Name = m.LFNames[j]
	}
	if rows == 0 {
		return stats
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := m.At(i, j)
			if v == 0 {
				continue
			}
			stats[j].Coverage++
			overlap, conflict := false, false
			for k := 0; k < cols; k++ {
				if k == j || m.At(i, k) == 0 {
					continue
				}
				overlap = true
				if m.At(i, k) != v {
					conflict = true
				}
			}
			if overlap {
				stats[j].Overlaps++
			}
			if conflict {
				stats[j].Conflicts++
			}
		}
	}
	n := float64(rows)
	for j := range stats {
		stats[j].Coverage /= n
		stats[j].Overlaps /= n
		stats[j].Conflicts /= n
	}
	return stats
}

// UniformColumns returns the LF columns labeling every candidate with the
// same non-zero value. Such columns carry no signal for accuracy modeling:
// the column sum's magnitude equals the row count exactly when every entry
// is +1 or every entry is -1.
func (m *Matrix) UniformColumns() []int {
	rows, cols := m.Dims()
	var uniform []int
	for j := 0; j < cols; j++ {
		sum := 0.0
		for i := 0; i < rows; i++ {
			sum += m.At(i, j)
		}
		if sum == float64(rows) || sum == -float64(rows) {
			uniform = append(uniform, j)
		}
	}
	return uniform
}

// DuplicateColumns returns the LF columns whose labeling signature repeats
// an earlier column: same non-zero rows with the same values. The first
// column of each signature is kept.
func (m *Matrix) DuplicateColumns() []int {
	rows, cols := m.Dims()
	seen := make(map[string]bool, cols)
	var dups []int
	for j := 0; j < cols; j++ {
		sig := make([]byte, rows)
		for i := 0; i < rows; i++ {
			// Values are -1, 0 or +1, so one byte per row suffices.
			sig[i] = byte(int8(m.At(i, j)))
		}
		key := string(sig)
		if seen[key] {
			dups = append(dups, j)
			continue
		}
		seen[key] = true
	}
	return dups
}
