package covdata

// Stats are the line counts of one file or one commit.
type Stats struct {
	Total   int64
	Covered int64
	Missed  int64
	Percent float64
}

// Summarize counts hit count symbols only. Neutral and ignored lines do not count.
func Summarize(symbols []Symbol) Stats {
	var st Stats
	for _, s := range symbols {
		if !s.IsCount() {
			continue
		}
		st.Total++
		if s == 0 {
			st.Missed++
		} else {
			st.Covered++
		}
	}
	st.Percent = Percent(st.Covered, st.Total)
	return st
}

// Add sums two stats and recomputes the percentage.
func (s Stats) Add(o Stats) Stats {
	sum := Stats{
		Total:   s.Total + o.Total,
		Covered: s.Covered + o.Covered,
		Missed:  s.Missed + o.Missed,
	}
	sum.Percent = Percent(sum.Covered, sum.Total)
	return sum
}

// Percent returns 100*covered/total, or 0 when total is 0.
func Percent(covered, total int64) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(covered) / float64(total)
}
