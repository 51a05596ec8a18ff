// Package editdist is the brute force reference matcher: a bounded Levenshtein
// distance checked against every vocabulary entry.
package editdist

// Bounded returns the Levenshtein distance between a and b counted in runes, or
// -1 once the distance is known to exceed threshold. Only the diagonal band of
// width 2*threshold+1 is computed and a row whose minimum is already over the
// threshold ends the computation.
func Bounded(a, b string, threshold int) int {
	if threshold < 0 {
		return -1
	}
	s, t := []rune(a), []rune(b)
	n, m := len(s), len(t)

	if n == 0 {
		return within(m, threshold)
	}
	if m == 0 {
		return within(n, threshold)
	}
	if abs(n-m) > threshold {
		return -1
	}
	// keep s as the shorter side
	if n > m {
		s, t = t, s
		n, m = m, n
	}

	inf := n + m + 1
	p := make([]int, n+1)
	d := make([]int, n+1)

	boundary := min(n, threshold) + 1
	for i := 0; i < boundary; i++ {
		p[i] = i
	}
	for i := boundary; i <= n; i++ {
		p[i] = inf
	}
	for i := range d {
		d[i] = inf
	}

	for j := 1; j <= m; j++ {
		tj := t[j-1]
		d[0] = j

		lo := max(1, j-threshold)
		hi := min(n, j+threshold)
		if lo > hi {
			return -1
		}
		if lo > 1 {
			d[lo-1] = inf
		}

		rowMin := inf
		for i := lo; i <= hi; i++ {
			if s[i-1] == tj {
				d[i] = p[i-1]
			} else {
				d[i] = 1 + min(d[i-1], p[i], p[i-1])
			}
			rowMin = min(rowMin, d[i])
		}
		if rowMin > threshold {
			return -1
		}
		p, d = d, p
	}

	return within(p[n], threshold)
}

// Distance is the plain Levenshtein distance between a and b in runes.
func Distance(a, b string) int {
	s, t := []rune(a), []rune(b)
	return Bounded(a, b, max(len(s), len(t)))
}

func within(dist, threshold int) int {
	if dist <= threshold {
		return dist
	}
	return -1
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
