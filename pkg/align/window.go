package align

const (
	// DefaultMaxGap is how many non-matching tokens may sit between two matched phrase tokens.
	DefaultMaxGap = 4
	// DefaultMaxMatches bounds FindWindows.
	DefaultMaxMatches = 3
	// ContiguousGap requires phrase tokens to be spoken back to back.
	ContiguousGap = 0
)

// Window is an inclusive token index span matching a phrase.
type Window struct {
	Start int
	End   int
}

// FindWindow returns the first window at or after from whose tokens spell phrase
// in order. Each candidate starts on a token equal to phrase[0] and is abandoned
// once more than maxGap non-matching tokens follow the last matched token. The
// first complete candidate wins; there is no backtracking.
func FindWindow(tokens, phrase []string, from, maxGap int) (Window, bool) {
	n, m := len(tokens), len(phrase)
	if m == 0 || n == 0 {
		return Window{}, false
	}
	if from < 0 {
		from = 0
	}
	for i := from; i < n; i++ {
		if tokens[i] != phrase[0] {
			continue
		}
		j, last := 1, i
		for k := i + 1; k < n && j < m; k++ {
			if tokens[k] == phrase[j] {
				last = k
				j++
				continue
			}
			if k-last > maxGap {
				break
			}
		}
		if j == m {
			return Window{Start: i, End: last}, true
		}
	}
	return Window{}, false
}

// FindWindows repeats FindWindow from just past each match, returning at most
// maxMatches windows in transcript order.
func FindWindows(tokens, phrase []string, from, maxGap, maxMatches int) []Window {
	var out []Window
	cursor := from
	for len(out) < maxMatches && cursor < len(tokens) {
		w, ok := FindWindow(tokens, phrase, cursor, maxGap)
		if !ok {
			break
		}
		out = append(out, w)
		cursor = w.End + 1
	}
	return out
}
