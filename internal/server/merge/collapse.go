package merge

import "time"

// Keyed is a change that targets one record and carries a revision time.
type Keyed interface {
	Key() string
	Revision() time.Time
}

// Collapse keeps one change per key: the one with the greatest revision,
// the later one on a tie. Results come out in order of each key's first
// appearance. Collapsing does not replace the stale check against the
// stored record.
func Collapse[C Keyed](changes []C) []C {
	if len(changes) < 2 {
		return changes
	}

	pos := make(map[string]int, len(changes))
	out := make([]C, 0, len(changes))

	for _, c := range changes {
		i, seen := pos[c.Key()]
		if !seen {
			pos[c.Key()] = len(out)
			out = append(out, c)
			continue
		}
		if !c.Revision().Before(out[i].Revision()) {
			out[i] = c
		}
	}
	return out
}
