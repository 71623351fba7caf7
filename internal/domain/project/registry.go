package project

import "math"

// The registry functions below treat a []Project as an immutable snapshot:
// they never modify their input and return a new slice when anything
// changes. Unknown IDs and counter indexes are silent no-ops that return the
// input unchanged.

// Add appends p to the end of list.
func Add(list []Project, p Project) []Project {
	next := make([]Project, len(list), len(list)+1)
	copy(next, list)
	return append(next, p)
}

// Delete returns list without the project whose ID is id.
func Delete(list []Project, id string) []Project {
	i := indexOf(list, id)
	if i < 0 {
		return list
	}
	next := make([]Project, 0, len(list)-1)
	next = append(next, list[:i]...)
	return append(next, list[i+1:]...)
}

// UpdateCounter sets counter idx of project id to value. Negative values are
// stored as 0, so every counter in a snapshot is non-negative.
func UpdateCounter(list []Project, id string, idx, value int) []Project {
	if !validIndex(idx) {
		return list
	}
	i := indexOf(list, id)
	if i < 0 {
		return list
	}
	next := make([]Project, len(list))
	copy(next, list)
	next[i].Counters[idx].Value = max(0, value)
	return next
}

// Increment adds one to counter idx of project id, saturating at math.MaxInt.
func Increment(list []Project, id string, idx int) []Project {
	return step(list, id, idx, func(v int) int {
		if v == math.MaxInt {
			return v
		}
		return v + 1
	})
}

// Decrement subtracts one from counter idx of project id, stopping at zero.
func Decrement(list []Project, id string, idx int) []Project {
	return step(list, id, idx, func(v int) int { return max(0, v-1) })
}

// Reset sets counter idx of project id to zero.
func Reset(list []Project, id string, idx int) []Project {
	return UpdateCounter(list, id, idx, 0)
}

// Find returns the project with the given ID.
func Find(list []Project, id string) (Project, bool) {
	i := indexOf(list, id)
	if i < 0 {
		return Project{}, false
	}
	return list[i], true
}

func step(list []Project, id string, idx int, fn func(int) int) []Project {
	if !validIndex(idx) {
		return list
	}
	p, ok := Find(list, id)
	if !ok {
		return list
	}
	return UpdateCounter(list, id, idx, fn(p.Counters[idx].Value))
}

func indexOf(list []Project, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

func validIndex(idx int) bool {
	return idx >= 0 && idx < CounterCount
}
