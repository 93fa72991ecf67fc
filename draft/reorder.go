package draft

import "github.com/formbench/formbench/model"

// Move relocates the field at index from to index to, shifting everything in
// between by one position. It is a single-element move, not a swap: the
// remaining fields keep their relative order. Out-of-range indexes and
// from == to leave the list untouched and return it as-is.
func Move(fields []model.Field, from, to int) []model.Field {
	n := len(fields)
	if from == to || from < 0 || from >= n || to < 0 || to >= n {
		return fields
	}

	moved := fields[from]
	out := make([]model.Field, 0, n)
	out = append(out, fields[:from]...)
	out = append(out, fields[from+1:]...)

	out = append(out, model.Field{})
	copy(out[to+1:], out[to:])
	out[to] = moved
	return out
}

// Renumber assigns contiguous 1-based order values following the current
// positions. Called only at the save boundary so transient orderings from
// drag operations are never persisted.
func Renumber(fields []model.Field) []model.Field {
	out := make([]model.Field, len(fields))
	copy(out, fields)
	for i := range out {
		out[i].Order = i + 1
	}
	return out
}
