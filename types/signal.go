package types

// Entry is one (instrument, indicator value) pair produced by a ranking
// signal. Entries are used transiently and never persisted.
type Entry struct {
	Code  string
	Value float64
}
