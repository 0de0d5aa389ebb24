package types

// StrategyResult holds the realized returns of one strategy evaluation.
// The three slices are aligned index-for-index and always equal in length.
type StrategyResult struct {
	Strategy    string
	Dates       []string
	GeomReturns []float64
	LogReturns  []float64
}
