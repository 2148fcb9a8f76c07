package domain

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// CorrelationMatrix maps pairs of variables to their Pearson coefficient.
// Coeffs is indexed by the order of Variables; a nil entry is the defined
// "undefined" marker for pairs with too few joint observations or zero
// variance. The matrix is symmetric and its defined diagonal is exactly 1.
type CorrelationMatrix struct {
	Variables []string     `json:"variables"`
	Coeffs    [][]*float64 `json:"coefficients"`
}

// At returns the coefficient for a pair of variable names. The second result
// is false when either name is absent or the pair is undefined.
func (m CorrelationMatrix) At(a, b string) (float64, bool) {
	ai, bi := -1, -1
	for i, v := range m.Variables {
		if v == a {
			ai = i
		}
		if v == b {
			bi = i
		}
	}
	if ai < 0 || bi < 0 || m.Coeffs[ai][bi] == nil {
		return 0, false
	}
	return *m.Coeffs[ai][bi], true
}

// Correlate computes a pairwise-complete Pearson correlation matrix over the
// named column vectors. For each pair, only rows where both variables are
// present contribute; other variables' missingness is irrelevant. Pairs with
// fewer than two jointly-present rows, or zero variance in either variable,
// are undefined. All columns must have the same length.
func Correlate(names []string, columns [][]*float64) (CorrelationMatrix, error) {
	if len(names) != len(columns) {
		return CorrelationMatrix{}, &ConfigurationError{Field: "variables", Msg: "names and columns length mismatch"}
	}
	for i := 1; i < len(columns); i++ {
		if len(columns[i]) != len(columns[0]) {
			return CorrelationMatrix{}, &ConfigurationError{Field: "variables", Msg: fmt.Sprintf("column %q length differs", names[i])}
		}
	}

	m := CorrelationMatrix{Variables: append([]string(nil), names...)}
	m.Coeffs = make([][]*float64, len(names))
	for i := range m.Coeffs {
		m.Coeffs[i] = make([]*float64, len(names))
	}

	for i := range names {
		for j := i; j < len(names); j++ {
			coeff := pairwiseCorrelation(columns[i], columns[j], i == j)
			m.Coeffs[i][j] = coeff
			m.Coeffs[j][i] = coeff
		}
	}
	return m, nil
}

// pairwiseCorrelation filters to jointly-present rows and computes the
// Pearson coefficient. The diagonal is pinned to exactly 1 when defined so
// floating-point round-off cannot leak into the contract.
func pairwiseCorrelation(xs, ys []*float64, diagonal bool) *float64 {
	x := make([]float64, 0, len(xs))
	y := make([]float64, 0, len(ys))
	for k := range xs {
		if xs[k] != nil && ys[k] != nil {
			x = append(x, *xs[k])
			y = append(y, *ys[k])
		}
	}
	if len(x) < 2 {
		return nil
	}
	if stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return nil
	}
	if diagonal {
		return Float(1)
	}
	return Float(stat.Correlation(x, y, nil))
}

// CorrelateSeries computes the matrix over named daily columns. Unknown
// column names are a configuration error.
func CorrelateSeries(s Series, names []string) (CorrelationMatrix, error) {
	columns := make([][]*float64, len(names))
	for i, name := range names {
		col, ok := s.Column(name)
		if !ok {
			return CorrelationMatrix{}, &ConfigurationError{Field: "variables", Msg: fmt.Sprintf("unknown column %q", name)}
		}
		columns[i] = col
	}
	return Correlate(names, columns)
}

// CorrelateMonthly computes the matrix over the monthly table, accepting the
// daily column names as aliases for their monthly reducers.
func CorrelateMonthly(aggs []MonthlyAggregate, names []string) (CorrelationMatrix, error) {
	columns := make([][]*float64, len(names))
	for i, name := range names {
		col, ok := MonthlyColumn(aggs, name)
		if !ok {
			return CorrelationMatrix{}, &ConfigurationError{Field: "variables", Msg: fmt.Sprintf("unknown column %q", name)}
		}
		columns[i] = col
	}
	return Correlate(names, columns)
}
