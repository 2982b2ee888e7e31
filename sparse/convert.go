package sparse

import "krysolve/kerr"

// CooToCSR implements the COO -> CSR conversion of spec §4.B: count
// occurrences per row into ia (prefix sum), then scatter entries
// through a per-row cursor copy of ia, which leaves ia itself intact
// so no restoring shift is needed. Duplicate (i,j) entries are retained, not
// summed -- matching the established contract this spec preserves.
// Result rows are not guaranteed sorted by column.
func CooToCSR(a *COO) (*CSR, error) {
	if err := a.Check(); err != nil {
		return nil, err
	}
	nrow, nnz := a.NRow, len(a.Val)
	out := &CSR{NRow: nrow, NCol: a.NCol, Nnz: nnz, IA: make([]int, nrow+1), JA: make([]int, nnz), Val: make([]float64, nnz)}

	for _, r := range a.RowInd {
		out.IA[r+1]++
	}
	for i := 0; i < nrow; i++ {
		out.IA[i+1] += out.IA[i]
	}

	cursor := make([]int, nrow)
	copy(cursor, out.IA[:nrow])
	for k := 0; k < nnz; k++ {
		r := a.RowInd[k]
		pos := cursor[r]
		out.JA[pos] = a.ColInd[k]
		out.Val[pos] = a.Val[k]
		cursor[r]++
	}
	return out, nil
}

// CSRToCOO implements the inverse conversion: each CSR entry becomes
// one COO triple, in (row, then stored order) order.
func CSRToCOO(a *CSR) (*COO, error) {
	if err := a.Check(); err != nil {
		return nil, err
	}
	out := NewCOO(a.NRow, a.NCol, a.Nnz)
	k := 0
	for i := 0; i < a.NRow; i++ {
		for p := a.IA[i]; p < a.IA[i+1]; p++ {
			out.RowInd[k] = i
			out.ColInd[k] = a.JA[p]
			out.Val[k] = a.Val[p]
			k++
		}
	}
	return out, nil
}

// CSRTranspose implements spec §4.B's CSR transpose: construct the
// transpose's row counts from ja, prefix-sum, then scatter.
func CSRTranspose(a *CSR) (*CSR, error) {
	if err := a.Check(); err != nil {
		return nil, err
	}
	nrowT, ncolT := a.NCol, a.NRow
	out := &CSR{NRow: nrowT, NCol: ncolT, Nnz: a.Nnz, IA: make([]int, nrowT+1), JA: make([]int, a.Nnz), Val: make([]float64, a.Nnz)}

	for _, j := range a.JA {
		out.IA[j+1]++
	}
	for i := 0; i < nrowT; i++ {
		out.IA[i+1] += out.IA[i]
	}

	cursor := make([]int, nrowT)
	copy(cursor, out.IA[:nrowT])
	for i := 0; i < a.NRow; i++ {
		for p := a.IA[i]; p < a.IA[i+1]; p++ {
			j := a.JA[p]
			pos := cursor[j]
			out.JA[pos] = i
			out.Val[pos] = a.Val[p]
			cursor[j]++
		}
	}
	return out, nil
}

// CSRAdd implements spec §4.B's CSR + alpha*CSR: a structural union via
// a two-pointer merge per row into a newly allocated CSR, where each
// column index appears at most once per row with summed values. a and
// b must share the same shape.
func CSRAdd(a *CSR, alpha float64, b *CSR) (*CSR, error) {
	if a.NRow != b.NRow || a.NCol != b.NCol {
		return nil, kerr.Newf("sparse.CSRAdd", kerr.ErrFormat, 0, 0, "dimension mismatch: %dx%d vs %dx%d", a.NRow, a.NCol, b.NRow, b.NCol)
	}
	nrow := a.NRow
	ia := make([]int, nrow+1)
	var ja []int
	var val []float64

	// Sorted merge requires sorted column indices within each row, so
	// both operands' rows are sorted into fresh scratch copies per row
	// first (the containers themselves are not required to be sorted,
	// per spec §3).
	for i := 0; i < nrow; i++ {
		aCols, aVals := sortedRow(a, i)
		bCols, bVals := sortedRow(b, i)

		ai, bi := 0, 0
		for ai < len(aCols) && bi < len(bCols) {
			switch {
			case aCols[ai] < bCols[bi]:
				ja = append(ja, aCols[ai])
				val = append(val, aVals[ai])
				ai++
			case aCols[ai] > bCols[bi]:
				ja = append(ja, bCols[bi])
				val = append(val, alpha*bVals[bi])
				bi++
			default:
				ja = append(ja, aCols[ai])
				val = append(val, aVals[ai]+alpha*bVals[bi])
				ai++
				bi++
			}
		}
		for ; ai < len(aCols); ai++ {
			ja = append(ja, aCols[ai])
			val = append(val, aVals[ai])
		}
		for ; bi < len(bCols); bi++ {
			ja = append(ja, bCols[bi])
			val = append(val, alpha*bVals[bi])
		}
		ia[i+1] = len(ja)
	}
	return &CSR{NRow: nrow, NCol: a.NCol, Nnz: len(ja), IA: ia, JA: ja, Val: val}, nil
}

// sortedRow returns row i's (column, value) pairs sorted by column,
// with duplicate columns within the row pre-summed -- a local copy, it
// never mutates a's storage (which need not be sorted per spec §3).
func sortedRow(a *CSR, row int) ([]int, []float64) {
	start, end := a.IA[row], a.IA[row+1]
	n := end - start
	cols := make([]int, n)
	vals := make([]float64, n)
	copy(cols, a.JA[start:end])
	copy(vals, a.Val[start:end])

	// insertion sort: CSR rows in these kernels are short (bandwidth
	// of a PDE discretization stencil), so O(n^2) is fine and avoids
	// allocating sort.Interface boilerplate for a pair of slices.
	insertionSortPairs(cols, vals)

	// merge duplicate columns (spec's CSR+alphaCSR contract requires
	// summed values, distinct from CooToCSR's "retain duplicates").
	outCols := cols[:0:0]
	outVals := vals[:0:0]
	for i := 0; i < n; {
		j := i + 1
		sum := vals[i]
		for j < n && cols[j] == cols[i] {
			sum += vals[j]
			j++
		}
		outCols = append(outCols, cols[i])
		outVals = append(outVals, sum)
		i = j
	}
	return outCols, outVals
}

func insertionSortPairs(cols []int, vals []float64) {
	for i := 1; i < len(cols); i++ {
		c, v := cols[i], vals[i]
		j := i - 1
		for j >= 0 && cols[j] > c {
			cols[j+1] = cols[j]
			vals[j+1] = vals[j]
			j--
		}
		cols[j+1] = c
		vals[j+1] = v
	}
}
