package embedding

// meanPool averages the token vectors of hidden (seqLen x dims, row-major) whose attention
// mask is set, which is how sentence-transformers derives a sentence embedding from
// last_hidden_state. A mask with no set tokens yields a zero vector.
func meanPool(hidden []float32, mask []int64, dims int) []float32 {
	out := make([]float32, dims)
	var n float32
	for t, m := range mask {
		if m == 0 {
			continue
		}
		row := hidden[t*dims : (t+1)*dims]
		for d, v := range row {
			out[d] += v
		}
		n++
	}
	if n == 0 {
		return out
	}
	for d := range out {
		out[d] /= n
	}
	return out
}
