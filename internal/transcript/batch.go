package transcript

// DefaultTokenBudget is the estimated token limit per summarization request.
const DefaultTokenBudget = 3000

// Batch splits lines, in order, into groups whose estimated token total stays
// within budget. A line that alone exceeds the budget gets a batch of its own;
// lines are never split or dropped. No lines yields no batches.
func Batch(lines []string, budget int) [][]string {
	var (
		batches [][]string
		current []string
		used    int
	)
	for _, line := range lines {
		cost := EstimateTokens(line)
		if used+cost <= budget {
			current = append(current, line)
			used += cost
			continue
		}
		if len(current) > 0 {
			batches = append(batches, current)
		}
		current = []string{line}
		used = cost
	}
	if len(current) > 0 {
		batches = append(batches, current)
	}
	return batches
}
