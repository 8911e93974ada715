package grouping

// expandToFitBudget greedily expands collapsed groups, smallest first, until
// the visible slot count reaches expandUntil or no group can be expanded
// without pushing the total above hardLimit. The final total never exceeds
// hardLimit: expansions carried forward from a previous turn are collapsed
// again, largest first, if they alone breach it.
func expandToFitBudget(entries []Entry, expandUntil, hardLimit int) []Entry {
	total := 0
	for _, e := range entries {
		total += e.Slots()
	}

	for total > hardLimit {
		largest := largestExpanded(entries)
		if largest == nil {
			break
		}
		largest.Expanded = false
		total -= len(largest.Members) - 1
	}

	for total < expandUntil {
		smallest := smallestCollapsed(entries)
		if smallest == nil {
			break
		}
		if total+len(smallest.Members)-1 > hardLimit {
			break
		}
		smallest.Expanded = true
		total += len(smallest.Members) - 1
	}

	return entries
}

func smallestCollapsed(entries []Entry) *Node {
	var best *Node
	for _, e := range entries {
		n := e.Group
		if n == nil || n.Expanded {
			continue
		}
		if best == nil || len(n.Members) < len(best.Members) {
			best = n
		}
	}
	return best
}

func largestExpanded(entries []Entry) *Node {
	var best *Node
	for _, e := range entries {
		n := e.Group
		if n == nil || !n.Expanded {
			continue
		}
		if best == nil || len(n.Members) > len(best.Members) {
			best = n
		}
	}
	return best
}
