package grouping

import "strings"

// dedupe enforces global name uniqueness over an ordered candidate list of
// bare actions and virtual group nodes. The rules are order-sensitive and
// asymmetric; downstream callers depend on the exact outcome being
// reproducible for the same input:
//
//   - bare vs bare: the first occurrence wins, the later one is dropped.
//   - bare vs virtual, in either arrival order: the virtual node yields the
//     name. If it has a possible prefix it is renamed and both survive;
//     otherwise the virtual node is dropped.
//   - virtual vs virtual: the earlier-kept node is the one renamed (or
//     dropped when it has no prefix); the later arrival keeps the base name.
func dedupe(candidates []Entry) []Entry {
	kept := make([]Entry, 0, len(candidates))
	seen := make(map[string]int, len(candidates)) // name -> index in kept

	drop := func(i int) {
		kept[i] = Entry{}
	}

	// rename replaces kept[i] with a prefixed clone, or drops it when the
	// node has no prefix or the prefixed name is itself taken.
	rename := func(i int) {
		node := kept[i].Group
		clone, ok := withPrefix(node)
		if !ok {
			drop(i)
			return
		}
		if _, taken := seen[clone.Name]; taken {
			drop(i)
			return
		}
		kept[i] = Entry{Group: clone}
		seen[clone.Name] = i
	}

	for _, cand := range candidates {
		name := cand.Name()
		prev, collides := seen[name]
		if !collides {
			kept = append(kept, cand)
			seen[name] = len(kept) - 1
			continue
		}

		prevIsGroup := kept[prev].Group != nil
		switch {
		case cand.Group == nil && !prevIsGroup:
			// bare vs bare: first wins.
			continue

		case cand.Group != nil && !prevIsGroup:
			// arriving virtual vs kept bare: rename or drop the arrival.
			clone, ok := withPrefix(cand.Group)
			if !ok {
				continue
			}
			if _, taken := seen[clone.Name]; taken {
				continue
			}
			kept = append(kept, Entry{Group: clone})
			seen[clone.Name] = len(kept) - 1

		default:
			// kept virtual loses the name to the arrival, bare or virtual.
			rename(prev)
			kept = append(kept, cand)
			seen[name] = len(kept) - 1
		}
	}

	out := kept[:0]
	for _, e := range kept {
		if e.Action != nil || e.Group != nil {
			out = append(out, e)
		}
	}
	return out
}

// withPrefix clones the node under its disambiguated name
// (activate_<prefix><suffix>). Returns false when the node has no prefix.
func withPrefix(n *Node) (*Node, bool) {
	if n.PossiblePrefix == "" {
		return nil, false
	}
	suffix := strings.TrimPrefix(n.Name, ActivatePrefix)
	clone := n.Clone()
	clone.Name = ActivatePrefix + n.PossiblePrefix + suffix
	return clone, true
}
