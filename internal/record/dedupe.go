package record

import "sort"

// DedupePlan is the outcome of resolving duplicate records for one entity.
// Survivors holds exactly one record per canonical identity; Losers holds
// the records marked for removal.
type DedupePlan struct {
	Survivors []Record
	Losers    []Record
}

// ResolveDuplicates groups records by canonical identity and selects one
// survivor per group: most recent CreatedAt, ties broken by highest store id
// (ULIDs sort by creation time, so the lexically highest id is the latest).
//
// Running the plan on an already-deduplicated set yields no losers, so the
// pass is safe to repeat.
func ResolveDuplicates(records []Record) DedupePlan {
	groups := make(map[string][]Record)
	order := make([]string, 0, len(records))
	for _, r := range records {
		key := r.CanonicalPath()
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], r)
	}

	var plan DedupePlan
	for _, key := range order {
		group := groups[key]
		if len(group) == 1 {
			plan.Survivors = append(plan.Survivors, group[0])
			continue
		}

		sort.Slice(group, func(i, j int) bool {
			if group[i].CreatedAt != group[j].CreatedAt {
				return group[i].CreatedAt > group[j].CreatedAt
			}
			return group[i].ID > group[j].ID
		})

		plan.Survivors = append(plan.Survivors, group[0])
		plan.Losers = append(plan.Losers, group[1:]...)
	}

	return plan
}
