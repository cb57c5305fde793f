package capsule

import "sort"

// Merge unions new session entries into the capsule, keyed by EntryID.
// Legacy entries missing an id are backfilled first. Entries whose id is
// already present are discarded; accepted entries are never mutated or
// removed by later merges. The session list is re-sorted and the summary
// recomputed by a full fold after every merge.
//
// Merge is a monotonic, idempotent set-union: applying the same batch twice
// changes nothing after the first application.
func Merge(c *Capsule, entries []SessionEntry, now int64, hookSampleSize int) SyncStats {
	for i := range c.Sessions {
		BackfillEntryID(c.EntityID, &c.Sessions[i])
	}

	existing := make(map[string]bool, len(c.Sessions))
	for _, s := range c.Sessions {
		existing[s.EntryID] = true
	}

	var stats SyncStats
	for _, e := range entries {
		if e.EntryID == "" {
			BackfillEntryID(c.EntityID, &e)
		}
		if existing[e.EntryID] {
			stats.AlreadyPresent++
			continue
		}
		existing[e.EntryID] = true
		c.Sessions = append(c.Sessions, e)
		stats.Added++
	}

	sortSessions(c.Sessions)
	c.Summary = Summarize(c.Sessions, hookSampleSize)
	c.SyncStats = stats
	c.LastSyncedAt = now

	return stats
}

// sortSessions orders by estimated date ascending; EntryID breaks ties so
// the order is deterministic across runs.
func sortSessions(sessions []SessionEntry) {
	sort.SliceStable(sessions, func(i, j int) bool {
		if sessions[i].EstimatedDate != sessions[j].EstimatedDate {
			return sessions[i].EstimatedDate < sessions[j].EstimatedDate
		}
		return sessions[i].EntryID < sessions[j].EntryID
	})
}
