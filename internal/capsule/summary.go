package capsule

import "sort"

// Summarize folds the full session list into its aggregate view. The result
// depends only on the sessions and the sample cap, never on the previous
// summary.
func Summarize(sessions []SessionEntry, hookSampleSize int) Summary {
	s := Summary{
		TotalSessions: len(sessions),
		VibeHistogram: make(map[Vibe]int),
	}

	topicSet := make(map[string]bool)
	sourceSet := make(map[string]bool)
	var sources []string
	var hooks []string

	for _, e := range sessions {
		s.TotalExchanges += e.ExchangeCount

		if e.EstimatedDate != "" {
			if s.DateRange.Earliest == "" || e.EstimatedDate < s.DateRange.Earliest {
				s.DateRange.Earliest = e.EstimatedDate
			}
			if e.EstimatedDate > s.DateRange.Latest {
				s.DateRange.Latest = e.EstimatedDate
			}
		}

		for _, topic := range e.Topics {
			topicSet[topic] = true
		}

		if e.Vibe != "" {
			s.VibeHistogram[e.Vibe]++
		}

		hooks = append(hooks, e.ContinuityHooks...)

		if e.SourceRecordID != "" && !sourceSet[e.SourceRecordID] {
			sourceSet[e.SourceRecordID] = true
			sources = append(sources, e.SourceRecordID)
		}
	}

	s.TopicSet = make([]string, 0, len(topicSet))
	for topic := range topicSet {
		s.TopicSet = append(s.TopicSet, topic)
	}
	sort.Strings(s.TopicSet)

	if hookSampleSize > 0 && len(hooks) > hookSampleSize {
		hooks = hooks[:hookSampleSize]
	}
	s.HooksSample = hooks
	s.Sources = sources

	if len(s.VibeHistogram) == 0 {
		s.VibeHistogram = nil
	}

	return s
}
