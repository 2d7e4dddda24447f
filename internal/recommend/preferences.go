// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package recommend

// Selection is the effective questionnaire outcome of a request.
type Selection struct {
	Mood      Mood      `json:"mood"`
	Vibe      Vibe      `json:"vibe"`
	Discovery Discovery `json:"discovery"`
}

// ParseAnswers resolves questionnaire answers to a Selection. Unanswered
// questions stay "balanced". When a question is answered more than once the
// last answer wins, whatever its value; an empty or unrecognized option
// selects no weighting.
func ParseAnswers(answers []Answer) Selection {
	sel := Selection{
		Mood:      MoodBalanced,
		Vibe:      VibeBalanced,
		Discovery: DiscoveryBalanced,
	}

	for _, a := range answers {
		switch a.QuestionID {
		case QuestionMood:
			sel.Mood = Mood(a.SelectedOption)
		case QuestionVibe:
			sel.Vibe = Vibe(a.SelectedOption)
		case QuestionDiscovery:
			sel.Discovery = Discovery(a.SelectedOption)
		}
	}

	return sel
}

// SongSet is a set of song ids.
type SongSet map[string]struct{}

// Has reports whether id is in the set.
func (s SongSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// SplitPreferences partitions preferences into liked and disliked song ids.
// A song rated more than once keeps its most recent rating; on equal
// timestamps the later entry in prefs wins. The two sets are disjoint.
func SplitPreferences(prefs []Preference) (liked, disliked SongSet) {
	latest := make(map[string]int, len(prefs))
	for i, p := range prefs {
		if p.SongID == "" {
			continue
		}
		prev, seen := latest[p.SongID]
		if !seen || !p.Timestamp.Before(prefs[prev].Timestamp) {
			latest[p.SongID] = i
		}
	}

	liked = make(SongSet)
	disliked = make(SongSet)
	for id, i := range latest {
		if prefs[i].Liked {
			liked[id] = struct{}{}
		} else {
			disliked[id] = struct{}{}
		}
	}
	return liked, disliked
}
