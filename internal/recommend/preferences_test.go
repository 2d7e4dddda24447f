// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package recommend

import (
	"testing"
	"time"
)

func TestParseAnswers(t *testing.T) {
	tests := []struct {
		name    string
		answers []Answer
		want    Selection
	}{
		{
			name:    "no answers default to balanced",
			answers: nil,
			want:    Selection{Mood: MoodBalanced, Vibe: VibeBalanced, Discovery: DiscoveryBalanced},
		},
		{
			name: "all answered",
			answers: []Answer{
				{QuestionID: "mood", SelectedOption: "energetic"},
				{QuestionID: "vibe", SelectedOption: "sad"},
				{QuestionID: "discovery", SelectedOption: "explore"},
			},
			want: Selection{Mood: MoodEnergetic, Vibe: VibeSad, Discovery: DiscoveryExplore},
		},
		{
			name: "last answer wins",
			answers: []Answer{
				{QuestionID: "mood", SelectedOption: "energetic"},
				{QuestionID: "mood", SelectedOption: "chill"},
			},
			want: Selection{Mood: MoodChill, Vibe: VibeBalanced, Discovery: DiscoveryBalanced},
		},
		{
			name: "empty last answer replaces earlier one",
			answers: []Answer{
				{QuestionID: "vibe", SelectedOption: "happy"},
				{QuestionID: "vibe", SelectedOption: ""},
			},
			want: Selection{Mood: MoodBalanced, Vibe: "", Discovery: DiscoveryBalanced},
		},
		{
			name: "unknown question is ignored",
			answers: []Answer{
				{QuestionID: "tempo", SelectedOption: "fast"},
			},
			want: Selection{Mood: MoodBalanced, Vibe: VibeBalanced, Discovery: DiscoveryBalanced},
		},
		{
			name: "unknown option is kept verbatim",
			answers: []Answer{
				{QuestionID: "discovery", SelectedOption: "wildcard"},
			},
			want: Selection{Mood: MoodBalanced, Vibe: VibeBalanced, Discovery: "wildcard"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseAnswers(tt.answers); got != tt.want {
				t.Errorf("ParseAnswers() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseAnswers_EmptyMoodLeavesMoodAxesUnweighted(t *testing.T) {
	sel := ParseAnswers([]Answer{
		{QuestionID: "mood", SelectedOption: "energetic"},
		{QuestionID: "mood", SelectedOption: ""},
	})
	if sel.Mood != "" {
		t.Fatalf("Mood = %q, want empty", sel.Mood)
	}

	w := WeightsFor(sel.Mood, sel.Vibe)
	for _, axis := range []int{AxisEnergy, AxisTempo, AxisAcousticness} {
		if w[axis] != 1.0 {
			t.Errorf("weight[%d] = %v, want 1.0", axis, w[axis])
		}
	}
}

func TestSplitPreferences(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	prefs := []Preference{
		{SongID: "a", Liked: true, Timestamp: t0},
		{SongID: "b", Liked: false, Timestamp: t0},
		{SongID: "c", Liked: true, Timestamp: t0.Add(time.Hour)},
		{SongID: "c", Liked: false, Timestamp: t0},
		{SongID: "d", Liked: true, Timestamp: t0},
		{SongID: "d", Liked: false, Timestamp: t0},
		{SongID: "", Liked: true, Timestamp: t0},
	}

	liked, disliked := SplitPreferences(prefs)

	tests := []struct {
		id          string
		wantLiked   bool
		wantDislike bool
	}{
		{"a", true, false},
		{"b", false, true},
		{"c", true, false},  // newer like beats older dislike
		{"d", false, true},  // equal timestamps: later entry wins
		{"", false, false},  // empty ids are dropped
		{"zz", false, false}, // unknown
	}

	for _, tt := range tests {
		if liked.Has(tt.id) != tt.wantLiked {
			t.Errorf("liked.Has(%q) = %v, want %v", tt.id, liked.Has(tt.id), tt.wantLiked)
		}
		if disliked.Has(tt.id) != tt.wantDislike {
			t.Errorf("disliked.Has(%q) = %v, want %v", tt.id, disliked.Has(tt.id), tt.wantDislike)
		}
	}

	for id := range liked {
		if disliked.Has(id) {
			t.Errorf("song %q is both liked and disliked", id)
		}
	}
}
