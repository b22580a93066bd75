// Package model contains domain models passed between layers.
package model

import "time"

// Participant is a registered person tracked by the leaderboard.
type Participant struct {
	ID         int64
	Name       string
	Department string
	Handle     string // LeetCode username, unique across participants
	Score      *int   // nil until the first successful fetch
	CreatedAt  time.Time
}

// ScoreOrZero returns the participant's score, treating an unset score as 0.
// Unset scores participate in improvement math as 0.
func (p Participant) ScoreOrZero() int {
	if p.Score == nil {
		return 0
	}
	return *p.Score
}

// Snapshot records a participant's score for one week together with the
// delta against the most recent prior week. At most one snapshot exists
// per (participant, week).
type Snapshot struct {
	ID            int64
	ParticipantID int64
	Week          time.Time // the Monday identifying the week, midnight
	Score         int
	Improvement   int
	CreatedAt     time.Time
}

// Improvement is a weekly-improvements read row joined to the participant.
type Improvement struct {
	Name        string
	Handle      string
	Improvement int
}

// Departments is the fixed set of departments accepted at registration.
var Departments = []string{"cse", "it", "ece", "eee", "mech", "civil"}

// ValidDepartment reports whether dept is one of the accepted departments.
func ValidDepartment(dept string) bool {
	for _, d := range Departments {
		if d == dept {
			return true
		}
	}
	return false
}
