// Package types contains common types used across the application
package types

import "fmt"

// Entry represents a leaderboard entry
type Entry struct {
	Rank    int     `json:"rank"`
	Team    string  `json:"team"`
	Rating  float64 `json:"rating"`
	League  string  `json:"league,omitempty"`
	Country string  `json:"country,omitempty"`
	Matches int     `json:"matches"`
	Wins    int     `json:"wins"`
	Draws   int     `json:"draws"`
	Losses  int     `json:"losses"`
}

// Record returns the W-D-L string of the entry.
func (e Entry) Record() string {
	return fmt.Sprintf("%d-%d-%d", e.Wins, e.Draws, e.Losses)
}
