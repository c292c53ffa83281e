package models

import "time"

// Person is a team member as seen by the board: someone tasks can be
// delegated to.
type Person struct {
	ID         string
	Name       string
	Color      string
	Email      string
	Role       string
	Department string
	CreatedAt  time.Time
}

func (p *Person) Clone() *Person {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// MemberRecord is the extended growth record of a team member. Every slice
// is stored remotely as an encoded blob and decoded on fetch.
type MemberRecord struct {
	Name                string         `json:"name"`
	Goals               []Goal         `json:"goals"`
	Notes               []Note         `json:"notes"`
	OneOnOnes           []OneOnOne     `json:"one_on_ones"`
	MoraleCheckIns      []CheckIn      `json:"morale_check_ins"`
	PerformanceCheckIns []CheckIn      `json:"performance_check_ins"`
	ReviewCycles        []ReviewCycle  `json:"review_cycles"`
	ClientDetails       []ClientDetail `json:"client_details"`
	RedFlags            []RedFlag      `json:"red_flags"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

type Goal struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Details   string     `json:"details,omitempty"`
	DueAt     *time.Time `json:"due_at,omitempty"`
	Done      bool       `json:"done"`
	CreatedAt time.Time  `json:"created_at"`
}

type Note struct {
	ID        string    `json:"id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type OneOnOne struct {
	ID        string    `json:"id"`
	HeldAt    time.Time `json:"held_at"`
	Summary   string    `json:"summary"`
	ActionIDs []string  `json:"action_ids,omitempty"`
}

type CheckIn struct {
	ID        string    `json:"id"`
	Score     int       `json:"score"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ReviewCycle struct {
	ID       string    `json:"id"`
	Period   string    `json:"period"`
	Rating   string    `json:"rating,omitempty"`
	Summary  string    `json:"summary,omitempty"`
	Reviewed time.Time `json:"reviewed"`
}

type ClientDetail struct {
	Client string `json:"client"`
	Role   string `json:"role,omitempty"`
	Notes  string `json:"notes,omitempty"`
}

type RedFlag struct {
	ID        string    `json:"id"`
	Reason    string    `json:"reason"`
	Resolved  bool      `json:"resolved"`
	CreatedAt time.Time `json:"created_at"`
}
