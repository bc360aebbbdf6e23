// Package models defines the domain types for Tiwaz.
package models

import (
	"strings"
	"time"
)

// Tier is the hierarchy level of an objective.
type Tier string

const (
	TierCompany    Tier = "company"
	TierDepartment Tier = "department"
	TierIndividual Tier = "individual"
)

// Tiers lists every known tier, shallowest first.
var Tiers = []Tier{TierCompany, TierDepartment, TierIndividual}

// Label returns the capitalised tier name used on badges.
func (t Tier) Label() string {
	if t == "" {
		return ""
	}
	s := string(t)
	return strings.ToUpper(s[:1]) + s[1:]
}

// Status is the progress state of an objective.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusComplete   Status = "complete"
	StatusLate       Status = "late"
)

// Statuses lists every known status.
var Statuses = []Status{StatusInProgress, StatusComplete, StatusLate}

// Label returns the human form of the status ("in progress").
func (s Status) Label() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

// Objective is a goal record. ParentID is nil for roots.
type Objective struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
	Progress    int       `json:"progress"`
	Responsible int       `json:"responsible"`
	Status      Status    `json:"status"`
	Tier        Tier      `json:"tier"`
	ParentID    *int      `json:"parent_id,omitempty"`
	Team        string    `json:"team,omitempty"`
}
