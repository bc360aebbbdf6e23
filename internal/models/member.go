package models

// Member is a person that objectives reference as their responsible owner.
type Member struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Avatar string `json:"avatar"`
	Team   string `json:"team"`
}
