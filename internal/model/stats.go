package model

// MasterStats счётчики для панели мастера
type MasterStats struct {
	Total   int `json:"total"`
	Pending int `json:"pending"`
	Today   int `json:"today"`
}
