package usecase

import "github.com/horizonenergysouth/horizon-crm/internal/entity"

type CreateLeadInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	HomeAge     string `json:"home_age"`
	IsHomeowner string `json:"is_homeowner"`
	Concerns    string `json:"concerns"`
}

type CreateLeadOutput struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Msg    string `json:"msg"`
}

// TriageQuery is the dashboard's current filter/search/sort selection.
type TriageQuery struct {
	Status    string
	Search    string
	SortField string
	Direction SortDirection
}

type TriageOutput struct {
	Leads         []entity.Lead `json:"leads"`
	FilteredCount int           `json:"filtered_count"`
	TotalCount    int           `json:"total_count"`
}

// StatsOutput backs the dashboard stat cards. Qualified counts both
// "qualified" and "scheduled" leads, matching the cards' grouping.
type StatsOutput struct {
	Total     int `json:"total"`
	New       int `json:"new"`
	Qualified int `json:"qualified"`
	Completed int `json:"completed"`
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatInput struct {
	Messages []ChatMessage `json:"messages"`
}

type ChatOutput struct {
	Message string `json:"message"`
}
