package usecase

import (
	"sort"
	"strings"

	"github.com/horizonenergysouth/horizon-crm/internal/entity"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortState tracks the active sort column the way the dashboard's table
// header does: clicking the active column flips direction, clicking a new
// column selects it ascending.
type SortState struct {
	Field     string
	Direction SortDirection
}

// DefaultSortState is the dashboard's initial view: newest leads first.
func DefaultSortState() SortState {
	return SortState{Field: "created_at", Direction: SortDesc}
}

func (s *SortState) Toggle(field string) {
	if s.Field == field {
		if s.Direction == SortAsc {
			s.Direction = SortDesc
		} else {
			s.Direction = SortAsc
		}
		return
	}
	s.Field = field
	s.Direction = SortAsc
}

// FilterByStatus keeps leads whose status exactly matches. An empty filter or
// "all" passes everything through.
func FilterByStatus(leads []entity.Lead, status string) []entity.Lead {
	if status == "" || status == "all" {
		return leads
	}
	result := []entity.Lead{}
	for _, l := range leads {
		if string(l.Status) == status {
			result = append(result, l)
		}
	}
	return result
}

// SearchLeads keeps leads where the query is a case-insensitive substring of
// name, email, phone or address. Blank queries pass everything through.
func SearchLeads(leads []entity.Lead, query string) []entity.Lead {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return leads
	}
	result := []entity.Lead{}
	for _, l := range leads {
		if l.MatchesSearch(q) {
			result = append(result, l)
		}
	}
	return result
}

// SortLeads returns a sorted copy. created_at compares millisecond values
// (missing timestamps sort as 0), every other field compares as a
// case-insensitive string. Ties keep their relative order.
func SortLeads(leads []entity.Lead, field string, direction SortDirection) []entity.Lead {
	sorted := make([]entity.Lead, len(leads))
	copy(sorted, leads)

	less := func(a, b *entity.Lead) bool {
		if field == "created_at" {
			return a.CreatedAt.UnixMilli() < b.CreatedAt.UnixMilli()
		}
		return strings.ToLower(a.Field(field)) < strings.ToLower(b.Field(field))
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if direction == SortDesc {
			return less(&sorted[j], &sorted[i])
		}
		return less(&sorted[i], &sorted[j])
	})

	return sorted
}

// Triage derives the dashboard's visible list: status filter, then search,
// then sort.
func Triage(leads []entity.Lead, query TriageQuery) TriageOutput {
	result := FilterByStatus(leads, query.Status)
	result = SearchLeads(result, query.Search)

	field := query.SortField
	if field == "" {
		field = "created_at"
	}
	direction := query.Direction
	if direction != SortAsc && direction != SortDesc {
		direction = SortDesc
	}
	result = SortLeads(result, field, direction)

	return TriageOutput{
		Leads:         result,
		FilteredCount: len(result),
		TotalCount:    len(leads),
	}
}

// Stats computes the dashboard stat cards over the full lead list.
func Stats(leads []entity.Lead) StatsOutput {
	out := StatsOutput{Total: len(leads)}
	for _, l := range leads {
		switch l.Status {
		case entity.StatusNew:
			out.New++
		case entity.StatusQualified, entity.StatusScheduled:
			out.Qualified++
		case entity.StatusCompleted:
			out.Completed++
		}
	}
	return out
}

// SortNotes returns notes newest-first.
func SortNotes(notes []entity.Note) []entity.Note {
	sorted := make([]entity.Note, len(notes))
	copy(sorted, notes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.UnixMilli() > sorted[j].CreatedAt.UnixMilli()
	})
	return sorted
}

// SortActionItems returns incomplete items first, then completed, each group
// newest-first.
func SortActionItems(items []entity.ActionItem) []entity.ActionItem {
	sorted := make([]entity.ActionItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Completed != sorted[j].Completed {
			return !sorted[i].Completed
		}
		return sorted[i].CreatedAt.UnixMilli() > sorted[j].CreatedAt.UnixMilli()
	})
	return sorted
}
