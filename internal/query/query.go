// Package query holds the pure, in-memory filtering, sorting and grouping
// pipeline behind the task-list views. Every function returns fresh slices
// and never mutates its inputs; callers apply search before sort and sort
// before grouping.
package query

import (
	"sort"
	"strings"
	"time"

	"github.com/hoangnm/project-board-api/internal/constants"
	"github.com/hoangnm/project-board-api/internal/models"
)

// SortKey selects the task ordering. An unrecognized key leaves the input
// order untouched.
type SortKey string

const (
	SortByPriority SortKey = "priority"
	SortByDueDate  SortKey = "dueDate"
	SortByStatus   SortKey = "status"
)

var priorityRank = map[models.TaskPriority]int{
	models.PriorityLow:    1,
	models.PriorityMedium: 2,
	models.PriorityHigh:   3,
}

var statusRank = map[models.TaskStatus]int{
	models.StatusTodo:       1,
	models.StatusInProgress: 2,
	models.StatusPending:    3,
	models.StatusDone:       4,
}

// FilterByOwnership returns the projects where userID holds the
// "Project owner" role. Used to scope a user's own project list.
func FilterByOwnership(projects []models.Project, userID uint64) []models.Project {
	owned := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		for _, m := range p.Members {
			if m.UserID == userID && m.IsOwner() {
				owned = append(owned, p)
				break
			}
		}
	}
	return owned
}

// FilterByMembership returns the projects where userID appears among the
// members with any role. Used to scope the "my tasks" view.
func FilterByMembership(projects []models.Project, userID uint64) []models.Project {
	member := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		for _, m := range p.Members {
			if m.UserID == userID {
				member = append(member, p)
				break
			}
		}
	}
	return member
}

// FilterProjectsByName keeps projects whose name contains term,
// case-insensitively. An empty term keeps everything.
func FilterProjectsByName(projects []models.Project, term string) []models.Project {
	if term == "" {
		return append([]models.Project(nil), projects...)
	}
	needle := strings.ToLower(term)
	matched := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			matched = append(matched, p)
		}
	}
	return matched
}

// FilterBySearchTerm keeps tasks whose name contains term, case-insensitively.
func FilterBySearchTerm(tasks []models.Task, term string) []models.Task {
	if term == "" {
		return append([]models.Task(nil), tasks...)
	}
	needle := strings.ToLower(term)
	matched := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.TaskName), needle) {
			matched = append(matched, t)
		}
	}
	return matched
}

// FilterBySearchTermWithAssignee matches term against the task name or the
// resolved assignee display name. assigneeNames maps user IDs to display
// names; tasks with an unresolved assignee match on name only.
func FilterBySearchTermWithAssignee(tasks []models.Task, assigneeNames map[uint64]string, term string) []models.Task {
	if term == "" {
		return append([]models.Task(nil), tasks...)
	}
	needle := strings.ToLower(term)
	matched := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.TaskName), needle) {
			matched = append(matched, t)
			continue
		}
		if t.AssigneeID != nil {
			if name, ok := assigneeNames[*t.AssigneeID]; ok &&
				strings.Contains(strings.ToLower(name), needle) {
				matched = append(matched, t)
			}
		}
	}
	return matched
}

// SortTasks returns a sorted copy of tasks ordered by key. Priority and
// status sort ascending by their rank maps, due dates ascending by parsed
// date. The sort is stable so equal ranks keep their relative order.
func SortTasks(tasks []models.Task, key SortKey) []models.Task {
	sorted := append([]models.Task(nil), tasks...)

	switch key {
	case SortByPriority:
		sort.SliceStable(sorted, func(i, j int) bool {
			return priorityRank[sorted[i].Priority] < priorityRank[sorted[j].Priority]
		})
	case SortByDueDate:
		sort.SliceStable(sorted, func(i, j int) bool {
			return dueDateRank(sorted[i].DueDate) < dueDateRank(sorted[j].DueDate)
		})
	case SortByStatus:
		sort.SliceStable(sorted, func(i, j int) bool {
			return statusRank[sorted[i].Status] < statusRank[sorted[j].Status]
		})
	}

	return sorted
}

// dueDateRank parses a stored date string for ordering. Missing or
// unparseable dates rank as epoch so they sort first, consistently.
func dueDateRank(date string) int64 {
	t, err := time.Parse(constants.DateLayout, date)
	if err != nil {
		return 0
	}
	return t.Unix()
}

// ProjectGroup is one entry of the grouped-by-project task view.
type ProjectGroup struct {
	ProjectID   string        `json:"projectId"`
	ProjectName string        `json:"projectName"`
	Tasks       []models.Task `json:"tasks"`
}

// GroupByProject buckets tasks under each project in the input project
// order. Every project yields a group, even with zero matching tasks; the
// empty group renders as a collapsible empty section.
func GroupByProject(tasks []models.Task, projects []models.Project) []ProjectGroup {
	groups := make([]ProjectGroup, 0, len(projects))
	for _, p := range projects {
		group := ProjectGroup{
			ProjectID:   p.ID,
			ProjectName: p.Name,
			Tasks:       make([]models.Task, 0),
		}
		for _, t := range tasks {
			if t.ProjectID == p.ID {
				group.Tasks = append(group.Tasks, t)
			}
		}
		groups = append(groups, group)
	}
	return groups
}

// GroupByStatus partitions tasks into the four canonical workflow stages,
// preserving the relative order of the (already sorted) input. All four
// keys are always present; iterate models.AllStatuses for the canonical
// presentation order.
func GroupByStatus(tasks []models.Task) map[models.TaskStatus][]models.Task {
	groups := make(map[models.TaskStatus][]models.Task, len(models.AllStatuses))
	for _, s := range models.AllStatuses {
		groups[s] = make([]models.Task, 0)
	}
	for _, t := range tasks {
		status := t.Status
		if _, ok := groups[status]; !ok {
			// Unknown stage falls back to the first workflow stage.
			status = models.StatusTodo
		}
		groups[status] = append(groups[status], t)
	}
	return groups
}
