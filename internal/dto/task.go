package dto

import (
	"github.com/hoangnm/project-board-api/internal/models"
	"github.com/hoangnm/project-board-api/internal/query"
)

// UnresolvedAssignee is shown when a task's assignee ID no longer matches a
// directory entry.
const UnresolvedAssignee = "Unknown"

// TaskDTO represents a task in API responses. The assignee display name is
// resolved through the directory at render time, not stored on the record.
type TaskDTO struct {
	ID           uint64              `json:"id"`
	TaskName     string              `json:"taskName"`
	AssigneeID   *uint64             `json:"assigneeId"`
	AssigneeName string              `json:"assigneeName"`
	ProjectID    string              `json:"projectId"`
	AsignDate    string              `json:"asignDate"`
	DueDate      string              `json:"dueDate"`
	Priority     models.TaskPriority `json:"priority"`
	Progress     models.TaskProgress `json:"progress"`
	Status       models.TaskStatus   `json:"status"`
}

// StatusGroupDTO is one stage of the per-project task board.
type StatusGroupDTO struct {
	Status models.TaskStatus `json:"status"`
	Tasks  []TaskDTO         `json:"tasks"`
}

// ProjectGroupDTO is one project section of the "my tasks" view.
type ProjectGroupDTO struct {
	ProjectID   string    `json:"projectId"`
	ProjectName string    `json:"projectName"`
	Tasks       []TaskDTO `json:"tasks"`
}

// ToTaskDTO converts a Task model to TaskDTO, resolving the assignee
// display name out of the given ID -> name map.
func ToTaskDTO(task models.Task, names map[uint64]string) TaskDTO {
	assigneeName := UnresolvedAssignee
	if task.AssigneeID != nil {
		if name, ok := names[*task.AssigneeID]; ok {
			assigneeName = name
		}
	}

	return TaskDTO{
		ID:           task.ID,
		TaskName:     task.TaskName,
		AssigneeID:   task.AssigneeID,
		AssigneeName: assigneeName,
		ProjectID:    task.ProjectID,
		AsignDate:    task.AsignDate,
		DueDate:      task.DueDate,
		Priority:     task.Priority,
		Progress:     task.Progress,
		Status:       task.Status,
	}
}

// ToStatusGroups renders the grouped board in the canonical status order.
func ToStatusGroups(groups map[models.TaskStatus][]models.Task, names map[uint64]string) []StatusGroupDTO {
	out := make([]StatusGroupDTO, 0, len(models.AllStatuses))
	for _, status := range models.AllStatuses {
		tasks := groups[status]
		items := make([]TaskDTO, len(tasks))
		for i, t := range tasks {
			items[i] = ToTaskDTO(t, names)
		}
		out = append(out, StatusGroupDTO{Status: status, Tasks: items})
	}
	return out
}

// ToProjectGroups renders the "my tasks" view groups.
func ToProjectGroups(groups []query.ProjectGroup, names map[uint64]string) []ProjectGroupDTO {
	out := make([]ProjectGroupDTO, len(groups))
	for i, g := range groups {
		items := make([]TaskDTO, len(g.Tasks))
		for j, t := range g.Tasks {
			items[j] = ToTaskDTO(t, names)
		}
		out[i] = ProjectGroupDTO{
			ProjectID:   g.ProjectID,
			ProjectName: g.ProjectName,
			Tasks:       items,
		}
	}
	return out
}
