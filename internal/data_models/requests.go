package dto

type CreateTaskRequest struct {
	Text     string   `json:"text"`
	Deadline *string  `json:"deadline,omitempty"`
	Duration *int     `json:"duration,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// EditTaskRequest only changes the fields that are present. Clear flags
// remove a deadline or duration.
type EditTaskRequest struct {
	Text          *string  `json:"text,omitempty"`
	Deadline      *string  `json:"deadline,omitempty"`
	ClearDeadline bool     `json:"clear_deadline,omitempty"`
	Duration      *int     `json:"duration,omitempty"`
	ClearDuration bool     `json:"clear_duration,omitempty"`
	Tags          []string `json:"tags,omitempty"`
}

type TransitionRequest struct {
	Status string `json:"status"`
}

type CreateTagRequest struct {
	Name string `json:"name"`
}

type SortRequest struct {
	Sort string `json:"sort"`
}
