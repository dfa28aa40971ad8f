package advisor

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const (
	ContinuationTaskKey = "continuation"
	ErrorTaskKey        = "error"

	errorOutputPrefix  = "Business advisory system temporarily unavailable.\nTechnical details: "
	errorDetailsLength = 100
)

// TaskOutput is one entry of Response.Tasks. TaskType and ModelUsed are
// omitted for continuation entries.
type TaskOutput struct {
	Output    string `json:"output"`
	Truncated bool   `json:"truncated"`
	TaskType  string `json:"task_type,omitempty"`
	ModelUsed string `json:"model_used,omitempty"`
}

// Response is the body returned for a chat message. Tasks keeps insertion
// order so entries are serialised in the order they ran.
//
// The normal variant sets BusinessFocus, TotalTasks and PrimaryTask; the
// continuation variant sets BusinessTask; the error variant sets Error and
// BusinessFocus.
type Response struct {
	Tasks         *orderedmap.OrderedMap[string, TaskOutput] `json:"tasks"`
	Completed     bool                                        `json:"completed"`
	BusinessFocus bool                                        `json:"business_focus,omitempty"`
	TotalTasks    int                                         `json:"total_tasks,omitempty"`
	PrimaryTask   string                                      `json:"primary_task,omitempty"`
	BusinessTask  string                                      `json:"business_task,omitempty"`
	Error         string                                      `json:"error,omitempty"`
}

func newTaskOutputs() *orderedmap.OrderedMap[string, TaskOutput] {
	return orderedmap.New[string, TaskOutput]()
}

// IsError reports whether r is the error variant.
func (r Response) IsError() bool {
	_, ok := r.Tasks.Get(ErrorTaskKey)
	return ok
}

// ErrorResponse converts err into the error variant.
func ErrorResponse(err error) Response {
	message := err.Error()

	details := message
	if runes := []rune(details); len(runes) > errorDetailsLength {
		details = string(runes[:errorDetailsLength])
	}

	tasks := newTaskOutputs()
	tasks.Set(ErrorTaskKey, TaskOutput{
		Output:    errorOutputPrefix + details,
		Truncated: false,
		TaskType:  ErrorTaskKey,
	})

	return Response{
		Tasks:         tasks,
		Completed:     true,
		BusinessFocus: true,
		Error:         message,
	}
}
