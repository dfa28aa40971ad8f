package advisor

import (
	"slices"
	"strings"
)

// maxTasksPerMessage caps how many categories one message is routed to.
const maxTasksPerMessage = 2

// detectionOrder is the order keyword sets are checked in. Assistant has no
// keywords and is only used as the fallback.
var detectionOrder = []TaskCategory{
	TaskBusinessStrategy,
	TaskPitchDeck,
	TaskMarketAnalysis,
	TaskFinancialModel,
	TaskBusinessPlan,
	TaskIdea,
	TaskGuide,
	TaskCode,
	TaskFlowchart,
	TaskPlatform,
	TaskPPT,
}

var priorityOrder = []TaskCategory{
	TaskPitchDeck,
	TaskBusinessStrategy,
	TaskFinancialModel,
	TaskCode,
	TaskMarketAnalysis,
	TaskBusinessPlan,
	TaskIdea,
	TaskGuide,
	TaskPPT,
	TaskFlowchart,
	TaskPlatform,
	TaskAssistant,
}

// ClassificationResult holds the categories chosen for a message, highest
// priority first. It always has one or two entries.
type ClassificationResult struct {
	Tasks []TaskCategory
}

// Primary returns the highest priority task.
func (r ClassificationResult) Primary() TaskCategory {
	if len(r.Tasks) == 0 {
		return TaskAssistant
	}
	return r.Tasks[0]
}

// Labels returns the wire labels of the chosen tasks.
func (r ClassificationResult) Labels() []string {
	labels := make([]string, len(r.Tasks))
	for i, task := range r.Tasks {
		labels[i] = task.String()
	}
	return labels
}

// Classify picks at most two task categories for text by case-insensitive
// substring matching against each category's keywords. Matches are plain
// substrings, so "plan" also matches inside "planet".
func Classify(text string) ClassificationResult {
	lowered := strings.ToLower(text)

	tasks := []TaskCategory{}
	for _, task := range detectionOrder {
		if containsAny(lowered, task.keywords()) {
			tasks = append(tasks, task)
		}
	}

	if len(tasks) == 0 {
		tasks = append(tasks, TaskAssistant)
	}

	slices.SortStableFunc(tasks, func(a, b TaskCategory) int {
		return priorityRank(a) - priorityRank(b)
	})

	if len(tasks) > maxTasksPerMessage {
		tasks = tasks[:maxTasksPerMessage]
	}

	return ClassificationResult{Tasks: tasks}
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

func priorityRank(task TaskCategory) int {
	if rank := slices.Index(priorityOrder, task); rank >= 0 {
		return rank
	}
	return len(priorityOrder)
}
