package advisor

import "fmt"

// TaskCategory is the kind of advisory work a message asks for.
type TaskCategory int

const (
	TaskBusinessStrategy TaskCategory = iota
	TaskPitchDeck
	TaskMarketAnalysis
	TaskFinancialModel
	TaskBusinessPlan
	TaskIdea
	TaskGuide
	TaskCode
	TaskPPT
	TaskFlowchart
	TaskPlatform
	TaskAssistant

	taskCategoryCount
)

const (
	generalModel = "meta-llama/Llama-3.1-8B-Instruct"
	codeModel    = "Qwen/Qwen2.5-Coder-32B-Instruct"
)

type taskSpec struct {
	label     string
	model     string
	maxTokens int
	keywords  []string
}

var taskSpecs = [taskCategoryCount]taskSpec{
	TaskBusinessStrategy: {
		label:     "business_strategy",
		model:     generalModel,
		maxTokens: 1200,
		keywords:  []string{"business", "startup", "company", "venture", "enterprise", "corporate"},
	},
	TaskPitchDeck: {
		label:     "pitch_deck",
		model:     generalModel,
		maxTokens: 1500,
		keywords:  []string{"pitch", "investor", "deck", "presentation", "vc", "funding", "raise"},
	},
	TaskMarketAnalysis: {
		label:     "market_analysis",
		model:     generalModel,
		maxTokens: 1200,
		keywords:  []string{"market", "competitor", "analysis", "research", "trend", "industry"},
	},
	TaskFinancialModel: {
		label:     "financial_model",
		model:     generalModel,
		maxTokens: 1000,
		keywords:  []string{"financial", "revenue", "cost", "profit", "roi", "forecast", "budget", "valuation"},
	},
	TaskBusinessPlan: {
		label:     "business_plan",
		model:     generalModel,
		maxTokens: 1800,
		keywords:  []string{"plan", "strategy", "roadmap", "timeline", "executive", "proposal"},
	},
	TaskIdea: {
		label:     "idea",
		model:     generalModel,
		maxTokens: 800,
		keywords:  []string{"idea", "concept", "innovate"},
	},
	TaskGuide: {
		label:     "guide",
		model:     generalModel,
		maxTokens: 1000,
		keywords:  []string{"guide", "mentor", "advice", "help"},
	},
	TaskCode: {
		label:     "code",
		model:     codeModel,
		maxTokens: 1500,
		keywords:  []string{"code", "program", "developer", "software", "algorithm", "function"},
	},
	TaskPPT: {
		label:     "ppt",
		model:     generalModel,
		maxTokens: 1200,
		keywords:  []string{"ppt", "slide", "presentation", "powerpoint", "deck"},
	},
	TaskFlowchart: {
		label:     "flowchart",
		model:     generalModel,
		maxTokens: 800,
		keywords:  []string{"flow", "architecture", "system", "diagram", "process"},
	},
	TaskPlatform: {
		label:     "platform",
		model:     generalModel,
		maxTokens: 600,
		keywords:  []string{"platform", "deploy", "host", "server", "cloud", "infrastructure"},
	},
	TaskAssistant: {
		label:     "assistant",
		model:     generalModel,
		maxTokens: 800,
	},
}

// Valid reports whether t is one of the known categories.
func (t TaskCategory) Valid() bool {
	return t >= 0 && t < taskCategoryCount
}

// String returns the wire label, e.g. "pitch_deck".
func (t TaskCategory) String() string {
	if !t.Valid() {
		return fmt.Sprintf("TaskCategory(%d)", int(t))
	}
	return taskSpecs[t].label
}

// Model is the hosted model identifier used for this category.
func (t TaskCategory) Model() string {
	if !t.Valid() {
		return generalModel
	}
	return taskSpecs[t].model
}

// MaxTokens is the output token budget for this category.
func (t TaskCategory) MaxTokens() int {
	if !t.Valid() {
		return taskSpecs[TaskAssistant].maxTokens
	}
	return taskSpecs[t].maxTokens
}

func (t TaskCategory) keywords() []string {
	if !t.Valid() {
		return nil
	}
	return taskSpecs[t].keywords
}

func (t TaskCategory) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid task category %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *TaskCategory) UnmarshalText(text []byte) error {
	parsed, err := ParseTaskCategory(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTaskCategory maps a wire label back to its category.
func ParseTaskCategory(label string) (TaskCategory, error) {
	for i, spec := range taskSpecs {
		if spec.label == label {
			return TaskCategory(i), nil
		}
	}
	return 0, fmt.Errorf("unknown task category %q", label)
}

// AllTaskCategories lists every category in declaration order.
func AllTaskCategories() []TaskCategory {
	categories := make([]TaskCategory, 0, taskCategoryCount)
	for t := TaskCategory(0); t < taskCategoryCount; t++ {
		categories = append(categories, t)
	}
	return categories
}

// ModelName is the last path segment of a model identifier, as reported in
// responses ("Llama-3.1-8B-Instruct" for "meta-llama/Llama-3.1-8B-Instruct").
func ModelName(model string) string {
	for i := len(model) - 1; i >= 0; i-- {
		if model[i] == '/' {
			return model[i+1:]
		}
	}
	return model
}
