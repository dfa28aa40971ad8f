package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []TaskCategory
	}{
		{
			name: "no keywords falls back to assistant",
			text: "hello there",
			want: []TaskCategory{TaskAssistant},
		},
		{
			name: "empty text",
			text: "",
			want: []TaskCategory{TaskAssistant},
		},
		{
			name: "pitch deck outranks business strategy and ppt",
			text: "I need a pitch deck for my startup",
			want: []TaskCategory{TaskPitchDeck, TaskBusinessStrategy},
		},
		{
			name: "matching ignores case",
			text: "PITCH",
			want: []TaskCategory{TaskPitchDeck},
		},
		{
			name: "priority reorders detection order",
			text: "Help me with my revenue forecast",
			want: []TaskCategory{TaskFinancialModel, TaskGuide},
		},
		{
			name: "code before platform",
			text: "write code for a cloud platform",
			want: []TaskCategory{TaskCode, TaskPlatform},
		},
		{
			name: "substring match",
			text: "planet",
			want: []TaskCategory{TaskBusinessPlan},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text)
			assert.Equal(t, tt.want, got.Tasks)
			assert.Equal(t, tt.want[0], got.Primary())
		})
	}
}

func TestClassify_NeverMoreThanTwo(t *testing.T) {
	text := "startup pitch market revenue plan idea guide code flow platform slide"

	got := Classify(text)

	assert.Equal(t, []TaskCategory{TaskPitchDeck, TaskBusinessStrategy}, got.Tasks)
	assert.Equal(t, []string{"pitch_deck", "business_strategy"}, got.Labels())
}

func TestClassify_Deterministic(t *testing.T) {
	text := "Design the system architecture and deploy it to the cloud"

	first := Classify(text)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(text))
	}
}
