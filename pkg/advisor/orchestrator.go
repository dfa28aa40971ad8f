package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/i2p-business/i2p/pkg/ai-sdk/memory"
	"github.com/i2p-business/i2p/pkg/ai-sdk/types"
	"github.com/rs/zerolog/log"
)

// DefaultContinuationMaxTokens is the output budget of a continuation call.
const DefaultContinuationMaxTokens = 1000

type OrchestratorDeps struct {
	Gateway Gateway
	Store   memory.Store

	// ModelOverride replaces every category's model when set.
	ModelOverride string

	ContinuationMaxTokens int
}

// Orchestrator turns a chat message into task outputs and keeps the
// continuation state of each session.
type Orchestrator struct {
	gateway               Gateway
	store                 memory.Store
	modelOverride         string
	continuationMaxTokens int
	locks                 *sessionLocks
}

func NewOrchestrator(deps OrchestratorDeps) *Orchestrator {
	store := deps.Store
	if store == nil {
		store = &memory.NoOpStore{}
	}

	continuationMaxTokens := deps.ContinuationMaxTokens
	if continuationMaxTokens <= 0 {
		continuationMaxTokens = DefaultContinuationMaxTokens
	}

	return &Orchestrator{
		gateway:               deps.Gateway,
		store:                 store,
		modelOverride:         deps.ModelOverride,
		continuationMaxTokens: continuationMaxTokens,
		locks:                 newSessionLocks(),
	}
}

type GenerateParams struct {
	SessionID string
	Message   string
	Continue  bool
}

// GenerateResponse answers one chat message. It never fails: any error
// raised while answering is reported through the error variant of Response.
func (o *Orchestrator) GenerateResponse(ctx context.Context, p GenerateParams) (resp Response) {
	if p.SessionID == "" {
		p.SessionID = types.DefaultSessionID
	}

	unlock := o.locks.Lock(p.SessionID)
	defer unlock()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic while generating response: %v", r)
			log.Error().Err(err).Str("session_id", p.SessionID).Msg("Business AI error")
			resp = ErrorResponse(err)
		}
	}()

	resp, err := o.generate(ctx, p)
	if err != nil {
		log.Error().Err(err).Str("session_id", p.SessionID).Msg("Business AI error")
		return ErrorResponse(err)
	}

	return resp
}

func (o *Orchestrator) generate(ctx context.Context, p GenerateParams) (Response, error) {
	if o.gateway == nil {
		return Response{}, types.ErrProviderNotSet
	}

	session, err := o.store.GetSession(ctx, p.SessionID)
	if err != nil {
		return Response{}, fmt.Errorf("failed to load session: %w", err)
	}
	session.ID = p.SessionID

	if p.Continue && session.CanContinue() {
		return o.continueTask(ctx, session)
	}

	return o.runTasks(ctx, session, p.Message)
}

func (o *Orchestrator) modelFor(task TaskCategory) string {
	if o.modelOverride != "" {
		return o.modelOverride
	}
	return task.Model()
}

func (o *Orchestrator) continueTask(ctx context.Context, session types.Session) (Response, error) {
	task, err := ParseTaskCategory(session.LastTask)
	if err != nil {
		return Response{}, fmt.Errorf("failed to resume session %s: %w", session.ID, err)
	}

	output, err := o.gateway.CallModel(ctx, CallModelParams{
		Model:     o.modelFor(task),
		Prompt:    BuildContinuationPrompt(session.LastPrompt, session.LastOutput),
		MaxTokens: o.continuationMaxTokens,
	})
	if err != nil {
		return Response{}, err
	}

	session.LastOutput += "\n" + output
	o.saveSession(ctx, session)

	truncated := IsTruncated(output)

	tasks := newTaskOutputs()
	tasks.Set(ContinuationTaskKey, TaskOutput{
		Output:    output,
		Truncated: truncated,
	})

	return Response{
		Tasks:        tasks,
		Completed:    !truncated,
		BusinessTask: session.LastTask,
	}, nil
}

func (o *Orchestrator) runTasks(ctx context.Context, session types.Session, message string) (Response, error) {
	classification := Classify(message)

	log.Debug().
		Str("session_id", session.ID).
		Strs("tasks", classification.Labels()).
		Msg("Classified message")

	tasks := newTaskOutputs()
	allComplete := true

	var memoryText strings.Builder

	for _, task := range classification.Tasks {
		prompt := BuildPrompt(task, message)
		model := o.modelFor(task)

		output, err := o.gateway.CallModel(ctx, CallModelParams{
			Model:     model,
			Prompt:    prompt,
			MaxTokens: task.MaxTokens(),
		})
		if err != nil {
			// Tasks that already ran stay resumable; their output is dropped.
			if tasks.Len() > 0 {
				o.saveSession(ctx, session)
			}
			return Response{}, err
		}

		truncated := IsTruncated(output)

		tasks.Set(task.String(), TaskOutput{
			Output:    FormatOutput(task, output),
			Truncated: truncated,
			TaskType:  task.String(),
			ModelUsed: ModelName(model),
		})

		memoryText.WriteString(output)
		memoryText.WriteString("\n\n")

		session.LastTask = task.String()
		session.LastPrompt = prompt

		if truncated {
			allComplete = false
		}
	}

	session.LastOutput = strings.TrimSpace(memoryText.String())
	o.saveSession(ctx, session)

	return Response{
		Tasks:         tasks,
		Completed:     allComplete,
		BusinessFocus: true,
		TotalTasks:    len(classification.Tasks),
		PrimaryTask:   classification.Primary().String(),
	}, nil
}

// saveSession persists session. Store failures are logged and leave the
// response untouched.
func (o *Orchestrator) saveSession(ctx context.Context, session types.Session) {
	if err := o.store.SaveSession(ctx, session); err != nil {
		log.Warn().Err(err).Str("session_id", session.ID).Msg("Failed to save session")
	}
}

// Session returns the stored state of sessionID.
func (o *Orchestrator) Session(ctx context.Context, sessionID string) (types.Session, error) {
	return o.store.GetSession(ctx, sessionID)
}

// ResetSession forgets the continuation state of sessionID.
func (o *Orchestrator) ResetSession(ctx context.Context, sessionID string) error {
	unlock := o.locks.Lock(sessionID)
	defer unlock()

	return o.store.DeleteSession(ctx, sessionID)
}
