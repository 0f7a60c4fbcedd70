package runner

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/campusmesh/campusmesh/core"
	"github.com/campusmesh/campusmesh/executor"
	"github.com/campusmesh/campusmesh/gateway"
	"github.com/campusmesh/campusmesh/handoff"
	"github.com/campusmesh/campusmesh/internal/testutil"
	"github.com/campusmesh/campusmesh/logging"
	"github.com/campusmesh/campusmesh/university"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQuerier struct {
	rows []map[string]any
	err  error
}

func (f *fakeQuerier) Query(context.Context, string) ([]map[string]any, error) {
	return f.rows, f.err
}

func newTestRunner(t *testing.T, mock *executor.Mock, q *fakeQuerier) *Runner {
	t.Helper()

	reg, err := university.NewRegistry(university.NewInstructionSource("", logging.NoOpLogger{}))
	require.NoError(t, err)

	var gw *gateway.Gateway
	if q != nil {
		gw = gateway.New(q)
	}
	router := handoff.NewRouter(gw)

	return New(reg, router, mock, university.TriageAgent, func(o *Options) {
		o.ClosingSentinel = university.ClosingMessage
	})
}

func lastMessage(t *testing.T, out core.Outcome) core.Message {
	t.Helper()
	require.NotEmpty(t, out.Transcript)
	return out.Transcript[len(out.Transcript)-1]
}

func TestRun_FallbackTerminationAfterOneTurn(t *testing.T) {
	mock := executor.NewMock() // no scripted turns: no messages, no tools
	r := newTestRunner(t, mock, nil)

	out := r.Run(context.Background(), "sess-1", "hello?")

	assert.Equal(t, core.StatusSuccess, out.Status)
	assert.Equal(t, []string{university.TriageAgent}, mock.Calls(), "session must start at the dispatcher and stop after one turn")
}

func TestRun_ScenarioA_CourseAdvisorFlow(t *testing.T) {
	mock := executor.NewMock().
		Script(university.TriageAgent, testutil.NewTurnBuilder().
			AgentText(university.TriageAgent, "Routing you to the Course Advisor.").
			Invoke(university.RouteToCourseAdvisor).
			Build()).
		Script(university.CourseAdvisor, testutil.NewTurnBuilder().
			InvokeArgs(gateway.ReadQueryTool, `{"query":"SELECT course_name FROM courses WHERE discipline = 'Biology'"}`).
			Build()).
		Script(university.CourseAdvisor, testutil.NewTurnBuilder().
			AgentText(university.CourseAdvisor, "Introduction to Biology and Marine Ecology are available.").
			Invoke(university.CourseAdvisorFinalize).
			Build())

	q := &fakeQuerier{rows: []map[string]any{{"course_name": "Introduction to Biology"}, {"course_name": "Marine Ecology"}}}
	r := newTestRunner(t, mock, q)

	out := r.Run(context.Background(), "sess-a", "What courses are available in biology?")

	require.Equal(t, core.StatusSuccess, out.Status)
	assert.Equal(t, []string{university.TriageAgent, university.CourseAdvisor, university.CourseAdvisor}, mock.Calls())
	assert.Equal(t, university.ClosingMessage, lastMessage(t, out).Content)

	var sawRows bool
	for _, m := range out.Transcript {
		if m.Role == core.RoleTool && m.Author == university.CourseAdvisor {
			sawRows = true
			assert.Contains(t, m.Content, "Introduction to Biology")
		}
	}
	assert.True(t, sawRows, "data query rows must be recorded in the transcript")
}

func TestRun_ScenarioB_HaikuFlag(t *testing.T) {
	mock := executor.NewMock().
		Script(university.TriageAgent, testutil.NewTurnBuilder().
			Invoke(university.RouteToUniversityPoet).
			Var(university.ResponseHaikuKey, "true").
			Build()).
		Script(university.UniversityPoet, testutil.NewTurnBuilder().
			Invoke(university.UniversityPoetFinalize).
			Build())
	r := newTestRunner(t, mock, nil)

	out := r.Run(context.Background(), "sess-b", "write me a haiku about campus life")

	require.Equal(t, core.StatusSuccess, out.Status)
	assert.Equal(t, university.Haiku, lastMessage(t, out).Content)
}

func TestRun_ScenarioB_SeededVars(t *testing.T) {
	mock := executor.NewMock().
		Script(university.TriageAgent, &executor.TurnResult{
			ToolInvocations: []core.ToolInvocation{{Name: university.RouteToUniversityPoet}},
		}).
		Script(university.UniversityPoet, &executor.TurnResult{
			ToolInvocations: []core.ToolInvocation{{Name: university.UniversityPoetFinalize}},
		})
	r := newTestRunner(t, mock, nil)

	out := r.RunWithVars(context.Background(), "sess-b2", "write me a haiku about campus life",
		core.Vars{university.ResponseHaikuKey: "true"})

	require.Equal(t, core.StatusSuccess, out.Status)
	assert.Equal(t, university.Haiku, lastMessage(t, out).Content)
}

func TestRun_ScenarioC_UnauthorizedToolKeepsSessionAlive(t *testing.T) {
	mock := executor.NewMock().
		Script(university.TriageAgent, &executor.TurnResult{
			ToolInvocations: []core.ToolInvocation{{Name: "drop_all_tables"}},
		})
	r := newTestRunner(t, mock, nil)

	out := r.Run(context.Background(), "sess-c", "please misbehave")

	require.Equal(t, core.StatusSuccess, out.Status, "unauthorized tool must not crash the session")
	assert.Equal(t, []string{university.TriageAgent, university.TriageAgent}, mock.Calls(), "active agent unchanged, loop continues")

	var recorded bool
	for _, m := range out.Transcript {
		if m.Role == core.RoleTool {
			recorded = true
			assert.Contains(t, m.Content, "unauthorized tool")
		}
	}
	assert.True(t, recorded, "rejection must be recorded as a message")
}

func TestRun_ScenarioD_StorageUnavailableRecorded(t *testing.T) {
	mock := executor.NewMock().
		Script(university.TriageAgent, &executor.TurnResult{
			ToolInvocations: []core.ToolInvocation{{Name: university.RouteToSchedulingAssistant}},
		}).
		Script(university.SchedulingAssistant, &executor.TurnResult{
			ToolInvocations: []core.ToolInvocation{{Name: gateway.ReadQueryTool, Arguments: `{"query":"SELECT * FROM schedules"}`}},
		})
	r := newTestRunner(t, mock, &fakeQuerier{err: core.ErrStorageUnavailable})

	out := r.Run(context.Background(), "sess-d", "when is my exam?")

	require.Equal(t, core.StatusSuccess, out.Status, "storage failure is not session-fatal")

	var recorded bool
	for _, m := range out.Transcript {
		if m.Role == core.RoleTool {
			recorded = true
			assert.Contains(t, m.Content, "storage unavailable")
		}
	}
	assert.True(t, recorded, "storage failure must be recorded, not silently dropped")
}

func TestRun_ExecutorErrorIsFatal(t *testing.T) {
	cause := errors.New("model backend down")
	mock := executor.NewMock().Fail(university.TriageAgent, cause)
	r := newTestRunner(t, mock, nil)

	out := r.Run(context.Background(), "sess-e", "hello")

	require.Equal(t, core.StatusFailure, out.Status)
	assert.ErrorIs(t, out.Err, cause)

	var execErr *core.ExecutorError
	require.ErrorAs(t, out.Err, &execErr)
	assert.Equal(t, university.TriageAgent, execErr.Agent)

	// Partial transcript preserved up to the failure.
	require.Len(t, out.Transcript, 1)
	assert.Equal(t, core.RoleUser, out.Transcript[0].Role)
	assert.Equal(t, []string{university.TriageAgent}, mock.Calls(), "never retried")
}

func TestRun_LastContinueWins(t *testing.T) {
	mock := executor.NewMock().
		Script(university.TriageAgent, &executor.TurnResult{
			ToolInvocations: []core.ToolInvocation{
				{Name: university.RouteToCourseAdvisor},
				{Name: university.RouteToUniversityPoet},
			},
		}).
		Script(university.UniversityPoet, &executor.TurnResult{
			ToolInvocations: []core.ToolInvocation{{Name: university.UniversityPoetFinalize}},
		})
	r := newTestRunner(t, mock, nil)

	out := r.Run(context.Background(), "sess-f", "hmm")

	require.Equal(t, core.StatusSuccess, out.Status)
	assert.Equal(t, []string{university.TriageAgent, university.UniversityPoet}, mock.Calls())
}

func TestRun_TerminatePayloadRoundTrip(t *testing.T) {
	mock := executor.NewMock().
		Script(university.TriageAgent, &executor.TurnResult{
			ToolInvocations: []core.ToolInvocation{{Name: university.RouteToCourseAdvisor}},
		}).
		Script(university.CourseAdvisor, &executor.TurnResult{
			ToolInvocations: []core.ToolInvocation{{Name: university.CourseAdvisorFinalize}},
		})
	r := newTestRunner(t, mock, nil)

	out := r.Run(context.Background(), "sess-g", "recommend a course")

	require.Equal(t, core.StatusSuccess, out.Status)
	final := lastMessage(t, out)
	assert.Equal(t, core.RoleAgent, final.Role)
	assert.Equal(t, university.ClosingMessage, final.Content, "payload appears verbatim as the final message")
}

func TestRun_SentinelTermination(t *testing.T) {
	mock := executor.NewMock().
		Script(university.TriageAgent, &executor.TurnResult{
			Messages: []core.Message{core.NewAgentMessage(university.TriageAgent, university.ClosingMessage)},
		})
	r := newTestRunner(t, mock, nil)

	out := r.Run(context.Background(), "sess-h", "thanks, that's all")

	require.Equal(t, core.StatusSuccess, out.Status)
	assert.Equal(t, []string{university.TriageAgent}, mock.Calls())
	assert.Equal(t, university.ClosingMessage, lastMessage(t, out).Content)
}

func TestRun_ContextPersistsAcrossTurns(t *testing.T) {
	mock := executor.NewMock().
		Script(university.TriageAgent, &executor.TurnResult{
			ToolInvocations: []core.ToolInvocation{{Name: university.RouteToCourseAdvisor}},
			Vars:            core.Vars{"preferred_discipline": "Biology"},
		}).
		Script(university.CourseAdvisor, &executor.TurnResult{
			ToolInvocations: []core.ToolInvocation{{Name: university.CourseAdvisorFinalize}},
		})
	r := newTestRunner(t, mock, nil)

	out := r.Run(context.Background(), "sess-i", "biology courses?")

	require.Equal(t, core.StatusSuccess, out.Status)
	assert.Equal(t, "Biology", out.Vars["preferred_discipline"], "a key once set stays until overwritten")
}

func TestRun_TurnLimitStopsRunawayHandoffs(t *testing.T) {
	mock := executor.NewMock()
	for i := 0; i < 6; i++ {
		mock.Script(university.TriageAgent, testutil.NewTurnBuilder().NextAgent(university.TriageAgent).Build())
	}

	reg, err := university.NewRegistry(university.NewInstructionSource("", logging.NoOpLogger{}))
	require.NoError(t, err)
	r := New(reg, handoff.NewRouter(nil), mock, university.TriageAgent, func(o *Options) {
		o.MaxTurns = 3
	})

	out := r.Run(context.Background(), "sess-j", "loop forever")

	require.Equal(t, core.StatusFailure, out.Status)
	assert.Len(t, mock.Calls(), 3)
}

func TestRun_UnknownDispatcherFailsBeforeTranscript(t *testing.T) {
	reg, err := university.NewRegistry(university.NewInstructionSource("", logging.NoOpLogger{}))
	require.NoError(t, err)
	r := New(reg, handoff.NewRouter(nil), executor.NewMock(), "NoSuchAgent")

	out := r.Run(context.Background(), "sess-k", "hello")

	require.Equal(t, core.StatusFailure, out.Status)
	assert.ErrorIs(t, out.Err, core.ErrUnknownAgent)
	assert.Empty(t, out.Transcript)
}

func TestRun_TurnIndexesAreChronological(t *testing.T) {
	mock := executor.NewMock().
		Script(university.TriageAgent, &executor.TurnResult{
			Messages:        []core.Message{core.NewAgentMessage(university.TriageAgent, "routing")},
			ToolInvocations: []core.ToolInvocation{{Name: university.RouteToCourseAdvisor}},
		}).
		Script(university.CourseAdvisor, &executor.TurnResult{
			ToolInvocations: []core.ToolInvocation{{Name: university.CourseAdvisorFinalize}},
		})
	r := newTestRunner(t, mock, nil)

	out := r.Run(context.Background(), "sess-l", "hello")
	require.Equal(t, core.StatusSuccess, out.Status)

	prev := -1
	for _, m := range out.Transcript {
		require.GreaterOrEqual(t, m.Turn, prev, fmt.Sprintf("message %q out of order", m.Content))
		prev = m.Turn
	}
}
