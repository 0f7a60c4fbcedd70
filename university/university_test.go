package university

import (
	"context"
	"testing"

	"github.com/campusmesh/campusmesh/core"
	"github.com/campusmesh/campusmesh/handoff"
	"github.com/campusmesh/campusmesh/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAgents(t *testing.T) []*core.Descriptor {
	t.Helper()
	return Agents(NewInstructionSource("", logging.NoOpLogger{}))
}

func TestAgents_CanonicalSet(t *testing.T) {
	agents := newTestAgents(t)
	require.Len(t, agents, 4)

	names := make([]string, 0, len(agents))
	for _, a := range agents {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{TriageAgent, CourseAdvisor, UniversityPoet, SchedulingAssistant}, names)
}

func TestTriage_DeclaresOnlyRoutingTools(t *testing.T) {
	agents := newTestAgents(t)
	triage := agents[0]

	assert.True(t, triage.ParallelToolCalls)
	assert.Empty(t, triage.Scopes)

	for _, tool := range []string{RouteToCourseAdvisor, RouteToUniversityPoet, RouteToSchedulingAssistant} {
		_, ok := triage.Handler(tool)
		assert.True(t, ok, "missing handler %s", tool)
	}
	_, ok := triage.Handler(CourseAdvisorFinalize)
	assert.False(t, ok, "dispatcher must not finalize")
}

func TestRoutingEdges(t *testing.T) {
	agents := newTestAgents(t)
	triage := agents[0]
	router := handoff.NewRouter(nil)

	cases := map[string]string{
		RouteToCourseAdvisor:       CourseAdvisor,
		RouteToUniversityPoet:      UniversityPoet,
		RouteToSchedulingAssistant: SchedulingAssistant,
	}
	for tool, target := range cases {
		tr := router.Resolve(context.Background(), triage, core.ToolInvocation{Name: tool}, core.Vars{})
		cw, ok := tr.(core.ContinueWith)
		require.True(t, ok, "tool %s: expected ContinueWith, got %#v", tool, tr)
		assert.Equal(t, target, cw.Target)
	}
}

func TestPoetFinalize_HaikuBranch(t *testing.T) {
	agents := newTestAgents(t)
	poet := agents[2]
	h, ok := poet.Handler(UniversityPoetFinalize)
	require.True(t, ok)

	tests := []struct {
		name string
		vars core.Vars
		want string
	}{
		{"flag true", core.Vars{ResponseHaikuKey: "true"}, Haiku},
		{"flag absent", core.Vars{}, ClosingMessage},
		{"flag false", core.Vars{ResponseHaikuKey: "false"}, ClosingMessage},
		{"flag wrong type", core.Vars{ResponseHaikuKey: true}, ClosingMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := h.Resolve(tt.vars)
			term, ok := tr.(core.Terminate)
			require.True(t, ok)
			assert.Equal(t, tt.want, term.Payload)
		})
	}
}

func TestSpecialistFinalize_CanonicalClosing(t *testing.T) {
	agents := newTestAgents(t)
	for _, tc := range []struct {
		desc *core.Descriptor
		tool string
	}{
		{agents[1], CourseAdvisorFinalize},
		{agents[3], SchedulingAssistantFinalize},
	} {
		h, ok := tc.desc.Handler(tc.tool)
		require.True(t, ok)

		term, ok := h.Resolve(core.Vars{"k": "v"}).(core.Terminate)
		require.True(t, ok)
		assert.Equal(t, ClosingMessage, term.Payload)
		assert.Equal(t, core.Vars{"k": "v"}, term.Vars)
	}
}

func TestNewRegistry(t *testing.T) {
	reg, err := NewRegistry(NewInstructionSource("", logging.NoOpLogger{}))
	require.NoError(t, err)

	desc, err := reg.Resolve(TriageAgent)
	require.NoError(t, err)
	assert.NotEmpty(t, desc.Instruction)
}
