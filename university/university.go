// Package university assembles the canonical agent set of the university
// support system: a triage dispatcher plus three specialists. Descriptors,
// routing edges and closing payloads live here; the orchestration machinery
// does not know anything about these roles.
package university

import (
	"github.com/campusmesh/campusmesh/core"
	"github.com/campusmesh/campusmesh/gateway"
	"github.com/campusmesh/campusmesh/handoff"
	"github.com/campusmesh/campusmesh/instruction"
	"github.com/campusmesh/campusmesh/registry"
)

// Canonical agent identifiers.
const (
	TriageAgent         = "TriageAgent"
	CourseAdvisor       = "CourseAdvisor"
	UniversityPoet      = "UniversityPoet"
	SchedulingAssistant = "SchedulingAssistant"
)

// Dispatcher routing tools.
const (
	RouteToCourseAdvisor       = "route_to_course_advisor"
	RouteToUniversityPoet      = "route_to_university_poet"
	RouteToSchedulingAssistant = "route_to_scheduling_assistant"
)

// Specialist finalize tools.
const (
	CourseAdvisorFinalize       = "course_advisor_finalize"
	UniversityPoetFinalize      = "university_poet_finalize"
	SchedulingAssistantFinalize = "scheduling_assistant_finalize"
)

// ResponseHaikuKey is the context variable the dispatcher sets when the user
// asked for a haiku. The poet's finalize only honors the exact string "true";
// any other value (or absence) falls back to the canonical closing message.
const ResponseHaikuKey = "response_haiku"

// ClosingMessage is the canonical closing payload of every finalize tool and
// the sentinel the loop driver recognizes when an agent closes via plain text.
const ClosingMessage = "Thank you for using the University Support System. If you have more questions, feel free to reach out!"

// Haiku is the fixed poetic closing used when the haiku flag is set.
const Haiku = "A student asks why,\nCampus calls with ancient tales,\nWisdom finds its way."

// Agents builds the four canonical descriptors, resolving instruction text
// through src (file override first, hardcoded default otherwise).
func Agents(src *instruction.Source) []*core.Descriptor {
	return []*core.Descriptor{
		{
			Name:        TriageAgent,
			Instruction: src.Resolve(TriageAgent),
			Handlers: []core.Handler{
				handoff.RouteHandler(RouteToCourseAdvisor, CourseAdvisor,
					"Hand the conversation to the Course Advisor for course recommendations."),
				handoff.RouteHandler(RouteToUniversityPoet, UniversityPoet,
					"Hand the conversation to the University Poet for campus culture queries."),
				handoff.RouteHandler(RouteToSchedulingAssistant, SchedulingAssistant,
					"Hand the conversation to the Scheduling Assistant for class schedules and exam dates."),
			},
			ParallelToolCalls: true,
		},
		{
			Name:        CourseAdvisor,
			Instruction: src.Resolve(CourseAdvisor),
			Handlers: []core.Handler{
				handoff.FinalizeHandler(CourseAdvisorFinalize,
					"Close the interaction once the user's course questions are answered.",
					closing),
			},
			Scopes: []string{gateway.ReadQueryTool},
		},
		{
			Name:        UniversityPoet,
			Instruction: src.Resolve(UniversityPoet),
			Handlers: []core.Handler{
				handoff.FinalizeHandler(UniversityPoetFinalize,
					"Close the interaction, responding with a haiku when one was requested.",
					poetClosing),
			},
		},
		{
			Name:        SchedulingAssistant,
			Instruction: src.Resolve(SchedulingAssistant),
			Handlers: []core.Handler{
				handoff.FinalizeHandler(SchedulingAssistantFinalize,
					"Close the interaction once scheduling questions are answered.",
					closing),
			},
			Scopes: []string{gateway.ReadQueryTool},
		},
	}
}

// NewRegistry registers the canonical agent set in a fresh registry.
func NewRegistry(src *instruction.Source) (*registry.Registry, error) {
	reg := registry.New()
	if err := reg.RegisterAll(Agents(src)...); err != nil {
		return nil, err
	}
	return reg, nil
}

func closing(core.Vars) string { return ClosingMessage }

func poetClosing(vars core.Vars) string {
	if v, ok := vars[ResponseHaikuKey]; ok {
		if s, ok := v.(string); ok && s == "true" {
			return Haiku
		}
	}
	return ClosingMessage
}
