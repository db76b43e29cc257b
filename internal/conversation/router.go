// Package conversation implements the menu state machine that turns a user's
// session and utterance into the next session and a reply payload.
package conversation

import (
	"strings"

	"github.com/zenithlab/zenith-bot/internal/catalog"
	"github.com/zenithlab/zenith-bot/internal/reply"
)

var (
	restartTokens      = []string{"처음", "시작"}
	consultationTokens = []string{"상담원", "연결"}
	otherServiceTokens = []string{"다른", "서비스"}
)

// transition handles one non-restart turn for a given step. Every valid step
// other than StepWelcome has an entry.
type transition func(r *Router, s Session, in Input) (Session, reply.Payload)

var transitions = map[Step]transition{
	StepMainCategory:  (*Router).onMainCategory,
	StepSubCategory:   (*Router).onSubCategory,
	StepServiceDetail: (*Router).onServiceDetail,
	StepConsultation:  (*Router).onConsultation,
}

// Router is stateless; all per-user state lives in the Session passed to Route.
type Router struct {
	cat     *catalog.Catalog
	replies *reply.Builder
}

func NewRouter(cat *catalog.Catalog, replies *reply.Builder) *Router {
	return &Router{cat: cat, replies: replies}
}

// Route computes the next session and the payload to send. The restart
// check runs before the per-step table, so a restart token wins in every step.
// A step this version does not know starts the flow over.
func (r *Router) Route(s Session, in Input) (Session, reply.Payload) {
	if !s.Step.Valid() || s.Step == StepWelcome || isRestart(in) {
		return r.welcome(s)
	}
	return transitions[s.Step](r, s, in)
}

func (r *Router) welcome(s Session) (Session, reply.Payload) {
	s.Step = StepMainCategory
	s.SelectedCategory = ""
	s.SelectedSubCategory = ""
	return s, r.replies.Welcome()
}

func (r *Router) onMainCategory(s Session, in Input) (Session, reply.Payload) {
	cat, ok := r.resolveCategory(in)
	if !ok {
		return s, r.replies.Reselect()
	}
	return r.showSubCategories(s, cat.Code)
}

func (r *Router) onSubCategory(s Session, in Input) (Session, reply.Payload) {
	label := in.Extra[reply.DataSubCategory]
	if label == "" {
		label = in.Utterance
	}
	s.SelectedSubCategory = label
	s.Step = StepServiceDetail
	return s, r.replies.ServiceDetail(label)
}

func (r *Router) onServiceDetail(s Session, in Input) (Session, reply.Payload) {
	switch action := in.Extra[reply.DataAction]; {
	case action == reply.ActionConsultation,
		action == "" && containsAny(in.Utterance, consultationTokens):
		s.Step = StepConsultation
		return s, r.replies.Consultation()
	case action == reply.ActionOtherService,
		action == "" && containsAny(in.Utterance, otherServiceTokens):
		return r.showSubCategories(s, s.SelectedCategory)
	}
	return s, r.replies.UseButtons()
}

func (r *Router) onConsultation(s Session, _ Input) (Session, reply.Payload) {
	return s, r.replies.AgentNotified()
}

// showSubCategories moves to SUB_CATEGORY for code. A code the catalog does
// not know (e.g. a session written by an older catalog) restarts the flow.
func (r *Router) showSubCategories(s Session, code catalog.Code) (Session, reply.Payload) {
	p, err := r.replies.SubCategories(code)
	if err != nil {
		return r.welcome(s)
	}
	s.SelectedCategory = code
	s.SelectedSubCategory = ""
	s.Step = StepSubCategory
	return s, p
}

func (r *Router) resolveCategory(in Input) (catalog.Category, bool) {
	if code := catalog.Code(in.Extra[reply.DataCategory]); code != "" {
		if cat, ok := r.cat.Category(code); ok {
			return cat, true
		}
	}
	return r.cat.CategoryByName(in.Utterance)
}

func isRestart(in Input) bool {
	if in.Extra[reply.DataAction] == reply.ActionRestart {
		return true
	}
	if in.Utterance == "" && len(in.Extra) == 0 {
		return true
	}
	return containsAny(in.Utterance, restartTokens)
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
