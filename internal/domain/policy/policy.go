// Package policy holds the role capability table as a pure function so
// authorization decisions are testable without a router or store.
package policy

import "judgeback/internal/domain/model"

type Capability string

const (
	CapViewActiveCompetitor Capability = "view_active_competitor"
	CapViewResults          Capability = "view_results"
	CapSubmitScore          Capability = "submit_score"
	CapSetActiveCompetitor  Capability = "set_active_competitor"
	CapManageCompetitors    Capability = "manage_competitors"
	CapManageJudges         Capability = "manage_judges"
	CapResetCompetition     Capability = "reset_competition"
	CapViewOwnProfile       Capability = "view_own_profile"
)

// Allowed reports whether the principal may exercise the capability. A nil
// principal is an anonymous caller; a principal without a linked judge
// profile holds only the public capabilities.
func Allowed(p *model.Principal, c Capability) bool {
	if c == CapViewResults {
		return true
	}
	if p == nil || p.Judge == nil {
		return false
	}

	switch c {
	case CapViewActiveCompetitor, CapViewOwnProfile, CapSubmitScore:
		return true
	case CapSetActiveCompetitor, CapManageCompetitors, CapManageJudges, CapResetCompetition:
		return p.Judge.IsMainJudge
	}
	return false
}
