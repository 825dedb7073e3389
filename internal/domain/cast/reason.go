package cast

// Reason is the closed set of reasons a cast can fail. Callers branch on it;
// the Failure message is for display only.
type Reason string

const (
	ReasonNotFound           Reason = "not_found"
	ReasonRequirementNotMet  Reason = "requirement_not_met"
	ReasonOnCooldown         Reason = "on_cooldown"
	ReasonNoChargesRemaining Reason = "no_charges_remaining"
	ReasonInvalidDirection   Reason = "invalid_direction"
	ReasonOutOfRange         Reason = "out_of_range"
	ReasonNoDestination      Reason = "no_destination"
	ReasonUnknownAction      Reason = "unknown_action"
	ReasonInCombatRestricted Reason = "in_combat_restricted"
)

// Requirement names which prerequisite a RequirementNotMet failure is about
type Requirement string

const (
	RequirementLevel   Requirement = "level"
	RequirementClass   Requirement = "class"
	RequirementFeature Requirement = "feature"
)

// Failure explains why a cast did not happen
type Failure struct {
	Reason  Reason `json:"reason"`
	Message string `json:"message"`

	// Set for RequirementNotMet.
	Requirement Requirement `json:"requirement,omitempty"`
	// Set for OnCooldown, whole seconds rounded up.
	RemainingSeconds int `json:"remaining_seconds,omitempty"`
}

func (f *Failure) String() string {
	if f == nil {
		return "<nil>"
	}
	return string(f.Reason) + ": " + f.Message
}
