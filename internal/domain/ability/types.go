package ability

// Type classifies how an ability is used
type Type string

const (
	TypePassive Type = "passive"
	TypeCombat  Type = "combat"
	TypeUtility Type = "utility"
	TypeSpell   Type = "spell"
)

// TargetType defines what kinds of targets an ability can affect
type TargetType string

const (
	TargetSelf        TargetType = "self"
	TargetSingleEnemy TargetType = "single_enemy"
	TargetSingleAlly  TargetType = "single_ally"
	TargetArea        TargetType = "area"
	TargetAreaAlly    TargetType = "area_ally"
	TargetAllEnemies  TargetType = "all_enemies"
	TargetAllAllies   TargetType = "all_allies"
)

// Valid reports whether t is one of the known target types
func (t TargetType) Valid() bool {
	switch t {
	case TargetSelf, TargetSingleEnemy, TargetSingleAlly, TargetArea,
		TargetAreaAlly, TargetAllEnemies, TargetAllAllies:
		return true
	}
	return false
}

// ProvenanceKind names the source that granted an ability
type ProvenanceKind string

const (
	ProvenanceInnate  ProvenanceKind = "innate"
	ProvenanceItem    ProvenanceKind = "item"
	ProvenanceFeature ProvenanceKind = "feature"
)

// Provenance records one source that made an ability reachable
type Provenance struct {
	Kind     ProvenanceKind `json:"kind"`
	SourceID string         `json:"source_id"`
}

// Utility action identifiers understood by the dispatcher
const (
	ActionPhaseWalk    = "phase_walk"
	ActionTeleport     = "teleport"
	ActionRecall       = "recall"
	ActionLevitate     = "levitate"
	ActionInvisibility = "invisibility"
	ActionLight        = "light"
	ActionDetectSecret = "detect_secret"
	ActionUnlock       = "unlock"
)
