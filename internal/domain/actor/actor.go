package actor

import "slices"

// OwnerType distinguishes ledger owners that may share an id space
type OwnerType string

const (
	OwnerCharacter OwnerType = "character"
	OwnerMonster   OwnerType = "monster"
)

// Actor is the read snapshot of a character the core works against
type Actor struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Level              int      `json:"level"`
	ClassID            string   `json:"class_id,omitempty"`
	ItemIDs            []string `json:"item_ids,omitempty"`
	FeatureIDs         []string `json:"feature_ids,omitempty"`
	CurrentLocationID  string   `json:"current_location_id,omitempty"`
	VisitedLocationIDs []string `json:"visited_location_ids,omitempty"`
}

// HasFeature reports whether the feature is attached directly to the actor
func (a *Actor) HasFeature(featureID string) bool {
	return slices.Contains(a.FeatureIDs, featureID)
}

// HasVisited reports whether the location is in the visited set
func (a *Actor) HasVisited(locationID string) bool {
	return slices.Contains(a.VisitedLocationIDs, locationID)
}

// MoveTo updates the snapshot after a successful location change
func (a *Actor) MoveTo(locationID string) {
	a.CurrentLocationID = locationID
	if !a.HasVisited(locationID) {
		a.VisitedLocationIDs = append(a.VisitedLocationIDs, locationID)
	}
}

// Clone returns a deep copy of the snapshot
func (a *Actor) Clone() *Actor {
	if a == nil {
		return nil
	}
	out := *a
	out.ItemIDs = slices.Clone(a.ItemIDs)
	out.FeatureIDs = slices.Clone(a.FeatureIDs)
	out.VisitedLocationIDs = slices.Clone(a.VisitedLocationIDs)
	return &out
}
