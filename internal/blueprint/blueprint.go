package blueprint

import "github.com/hyperion/server/internal/world"

// ModuleSpec is one module entry on a blueprint: a slot type, an optional
// variant, and an optional weapon mount.
type ModuleSpec struct {
	SlotType  string            `json:"slot_type"`
	VariantID string            `json:"variant_id,omitempty"`
	WeaponID  string            `json:"weapon_id,omitempty"`
	Config    map[string]string `json:"config,omitempty"`
}

// ShipBlueprint is a design-time ship specification awaiting compilation.
type ShipBlueprint struct {
	Name    string                      `json:"name"`
	ClassID string                      `json:"class_id"`
	TeamID  string                      `json:"team_id"`
	Players map[string][]world.Role     `json:"players"` // player id -> roles
	Modules []ModuleSpec                `json:"modules"`
	// Ammo reserves stock loaded into the ship's inventory at compile time.
	Ammo map[string]int `json:"ammo,omitempty"`

	Ready map[string]bool `json:"ready"` // player id -> ready flag
}

// AllPlayersReady reports whether every assigned player has marked ready.
func (b *ShipBlueprint) AllPlayersReady() bool {
	if len(b.Players) == 0 {
		return false
	}
	for pid := range b.Players {
		if !b.Ready[pid] {
			return false
		}
	}
	return true
}
