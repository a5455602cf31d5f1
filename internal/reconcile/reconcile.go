// Package reconcile merges default and user key-binding rule lists into one
// collision-free, deterministically ordered table.
//
// Precedence: user rules override default rules at the same slot; within a
// tier the first claimant wins and later duplicates are dropped with a
// diagnostic. Defaults are sorted by command name before deduplication so
// the survivor among colliding defaults does not depend on the order their
// sources were loaded.
package reconcile

import (
	"fmt"
	"sort"

	"keyloom/internal/rule"
)

// Tier identifies which input list a rule came from.
type Tier uint8

const (
	// TierDefault marks rules contributed by sources.
	TierDefault Tier = iota
	// TierUser marks end-user override rules.
	TierUser
)

// String returns a human-readable tier name.
func (t Tier) String() string {
	switch t {
	case TierDefault:
		return "default"
	case TierUser:
		return "user"
	default:
		return "unknown"
	}
}

// claim records who holds a slot in the occupancy map.
type claim uint8

const (
	unclaimed claim = iota
	claimedByUser
	claimedByDefault
)

// tier converts a non-zero claim to the tier that made it.
func (c claim) tier() Tier {
	if c == claimedByUser {
		return TierUser
	}
	return TierDefault
}

// occupant pairs a claim with the rule that made it, kept for diagnostics.
type occupant struct {
	claim claim
	rule  rule.Rule
}

// Collision is an advisory diagnostic: a rule was dropped because its slot
// was already claimed. Collisions never abort a merge.
type Collision struct {
	// Slot is the contested collision key.
	Slot rule.Slot
	// Kept is the rule holding the slot.
	Kept rule.Rule
	// KeptTier is the tier of the kept rule.
	KeptTier Tier
	// Dropped is the rule that lost the slot.
	Dropped rule.Rule
	// DroppedTier is the tier of the dropped rule.
	DroppedTier Tier
}

// String renders the collision for logs.
func (c Collision) String() string {
	return fmt.Sprintf("%s: %s rule %q dropped, %s rule %q kept",
		c.Slot, c.DroppedTier, c.Dropped.Command, c.KeptTier, c.Kept.Command)
}

// Result is the outcome of a merge.
type Result struct {
	// Rules is the merged table. Surviving user rules come first in their
	// input order, followed by surviving defaults in command order. No two
	// entries share a slot, and no entry is disabled.
	Rules []rule.Rule
	// Collisions lists the rules dropped in favor of an earlier claimant.
	Collisions []Collision
}

// Merge reconciles defaults and user rules into a single table. It is pure:
// inputs are not mutated, and the only failure reporting is the returned
// collision list.
//
// User rules are walked first, in input order; the first rule to claim a
// slot keeps it. A disabled user rule claims its slot, suppressing any
// default there, but is withheld from the output. Defaults are then walked
// in command order: disabled defaults and defaults with no keys are dropped
// silently, a default losing its slot to a user rule yields silently (that
// is the override working), and a default losing to an earlier default is
// reported as a collision.
func Merge(defaults, user []rule.Rule) Result {
	occupancy := make(map[rule.Slot]occupant, len(defaults)+len(user))
	var res Result

	res.Rules = make([]rule.Rule, 0, len(user)+len(defaults))
	for _, r := range user {
		slot := r.Slot()
		if occ := occupancy[slot]; occ.claim != unclaimed {
			res.Collisions = append(res.Collisions, Collision{
				Slot:        slot,
				Kept:        occ.rule,
				KeptTier:    occ.claim.tier(),
				Dropped:     r,
				DroppedTier: TierUser,
			})
			continue
		}
		occupancy[slot] = occupant{claim: claimedByUser, rule: r}
		if !r.Disabled {
			res.Rules = append(res.Rules, r)
		}
	}

	sorted := make([]rule.Rule, len(defaults))
	copy(sorted, defaults)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Command < sorted[j].Command
	})

	for _, r := range sorted {
		if r.Disabled {
			// A source retracting its own stale default, not a conflict.
			continue
		}
		if len(r.Keys) == 0 {
			// Empty sequence is the "no default binding" sentinel.
			continue
		}
		slot := r.Slot()
		occ := occupancy[slot]
		switch occ.claim {
		case claimedByUser:
			// User override; the default yields without a diagnostic.
			continue
		case claimedByDefault:
			res.Collisions = append(res.Collisions, Collision{
				Slot:        slot,
				Kept:        occ.rule,
				KeptTier:    TierDefault,
				Dropped:     r,
				DroppedTier: TierDefault,
			})
			continue
		}
		occupancy[slot] = occupant{claim: claimedByDefault, rule: r}
		res.Rules = append(res.Rules, r)
	}

	return res
}
