package gen

import (
	"fmt"
	"sort"

	"github.com/hyperion/server/internal/core/rng"
)

// EventType classifies a historical event.
type EventType string

const (
	EventWar               EventType = "war"
	EventPeaceTreaty       EventType = "peace_treaty"
	EventAlliance          EventType = "alliance"
	EventAllianceDissolved EventType = "alliance_dissolved"
	EventFirstContact      EventType = "first_contact"
	EventTradeAgreement    EventType = "trade_agreement"
	EventBorderDispute     EventType = "border_dispute"
	EventTechExchange      EventType = "technology_exchange"
	EventIncident          EventType = "incident"
	EventCulturalExchange  EventType = "cultural_exchange"
)

// HistoricalEvent is one entry on the timeline. Years are negative offsets
// from the present.
type HistoricalEvent struct {
	Year        int
	Type        EventType
	Factions    []string
	Description string
	// Delta is the relationship score change between the two factions.
	// First-contact entries carry 1 but are not added to the working scores;
	// only the yearly events move them.
	Delta int
}

// GenerateHistory produces a timeline: first contact for every faction pair
// in the older half of the period, then 0-3 relationship-biased events per
// year. Events mutate the working relationship, so a long war can grind two
// factions down to open hostility by the present day.
func GenerateHistory(factions []Faction, years int, r *rng.Stream) []HistoricalEvent {
	var events []HistoricalEvent

	// Working copy of pairwise scores, mutated as events land.
	scores := make(map[string]int)
	key := func(a, b string) string {
		if a > b {
			a, b = b, a
		}
		return a + "|" + b
	}
	for i := range factions {
		for j := i + 1; j < len(factions); j++ {
			rel := factions[i].Relationships[factions[j].ID]
			scores[key(factions[i].ID, factions[j].ID)] = rel.Value()
		}
	}

	// First contacts in the older half of history.
	if years < 2 {
		years = 2
	}
	for i := range factions {
		for j := i + 1; j < len(factions); j++ {
			year := -r.IntRange(years/2, years-1)
			events = append(events, HistoricalEvent{
				Year:     year,
				Type:     EventFirstContact,
				Factions: []string{factions[i].ID, factions[j].ID},
				Description: fmt.Sprintf("First contact between %s and %s",
					factions[i].Name, factions[j].Name),
				Delta: 1,
			})
		}
	}

	if len(factions) >= 2 {
		for year := years; year >= 1; year-- {
			n := r.IntRange(0, 3)
			for k := 0; k < n; k++ {
				i := r.Intn(len(factions))
				j := r.Intn(len(factions))
				for j == i {
					j = r.Intn(len(factions))
				}
				a, b := &factions[i], &factions[j]
				rel := RelationshipFromValue(scores[key(a.ID, b.ID)])
				ev := makeEvent(r, a, b, -year, rel)
				scores[key(a.ID, b.ID)] += ev.Delta
				events = append(events, ev)
			}
		}
	}

	sort.SliceStable(events, func(i, j int) bool { return events[i].Year < events[j].Year })

	// Fold the final scores back into the faction relationships so the
	// present-day standings reflect the timeline.
	for i := range factions {
		for j := i + 1; j < len(factions); j++ {
			rel := RelationshipFromValue(scores[key(factions[i].ID, factions[j].ID)])
			factions[i].Relationships[factions[j].ID] = rel
			factions[j].Relationships[factions[i].ID] = rel
		}
	}
	return events
}

func makeEvent(r *rng.Stream, a, b *Faction, year int, rel Relationship) HistoricalEvent {
	typ := chooseEventType(r, rel)

	var desc string
	var delta int
	switch typ {
	case EventWar:
		desc = fmt.Sprintf("%s declares war on %s", a.Name, b.Name)
		delta = -3
	case EventPeaceTreaty:
		desc = fmt.Sprintf("%s and %s sign peace treaty", a.Name, b.Name)
		delta = 2
	case EventAlliance:
		desc = fmt.Sprintf("%s and %s form alliance", a.Name, b.Name)
		delta = 3
	case EventAllianceDissolved:
		desc = fmt.Sprintf("Alliance between %s and %s dissolved", a.Name, b.Name)
		delta = -2
	case EventTradeAgreement:
		desc = fmt.Sprintf("%s and %s sign trade agreement", a.Name, b.Name)
		delta = 1
	case EventBorderDispute:
		desc = fmt.Sprintf("Border dispute between %s and %s", a.Name, b.Name)
		delta = -1
	case EventTechExchange:
		desc = fmt.Sprintf("%s and %s exchange technology", a.Name, b.Name)
		delta = 1
	case EventIncident:
		desc = fmt.Sprintf("Diplomatic incident between %s and %s", a.Name, b.Name)
		delta = -1
	default: // cultural exchange
		desc = fmt.Sprintf("%s and %s initiate cultural exchange", a.Name, b.Name)
		delta = 1
	}

	return HistoricalEvent{
		Year:        year,
		Type:        typ,
		Factions:    []string{a.ID, b.ID},
		Description: desc,
		Delta:       delta,
	}
}

// chooseEventType biases the event draw by the current relationship.
func chooseEventType(r *rng.Stream, rel Relationship) EventType {
	roll := r.Intn(10)
	switch rel {
	case RelAllied:
		switch {
		case roll == 0:
			return EventAllianceDissolved
		case roll == 1:
			return EventIncident
		case roll <= 5:
			return EventTradeAgreement
		case roll <= 8:
			return EventTechExchange
		default:
			return EventCulturalExchange
		}
	case RelFriendly:
		switch {
		case roll <= 2:
			return EventAlliance
		case roll <= 6:
			return EventTradeAgreement
		case roll <= 8:
			return EventTechExchange
		default:
			return EventCulturalExchange
		}
	case RelUnfriendly:
		switch {
		case roll <= 3:
			return EventBorderDispute
		case roll <= 6:
			return EventIncident
		case roll <= 8:
			return EventWar
		default:
			return EventTradeAgreement
		}
	case RelHostile:
		switch {
		case roll <= 5:
			return EventWar
		case roll <= 8:
			return EventBorderDispute
		default:
			return EventIncident
		}
	case RelWar:
		if roll <= 2 {
			return EventPeaceTreaty
		}
		return EventWar
	default: // neutral
		switch {
		case roll == 0:
			return EventBorderDispute
		case roll == 1:
			return EventIncident
		case roll <= 4:
			return EventTradeAgreement
		case roll <= 7:
			return EventCulturalExchange
		default:
			return EventTechExchange
		}
	}
}
