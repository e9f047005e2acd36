package notification

import "fmt"

// Registry maps events to the destinations they are delivered to. It is
// built once at startup and read-only afterwards.
type Registry map[Event][]DestinationKind

func NewRegistry(routes map[string][]string) (Registry, error) {
	r := make(Registry, len(routes))
	for event, destinations := range routes {
		e := Event(event)
		if !e.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, event)
		}
		for _, d := range destinations {
			kind := DestinationKind(d)
			if !kind.Valid() {
				return nil, fmt.Errorf("%w: %q for event %q", ErrUnknownDestination, d, event)
			}
			r[e] = append(r[e], kind)
		}
	}
	return r, nil
}

func (r Registry) Destinations(e Event) []DestinationKind {
	return r[e]
}
