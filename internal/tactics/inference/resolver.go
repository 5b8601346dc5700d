package inference

// NameResolver resolves a player's display name from a match id and player
// id. This capability is intentionally narrow and owned by the inference
// package itself, rather than the detector importing a lineup/API package
// directly: the original implementation imported the API layer from inside
// the use-case layer to resolve names, creating a circular dependency
// between the application and infrastructure layers. Here the dependency
// direction is inverted — callers that have a name source (a lineup store,
// an API client, a test double) pass it in as a NameResolver, and the
// detector never knows where names come from.
type NameResolver interface {
	PlayerName(matchID, playerID string) (name string, ok bool)
}

// NoOpResolver never resolves a name; Detect leaves ActorNames nil when
// this is used.
type NoOpResolver struct{}

// PlayerName always reports not-found.
func (NoOpResolver) PlayerName(matchID, playerID string) (string, bool) { return "", false }

var _ NameResolver = NoOpResolver{}

// MapResolver resolves names from a static in-memory map, keyed
// "matchID/playerID". Useful for tests and for batch jobs that have
// already loaded a match's lineup.
type MapResolver map[string]string

// PlayerName looks up matchID+"/"+playerID in the map.
func (m MapResolver) PlayerName(matchID, playerID string) (string, bool) {
	name, ok := m[matchID+"/"+playerID]
	return name, ok
}

var _ NameResolver = MapResolver(nil)
