package status

// Metric keys
const (
	KeyEngineTicks    = "engine.ticks"    // Int
	KeyEnginePhase    = "engine.phase"    // String
	KeyEngineTickTime = "engine.tick_ms"  // Float, last update duration
	KeyEventsDropped  = "events.dropped"  // Int, control events overwritten before dispatch
	KeyGameScore      = "game.score"      // Int
	KeyGameBounces    = "game.bounces"    // Int
	KeyGameOOB        = "game.out_of_bounds"
	KeyLevelGenerated = "level.generated" // Int
	KeyLevelExhausted = "level.exhausted" // Int, placements kept without meeting constraints
	KeyTiltBeta       = "tilt.beta"       // Float
	KeyTiltGamma      = "tilt.gamma"      // Float
	KeyNetworkPeers   = "network.peers"   // Int
	KeyNetworkSamples = "network.samples" // Int
	KeyNetworkViewers = "network.viewers" // Int
	KeyAudioEnabled   = "audio.enabled"   // Bool
	KeyCacheEntries   = "cache.entries"   // Int
)
