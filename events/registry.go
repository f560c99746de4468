package events

import (
	"reflect"
	"sync"
)

var (
	registryMu    sync.RWMutex
	nameToType    = make(map[string]EventType)
	typeToName    = make(map[EventType]string)
	typeToPayload = make(map[EventType]reflect.Type)
)

// RegisterType maps a string name to an EventType and its payload struct type
// payloadInstance should be a pointer to the payload struct (e.g., &StatusTextPayload{})
// Pass nil if the event has no payload
func RegisterType(name string, et EventType, payloadInstance any) {
	registryMu.Lock()
	defer registryMu.Unlock()

	nameToType[name] = et
	typeToName[et] = name
	if payloadInstance != nil {
		t := reflect.TypeOf(payloadInstance)
		if t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		typeToPayload[et] = t
	}
}

// GetEventType returns the EventType for a given name
func GetEventType(name string) (EventType, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	et, ok := nameToType[name]
	return et, ok
}

// GetEventName returns the string name for an EventType
func GetEventName(et EventType) string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	if name, ok := typeToName[et]; ok {
		return name
	}
	return "Unknown"
}

// NewPayloadStruct returns a new pointer to a zero-value payload struct for the event type
// Returns nil if no payload is registered
func NewPayloadStruct(et EventType) any {
	registryMu.RLock()
	t, ok := typeToPayload[et]
	registryMu.RUnlock()
	if !ok {
		return nil
	}
	return reflect.New(t).Interface()
}

// PayloadMatches reports whether ev carries the payload type registered for its event type
func PayloadMatches(ev GameEvent) bool {
	registryMu.RLock()
	want, ok := typeToPayload[ev.Type]
	registryMu.RUnlock()
	if !ok {
		return ev.Payload == nil
	}
	got := reflect.TypeOf(ev.Payload)
	return got != nil && got.Kind() == reflect.Ptr && got.Elem() == want
}

func init() {
	RegisterType("Tick", EventTick, nil)
	RegisterType("PermissionResult", EventPermissionResult, &PermissionResultPayload{})
	RegisterType("LevelRefreshRequest", EventLevelRefreshRequest, nil)
	RegisterType("SessionStart", EventSessionStart, nil)
	RegisterType("PhaseChanged", EventPhaseChanged, &PhaseChangedPayload{})
	RegisterType("GoalReached", EventGoalReached, &GoalReachedPayload{})
	RegisterType("WallBounce", EventWallBounce, &WallBouncePayload{})
	RegisterType("OutOfBounds", EventOutOfBounds, &OutOfBoundsPayload{})
	RegisterType("LevelRegenerated", EventLevelRegenerated, &LevelRegeneratedPayload{})
	RegisterType("StatusText", EventStatusText, &StatusTextPayload{})
	RegisterType("MessageShow", EventMessageShow, &MessageShowPayload{})
	RegisterType("MessageClear", EventMessageClear, &MessageClearPayload{})
	RegisterType("ScoreChanged", EventScoreChanged, &ScoreChangedPayload{})
	RegisterType("QuitRequest", EventQuitRequest, nil)
}
