package briefing

import "time"

type IntentKind int

const (
	// IntentPersist asks for the mutated state to be written out.
	IntentPersist IntentKind = iota + 1
	// IntentArm asks for a one-shot timer for AlarmID at At.
	IntentArm
	// IntentDisarm cancels any timer armed for AlarmID.
	IntentDisarm
	// IntentSpeak asks for Text to be read aloud.
	IntentSpeak
)

func (k IntentKind) String() string {
	switch k {
	case IntentPersist:
		return "persist"
	case IntentArm:
		return "arm"
	case IntentDisarm:
		return "disarm"
	case IntentSpeak:
		return "speak"
	default:
		return "unknown"
	}
}

// Intent is a side effect requested by a state transition. Transitions never
// perform side effects themselves; the scheduler executes the intents after
// the transition has been committed.
type Intent struct {
	Kind    IntentKind
	AlarmID int
	At      time.Time
	Text    string
}

func Persist() Intent { return Intent{Kind: IntentPersist} }

func Arm(id int, at time.Time) Intent { return Intent{Kind: IntentArm, AlarmID: id, At: at} }

func Disarm(id int) Intent { return Intent{Kind: IntentDisarm, AlarmID: id} }

func Speak(text string) Intent { return Intent{Kind: IntentSpeak, Text: text} }

// NeedsPersist reports whether any intent requests persistence.
func NeedsPersist(intents []Intent) bool {
	for _, in := range intents {
		if in.Kind == IntentPersist {
			return true
		}
	}
	return false
}
