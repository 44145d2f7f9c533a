// ABOUTME: Notification sound catalogue for the Pushover API.
// ABOUTME: Unknown sound names are dropped from outgoing requests.
package pushover

// Priority levels accepted by the message API.
const (
	PriorityLowest    = -2
	PriorityLow       = -1
	PriorityNormal    = 0
	PriorityHigh      = 1
	PriorityEmergency = 2
)

// ValidPriority reports whether p is within the accepted range.
func ValidPriority(p int) bool {
	return p >= PriorityLowest && p <= PriorityEmergency
}

// Sounds lists the notification sounds the Pushover API accepts.
var Sounds = []string{
	"pushover", "bike", "bugle", "cashregister", "classical", "cosmic",
	"falling", "gamelan", "incoming", "intermission", "magic", "mechanical",
	"pianobar", "siren", "spacealarm", "tugboat", "alien", "climb",
	"persistent", "echo", "updown", "vibrate", "none",
}

var soundSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(Sounds))
	for _, name := range Sounds {
		set[name] = struct{}{}
	}
	return set
}()

// ValidSound reports whether name is a recognized notification sound.
func ValidSound(name string) bool {
	_, ok := soundSet[name]
	return ok
}
