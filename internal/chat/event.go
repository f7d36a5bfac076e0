package chat

// AnonymousName labels messages from connections whose session did not
// resolve to a user record.
const AnonymousName = "anonymous"

// UserEvent announces a join or leave together with the presence count
// as of the moment it was sent.
type UserEvent struct {
	Type         string `json:"type"` // always "user"
	Name         string `json:"name"`
	CurrentUsers int    `json:"currentUsers"`
	Connected    bool   `json:"connected"`
}

// ChatEvent relays one message verbatim, tagged with the sender.
type ChatEvent struct {
	Type    string `json:"type"` // always "chat"
	Name    string `json:"name"`
	Message string `json:"message"`
}

const (
	eventTypeUser = "user"
	eventTypeChat = "chat"
)
