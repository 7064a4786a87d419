package room

import "encoding/json"

// Типы входящих конвертов.
const (
	TypeOffer                 = "offer"
	TypeAnswer                = "answer"
	TypeCandidate             = "candidate"
	TypeConnectionEstablished = "connection-established"
	TypeChat                  = "chat"
	TypeRosterRequest         = "roster-request"
)

// Типы исходящих событий.
const (
	TypeRoster     = "roster"
	TypeUserJoined = "user-joined"
	TypeUserLeft   = "user-left"
)

// Прикладные коды закрытия WebSocket. Должны оставаться различимыми
// по причине — фронт показывает разные сообщения.
const (
	CloseNormal       = 1000
	CloseMissingRoom  = 4000
	CloseInternal     = 4002
	CloseUnauthorized = 4003
	CloseSuperseded   = 4004
)

// Envelope — входящее сообщение сигналинга. Data не интерпретируется:
// внутри SDP, ICE-кандидаты или произвольный текст чата.
type Envelope struct {
	Type            string          `json:"type"`
	TargetSessionID string          `json:"targetSessionId,omitempty"`
	Data            json.RawMessage `json:"data,omitempty"`
}

// isDirect — типы, адресуемые одной конкретной сессии.
func isDirect(t string) bool {
	switch t {
	case TypeOffer, TypeAnswer, TypeCandidate, TypeConnectionEstablished:
		return true
	}
	return false
}

type RosterEntry struct {
	SessionID string `json:"sessionId"`
	Username  string `json:"username"`
	UserID    int64  `json:"userId"`
}

type RosterEvent struct {
	Type  string        `json:"type"`
	Users []RosterEntry `json:"users"`
}

type RelayEvent struct {
	Type            string          `json:"type"`
	SenderSessionID string          `json:"senderSessionId"`
	Data            json.RawMessage `json:"data,omitempty"`
}

type UserRef struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
}

type UserEvent struct {
	Type string  `json:"type"`
	User UserRef `json:"user"`
}
