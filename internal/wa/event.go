package wa

import "strings"

// WebhookEvent is the inbound message shape posted by the gateway.
type WebhookEvent struct {
	Instance string `json:"instance"`
	Data     struct {
		Key struct {
			RemoteJID string `json:"remoteJid"`
			FromMe    bool   `json:"fromMe"`
		} `json:"key"`
		Message struct {
			Conversation string `json:"conversation"`
		} `json:"message"`
	} `json:"data"`
}

func (e *WebhookEvent) Text() string {
	return e.Data.Message.Conversation
}

// PhoneFromJID extracts the bare phone number from a remoteJid like
// "5511999990000@s.whatsapp.net".
func PhoneFromJID(jid string) string {
	if i := strings.Index(jid, "@"); i >= 0 {
		return jid[:i]
	}
	return jid
}
