package wa

import (
	"encoding/json"
	"testing"
)

func TestPhoneFromJID(t *testing.T) {
	cases := map[string]string{
		"5511999990000@s.whatsapp.net": "5511999990000",
		"5511999990000@g.us":           "5511999990000",
		"5511999990000":                "5511999990000",
	}
	for jid, want := range cases {
		if got := PhoneFromJID(jid); got != want {
			t.Errorf("PhoneFromJID(%q) = %q, want %q", jid, got, want)
		}
	}
}

func TestWebhookEventDecode(t *testing.T) {
	payload := `{
		"instance": "clinic-main",
		"data": {
			"key": {"remoteJid": "5511999990000@s.whatsapp.net", "fromMe": false},
			"message": {"conversation": "hi, do you have slots tomorrow?"}
		}
	}`

	var ev WebhookEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.Instance != "clinic-main" {
		t.Errorf("instance = %q", ev.Instance)
	}
	if ev.Data.Key.RemoteJID != "5511999990000@s.whatsapp.net" || ev.Data.Key.FromMe {
		t.Errorf("unexpected key: %+v", ev.Data.Key)
	}
	if ev.Text() != "hi, do you have slots tomorrow?" {
		t.Errorf("text = %q", ev.Text())
	}
}
