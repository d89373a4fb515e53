package protocols

import (
	"bytes"
	"testing"
)

func TestMarshalUnmarshal(t *testing.T) {
	tests := []struct {
		name      string
		msgType   int
		event     int32
		sessionID string
		payload   []byte
	}{
		{
			name:    "connection event without session",
			msgType: MsgTypeFullClientRequest,
			event:   EventType_StartConnection,
			payload: []byte("{}"),
		},
		{
			name:      "session event carries session id",
			msgType:   MsgTypeFullClientRequest,
			event:     EventType_StartSession,
			sessionID: "sess-001",
			payload:   []byte(`{"speaker":"claire"}`),
		},
		{
			name:      "audio frame",
			msgType:   MsgTypeAudioOnlyServer,
			event:     EventType_TTSResponse,
			sessionID: "sess-001",
			payload:   []byte{0x01, 0x02, 0x03, 0x04},
		},
		{
			name:      "empty payload",
			msgType:   MsgTypeFullClientRequest,
			event:     EventType_FinishSession,
			sessionID: "sess-002",
			payload:   []byte{},
		},
		{
			name:      "server frame with empty payload",
			msgType:   MsgTypeFullServerResponse,
			event:     EventType_SessionFinished,
			sessionID: "sess-003",
			payload:   []byte{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := marshal(tt.msgType, tt.event, tt.sessionID, tt.payload)

			msg, err := Unmarshal(frame)
			if err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if msg.MsgType != tt.msgType {
				t.Fatalf("msg type = %04b, want %04b", msg.MsgType, tt.msgType)
			}
			if msg.EventType != tt.event {
				t.Fatalf("event = %d, want %d", msg.EventType, tt.event)
			}
			if msg.SessionID != tt.sessionID {
				t.Fatalf("session id = %q, want %q", msg.SessionID, tt.sessionID)
			}
			if !bytes.Equal(msg.Payload, tt.payload) {
				t.Fatalf("payload = %v, want %v", msg.Payload, tt.payload)
			}
		})
	}
}

func TestUnmarshalTruncatedFrame(t *testing.T) {
	if _, err := Unmarshal([]byte{0x11, 0x14}); err == nil {
		t.Fatalf("expected error for truncated frame")
	}

	frame := marshal(MsgTypeFullClientRequest, EventType_StartSession, "sess", []byte("{}"))
	if _, err := Unmarshal(frame[:len(frame)-1]); err == nil {
		t.Fatalf("expected error for cut payload")
	}
}
