// Package protocols 实现双向流式 TTS 服务的二进制帧协议。
// 帧结构：4 字节头 + 可选事件号 + 可选 session id + 长度前缀的负载。
package protocols

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/gorilla/websocket"
)

// 消息类型（头部第二字节高 4 位）
const (
	MsgTypeFullClientRequest  = 0b0001
	MsgTypeFullServerResponse = 0b1001
	MsgTypeAudioOnlyServer    = 0b1011
	MsgTypeError              = 0b1111
)

// 事件号
const (
	EventType_StartConnection    int32 = 1
	EventType_FinishConnection   int32 = 2
	EventType_ConnectionStarted  int32 = 50
	EventType_ConnectionFailed   int32 = 51
	EventType_ConnectionFinished int32 = 52
	EventType_StartSession       int32 = 100
	EventType_FinishSession      int32 = 102
	EventType_SessionStarted     int32 = 150
	EventType_SessionFinished    int32 = 152
	EventType_SessionFailed      int32 = 153
	EventType_TaskRequest        int32 = 200
	EventType_TTSSentenceStart   int32 = 350
	EventType_TTSSentenceEnd     int32 = 351
	EventType_TTSResponse        int32 = 352
)

const (
	protocolVersion = 0b0001
	headerSize      = 0b0001 // 以 4 字节为单位
	flagWithEvent   = 0b0100
	serializeJSON   = 0b0001
)

// Message 是一帧已解析的协议消息
type Message struct {
	MsgType   int
	EventType int32
	SessionID string
	ErrorCode int32
	Payload   []byte
}

func (m *Message) String() string {
	return fmt.Sprintf("msg{type=%04b event=%d session=%s err=%d payload=%dB}",
		m.MsgType, m.EventType, m.SessionID, m.ErrorCode, len(m.Payload))
}

// hasSession 判断事件是否属于 session 作用域（携带 session id）
func hasSession(event int32) bool {
	return event >= EventType_StartSession
}

func marshal(msgType int, event int32, sessionID string, payload []byte) []byte {
	var buf bytes.Buffer

	buf.WriteByte(protocolVersion<<4 | headerSize)
	buf.WriteByte(byte(msgType<<4 | flagWithEvent))
	buf.WriteByte(serializeJSON << 4)
	buf.WriteByte(0)

	binary.Write(&buf, binary.BigEndian, event)

	if hasSession(event) {
		binary.Write(&buf, binary.BigEndian, int32(len(sessionID)))
		buf.WriteString(sessionID)
	}

	binary.Write(&buf, binary.BigEndian, int32(len(payload)))
	buf.Write(payload)

	return buf.Bytes()
}

func send(conn *websocket.Conn, msgType int, event int32, sessionID string, payload []byte) error {
	if payload == nil {
		payload = []byte("{}")
	}
	return conn.WriteMessage(websocket.BinaryMessage, marshal(msgType, event, sessionID, payload))
}

// StartConnection 发送连接建立事件
func StartConnection(conn *websocket.Conn) error {
	return send(conn, MsgTypeFullClientRequest, EventType_StartConnection, "", nil)
}

// FinishConnection 发送连接结束事件
func FinishConnection(conn *websocket.Conn) error {
	return send(conn, MsgTypeFullClientRequest, EventType_FinishConnection, "", nil)
}

// StartSession 发送带配置负载的会话开始事件
func StartSession(conn *websocket.Conn, payload []byte, sessionID string) error {
	return send(conn, MsgTypeFullClientRequest, EventType_StartSession, sessionID, payload)
}

// FinishSession 发送会话结束事件
func FinishSession(conn *websocket.Conn, sessionID string) error {
	return send(conn, MsgTypeFullClientRequest, EventType_FinishSession, sessionID, nil)
}

// TaskRequest 发送一句合成请求
func TaskRequest(conn *websocket.Conn, payload []byte, sessionID string) error {
	return send(conn, MsgTypeFullClientRequest, EventType_TaskRequest, sessionID, payload)
}

// ReceiveMessage 读取并解析一帧服务端消息
func ReceiveMessage(conn *websocket.Conn) (*Message, error) {
	_, data, err := conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}

// Unmarshal 解析一帧二进制消息
func Unmarshal(data []byte) (*Message, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("protocols: frame too short: %d bytes", len(data))
	}

	hdrLen := int(data[0]&0x0F) * 4
	if len(data) < hdrLen {
		return nil, fmt.Errorf("protocols: header size %d exceeds frame", hdrLen)
	}

	msg := &Message{
		MsgType: int(data[1] >> 4),
	}
	flags := data[1] & 0x0F
	r := bytes.NewReader(data[hdrLen:])

	if msg.MsgType == MsgTypeError {
		if err := binary.Read(r, binary.BigEndian, &msg.ErrorCode); err != nil {
			return nil, fmt.Errorf("protocols: read error code: %w", err)
		}
		msg.Payload, _ = readChunk(r)
		return msg, nil
	}

	if flags&flagWithEvent != 0 {
		if err := binary.Read(r, binary.BigEndian, &msg.EventType); err != nil {
			return nil, fmt.Errorf("protocols: read event: %w", err)
		}
		if hasSession(msg.EventType) {
			sid, err := readChunk(r)
			if err != nil {
				return nil, fmt.Errorf("protocols: read session id: %w", err)
			}
			msg.SessionID = string(sid)
		}
	}

	payload, err := readChunk(r)
	if err != nil {
		return nil, fmt.Errorf("protocols: read payload: %w", err)
	}
	msg.Payload = payload

	return msg, nil
}

func readChunk(r *bytes.Reader) ([]byte, error) {
	var size int32
	if err := binary.Read(r, binary.BigEndian, &size); err != nil {
		return nil, err
	}
	if size < 0 || int(size) > r.Len() {
		return nil, fmt.Errorf("invalid chunk size %d", size)
	}
	// ReadFull 对零长 chunk 直接返回，Read 在帧尾会先报 EOF
	chunk := make([]byte, size)
	if _, err := io.ReadFull(r, chunk); err != nil {
		return nil, err
	}
	return chunk, nil
}
