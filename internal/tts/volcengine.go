package tts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gopxl/beep"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"mdcast/internal/audio"
	"mdcast/internal/protocols"
)

const defaultVolcEndpoint = "wss://openspeech.bytedance.com/api/v3/tts/bidirection"

// 单句合成的读超时，流式返回的句子不应超过这个时长
const volcSentenceTimeout = 30 * time.Second

type VolcRequest struct {
	Event     int32          `json:"event"`
	Namespace string         `json:"namespace"`
	ReqParams *VolcReqParams `json:"req_params"`
}

type VolcReqParams struct {
	Text        string              `json:"text,omitempty"`
	Speaker     string              `json:"speaker,omitempty"`
	AudioParams *VolcReqAudioParams `json:"audio_params,omitempty"`
}

type VolcReqAudioParams struct {
	Format     string `json:"format,omitempty"`
	SampleRate int32  `json:"sample_rate,omitempty"`
	Channel    int32  `json:"channel,omitempty"`
	SpeechRate int32  `json:"speech_rate,omitempty"`
}

type VolcEngineOption struct {
	Endpoint   string
	VoiceType  string
	ResourceID string
	AccessKey  string
	AppKey     string
	Encoding   string
	SampleRate int
	Channels   int
	SpeedRatio float32
}

// VolcEngine 通过双向 websocket 协议做流式合成，但对外仍是整句接口：
// 每句开一个 session，把流式返回的音频帧收齐后作为一个 Clip 返回。
type VolcEngine struct {
	opt    VolcEngineOption
	conn   *websocket.Conn
	format audio.Format
	log    *logrus.Entry

	closeOnce sync.Once
}

func NewVolcEngine(opt VolcEngineOption, log *logrus.Entry) (*VolcEngine, error) {
	if opt.AccessKey == "" || opt.AppKey == "" {
		return nil, errors.New("tts: volc engine requires access key and app key")
	}
	if opt.VoiceType == "" {
		return nil, errors.New("tts: volc engine requires a voice type")
	}
	if opt.Endpoint == "" {
		opt.Endpoint = defaultVolcEndpoint
	}
	if opt.Encoding == "" {
		opt.Encoding = "pcm"
	}
	if opt.SampleRate == 0 {
		opt.SampleRate = 16000
	}
	if opt.Channels == 0 {
		opt.Channels = 1
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	return &VolcEngine{
		opt: opt,
		format: audio.Format{
			SampleRate: beep.SampleRate(opt.SampleRate),
			Channels:   opt.Channels,
			Precision:  2,
		},
		log: log,
	}, nil
}

func (e *VolcEngine) Initialize(ctx context.Context) error {
	ws, resp, err := e.dialWebsocket(ctx)
	if err != nil {
		if ws != nil {
			_ = ws.Close()
		}
		return fmt.Errorf("tts: dial volc: %w, resp: %v", err, resp)
	}
	e.conn = ws

	if err := protocols.StartConnection(ws); err != nil {
		return fmt.Errorf("tts: start connection: %w", err)
	}
	if _, err := e.waitForEvent(protocols.EventType_ConnectionStarted, 5*time.Second); err != nil {
		return fmt.Errorf("tts: wait connection started: %w", err)
	}

	return nil
}

func (e *VolcEngine) dialWebsocket(ctx context.Context) (*websocket.Conn, *http.Response, error) {
	header := http.Header{}
	header.Set("X-Api-App-Key", e.opt.AppKey)
	header.Set("X-Api-Access-Key", e.opt.AccessKey)
	header.Set("X-Api-Resource-Id", e.opt.ResourceID)
	header.Set("X-Api-Connect-Id", uuid.New().String())

	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return websocket.DefaultDialer.DialContext(dialCtx, e.opt.Endpoint, header)
}

func (e *VolcEngine) Format() audio.Format {
	return e.format
}

// Synthesize 每句开一个独立 session，收齐音频帧后返回整句 Clip
func (e *VolcEngine) Synthesize(ctx context.Context, text string) (*Clip, error) {
	if e.conn == nil {
		return nil, &SynthesisError{Text: text, Err: errors.New("connection not initialized")}
	}

	sessionID := uuid.New().String()

	if err := e.startSession(sessionID); err != nil {
		return nil, &SynthesisError{Text: text, Err: err}
	}
	if err := e.sendTask(sessionID, text); err != nil {
		return nil, &SynthesisError{Text: text, Err: err}
	}
	if err := protocols.FinishSession(e.conn, sessionID); err != nil {
		return nil, &SynthesisError{Text: text, Err: fmt.Errorf("finish session: %w", err)}
	}

	pcm, err := e.collectAudio(ctx)
	if err != nil {
		return nil, &SynthesisError{Text: text, Err: err}
	}
	if len(pcm) == 0 {
		return nil, &SynthesisError{Text: text, Err: errors.New("session finished without audio")}
	}

	clip := &Clip{PCM: pcm, Format: e.format}
	e.log.Debugf("volc tts: session=%s %d bytes, %dms", sessionID, len(pcm), clip.DurationMS())
	return clip, nil
}

func (e *VolcEngine) startSession(sessionID string) error {
	startReq := VolcRequest{
		Event:     protocols.EventType_StartSession,
		Namespace: "BidirectionalTTS",
		ReqParams: &VolcReqParams{
			Speaker: e.opt.VoiceType,
			AudioParams: &VolcReqAudioParams{
				Format:     e.opt.Encoding,
				SampleRate: int32(e.opt.SampleRate),
				Channel:    int32(e.opt.Channels),
				SpeechRate: convertSpeechRate(e.opt.SpeedRatio),
			},
		},
	}
	payload, _ := json.Marshal(&startReq)

	if err := protocols.StartSession(e.conn, payload, sessionID); err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	if _, err := e.waitForEvent(protocols.EventType_SessionStarted, 5*time.Second); err != nil {
		return fmt.Errorf("wait session started: %w", err)
	}
	return nil
}

func (e *VolcEngine) sendTask(sessionID, text string) error {
	taskReq := VolcRequest{
		Event:     protocols.EventType_TaskRequest,
		Namespace: "BidirectionalTTS",
		ReqParams: &VolcReqParams{Text: text},
	}
	payload, _ := json.Marshal(&taskReq)

	if err := protocols.TaskRequest(e.conn, payload, sessionID); err != nil {
		return fmt.Errorf("task request: %w", err)
	}
	return nil
}

// collectAudio 读消息直到 SessionFinished，把音频帧按到达顺序拼起来
func (e *VolcEngine) collectAudio(ctx context.Context) ([]byte, error) {
	deadline := time.Now().Add(volcSentenceTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = e.conn.SetReadDeadline(deadline)

	var pcm []byte
	for {
		msg, err := protocols.ReceiveMessage(e.conn)
		if err != nil {
			return nil, fmt.Errorf("recv: %w", err)
		}

		switch {
		case msg.MsgType == protocols.MsgTypeAudioOnlyServer:
			pcm = append(pcm, msg.Payload...)

		case msg.MsgType == protocols.MsgTypeError:
			return nil, fmt.Errorf("backend error %d: %s", msg.ErrorCode, msg.Payload)

		case msg.EventType == protocols.EventType_SessionFailed:
			return nil, fmt.Errorf("session failed: %s", msg.Payload)

		case msg.EventType == protocols.EventType_SessionFinished:
			return pcm, nil

		default:
			// TTSSentenceStart/End 等事件对整句收集无影响
		}
	}
}

func (e *VolcEngine) waitForEvent(event int32, timeout time.Duration) (*protocols.Message, error) {
	_ = e.conn.SetReadDeadline(time.Now().Add(timeout))
	for {
		msg, err := protocols.ReceiveMessage(e.conn)
		if err != nil {
			return nil, err
		}
		if msg.MsgType == protocols.MsgTypeError {
			return nil, fmt.Errorf("backend error %d: %s", msg.ErrorCode, msg.Payload)
		}
		if msg.EventType == event {
			return msg, nil
		}
	}
}

func (e *VolcEngine) Close() error {
	var closeErr error

	e.closeOnce.Do(func() {
		if e.conn == nil {
			return
		}
		_ = protocols.FinishConnection(e.conn)
		if err := e.conn.Close(); err != nil {
			closeErr = fmt.Errorf("close websocket: %w", err)
		}
		e.conn = nil
	})

	return closeErr
}

// convertSpeechRate 把 0–2 的语速倍率映射到协议的 -50–100 区间
func convertSpeechRate(speedRatio float32) int32 {
	if speedRatio == 0 {
		return 0
	}

	var rate float32
	switch {
	case speedRatio <= 1:
		rate = -50 + 50*speedRatio
	default:
		rate = 100 * (speedRatio - 1)
	}

	if rate < -50 {
		rate = -50
	} else if rate > 100 {
		rate = 100
	}
	return int32(rate)
}
