package ws

import (
	"SpaceColony/modules/kit/logx"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-think/openssl"
	"github.com/go-viper/mapstructure/v2"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"SpaceColony/internal/shared/security"
	"SpaceColony/internal/shared/transport"
	"SpaceColony/internal/shared/utils"
)

type WsServer struct {
	conn     *websocket.Conn
	router   *Router
	outChan  chan *WsMsgResp
	Seq      int64
	property map[string]any
	sync.RWMutex
	done      chan struct{}
	closeOnce sync.Once
	log       logx.Logger

	needSecret bool
	limiter    *rate.Limiter
}

func NewWsServer(wsConn *websocket.Conn, l logx.Logger) *WsServer {
	return &WsServer{
		conn:     wsConn,
		outChan:  make(chan *WsMsgResp, 1000),
		property: make(map[string]any),
		Seq:      0,
		done:     make(chan struct{}),
		log:      l,

		needSecret: true,
		limiter:    rate.NewLimiter(rate.Inf, 1),
	}
}

func (s *WsServer) Router(router *Router) {
	s.router = router
}

func (s *WsServer) SetProperty(key string, value any) {
	s.Lock()
	defer s.Unlock()
	s.property[key] = value
}

func (s *WsServer) GetProperty(key string) any {
	s.RLock()
	defer s.RUnlock()
	return s.property[key]
}

func (s *WsServer) RemoveProperty(key string) {
	s.Lock()
	defer s.Unlock()
	delete(s.property, key)
}

func (s *WsServer) Addr() string {
	return s.conn.RemoteAddr().String()
}

func (s *WsServer) Push(name string, data any) {
	rsp := WsMsgResp{
		Body: &RespBody{
			Seq:  0,
			Name: name,
			Msg:  data,
		},
	}
	s.send(&rsp)
}

// send 连接关闭后丢弃，避免推送方阻塞在满的 outChan 上。
func (s *WsServer) send(rsp *WsMsgResp) {
	select {
	case s.outChan <- rsp:
	case <-s.done:
	default:
		s.log.Warn("ws_server out chan full, drop msg", zap.String("name", rsp.Body.Name))
	}
}

func (s *WsServer) Run() {
	go s.readMsgLoop()
	go s.writeMsgLoop()
}

func (s *WsServer) readMsgLoop() {
	defer func() {
		if err := recover(); err != nil {
			e := fmt.Sprintf("%v", err)
			s.log.Error("ws readMsgLoop error", zap.String("err", e))
		}
		s.Close()
	}()
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			s.log.Error("ws_server read msg", zap.Error(err))
			return
		}

		decryptedData, ok := s.decode(data)
		if !ok {
			continue
		}

		// 4.转为 json
		reqBody := ReqBody{}
		err = json.Unmarshal(decryptedData, &reqBody)
		if err != nil {
			s.log.Error("ws_server readMsgLoop unmarshal json error", zap.Error(err))
			continue
		}

		// 5.分发消息
		req := WsMsgReq{Body: &reqBody, Conn: s}
		// req 和 resp 的 Seq 必须一致
		resp := WsMsgResp{Body: &RespBody{Seq: req.Body.Seq, Name: reqBody.Name, Msg: reqBody.Msg}}
		if reqBody.Name == HeartbeatMsg {
			// 回复客户端心跳，心跳放服务端合适，目前只能满足客户端的条件
			h := &Heartbeat{}
			mapstructure.Decode(reqBody.Msg, h)
			h.STime = time.Now().UnixNano() / 1e6
			resp.Body.Msg = h
		} else if !s.limiter.Allow() {
			resp.Body.Code = transport.RateLimited
			resp.Body.Msg = "请求过于频繁"
		} else {
			s.log.Debug("ws_server read msg", zap.Any("data", reqBody))
			s.router.Dispatch(&req, &resp)
		}

		s.send(&resp)
	}
}

func (s *WsServer) writeMsgLoop() {
	for {
		select {
		case msg, ok := <-s.outChan:
			if ok {
				if msg.Body.Name != HeartbeatMsg {
					s.log.Debug("ws_server write msg", zap.String("name", msg.Body.Name), zap.Int("code", msg.Body.Code))
				}
				s.write(msg)
			}
		case <-s.done:
			return
		}
	}
}

func (s *WsServer) Close() {
	s.closeOnce.Do(func() {
		_ = s.conn.Close()
		close(s.done)
	})
}

func (s *WsServer) Done() <-chan struct{} {
	return s.done
}

func (s *WsServer) write(msg *WsMsgResp) {
	// 转成 json
	marshal, err := json.Marshal(msg.Body)
	if err != nil {
		s.log.Error("ws_server write marshal json error", zap.Error(err))
		return
	}

	if !s.needSecret {
		if err := s.conn.WriteMessage(websocket.TextMessage, marshal); err != nil {
			s.log.Error("ws_server write error", zap.Error(err))
		}
		return
	}

	// 获取密匙
	secretKey := s.GetProperty(SecretKey)
	if secretKey == nil {
		s.log.Error("ws_server write not found secretKey", zap.String("name", msg.Body.Name))
		return
	}

	// 加密
	key := secretKey.(string)
	encryptedData, err := security.AesCBCEncrypt(marshal, []byte(key), []byte(key), openssl.ZEROS_PADDING)
	if err != nil {
		s.log.Error("ws_server write encrypt error", zap.Error(err))
		return
	}

	// 压缩
	zip, err := security.Zip(encryptedData)
	if err != nil {
		s.log.Error("ws_server write zip error", zap.Error(err))
		return
	}

	// 压缩后的密文是二进制字节流，必须走 BinaryMessage，不能走 TextMessage
	if err := s.conn.WriteMessage(websocket.BinaryMessage, zip); err != nil {
		s.log.Error("ws_server write error", zap.Error(err))
	}
}

// decode 前端发送的是压缩加密过的 json；明文模式直接返回。
func (s *WsServer) decode(data []byte) ([]byte, bool) {
	if !s.needSecret {
		return data, true
	}

	//1. 解压缩
	secretData, err := security.UnZip(data)
	if err != nil {
		s.log.Error("ws_server readMsgLoop unzip", zap.Error(err))
		return nil, false
	}

	// 2.获取密匙
	secretKey := s.GetProperty(SecretKey)
	if secretKey == nil {
		s.log.Error("ws_server readMsgLoop not found secretKey")
		return nil, false
	}

	// 3.解密数据
	key := secretKey.(string)
	decryptedData, err := security.AesCBCDecrypt(secretData, []byte(key), []byte(key), openssl.ZEROS_PADDING)
	if err != nil {
		s.log.Error("ws_server readMsgLoop decrypt error", zap.Error(err))
		// 出错后，发起握手
		s.handshake()
		return nil, false
	}
	return decryptedData, true
}

func (s *WsServer) handshake() {
	if !s.needSecret {
		return
	}
	secretKey := ""
	key := s.GetProperty(SecretKey)
	if key == nil {
		secretKey = utils.RandSeq(16)
	} else {
		secretKey = key.(string)
	}

	handshake := &Handshake{Key: secretKey}
	body := &RespBody{Name: HandshakeMsg, Msg: handshake}

	data, err := json.Marshal(body)
	if err != nil {
		s.log.Error("ws_server handshake marshal json error", zap.Error(err))
		return
	}

	s.SetProperty(SecretKey, secretKey)

	// 握手包只压缩不加密，客户端拿到密钥后才能解密后续帧
	zipData, err := security.Zip(data)
	if err != nil {
		s.log.Error("ws_server handshake zip error", zap.Error(err))
		return
	}
	if err := s.conn.WriteMessage(websocket.BinaryMessage, zipData); err != nil {
		s.log.Error("ws_server handshake write error", zap.Error(err))
	}
}
