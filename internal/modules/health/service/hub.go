package service

import (
	"net/http"
	"sync"
	"time"

	"signal_bot/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
)

type EventType string

const (
	EventCycle   EventType = "cycle"
	EventSignal  EventType = "signal"
	EventClose   EventType = "close"
	EventReset   EventType = "reset"
	EventFailure EventType = "failure"
)

// Event — сообщение живой ленты /ws.
type Event struct {
	Type         EventType `json:"type"`
	Time         time.Time `json:"time"`
	Side         string    `json:"side,omitempty"`
	Price        float64   `json:"price,omitempty"`
	Score        float64   `json:"score,omitempty"`
	Reasons      []string  `json:"reasons,omitempty"`
	NetPct       float64   `json:"net_pct,omitempty"`
	Reason       string    `json:"reason,omitempty"`
	PeriodProfit float64   `json:"period_profit_pct"`
	Error        string    `json:"error,omitempty"`
}

const (
	subscriberBuffer = 16
	writeWait        = 5 * time.Second
)

// Hub раздаёт события подписчикам. Publish никогда не блокирует цикл:
// подписчик с полным буфером отключается.
type Hub struct {
	mu   sync.Mutex
	subs map[chan []byte]struct{}

	upgrader websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[chan []byte]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Subscribe возвращает канал событий и функцию отписки (идемпотентна).
func (h *Hub) Subscribe() (<-chan []byte, func()) {
	ch := make(chan []byte, subscriberBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	return ch, func() { h.drop(ch) }
}

func (h *Hub) drop(ch chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
}

func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) Publish(ev Event) {
	data, err := sonic.Marshal(ev)
	if err != nil {
		logger.Warn("[WS] marshal event %s: %v", ev.Type, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- data:
		default:
			// медленный клиент
			delete(h.subs, ch)
			close(ch)
		}
	}
}

// ServeWS — только запись: входящие сообщения читаются, чтобы заметить закрытие.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("[WS] upgrade: %v", err)
		return
	}
	defer conn.Close()

	ch, unsubscribe := h.Subscribe()
	defer unsubscribe()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case data, ok := <-ch:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "too slow"),
					time.Now().Add(writeWait))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}
}
