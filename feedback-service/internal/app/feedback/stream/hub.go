package stream

import (
	"context"
	"sync"
	"sync/atomic"

	"feedbackhub/pkg/logger"
	"feedbackhub/pkg/metrics"
)

// FetchFunc возвращает полный упорядоченный результат live-запроса
// Вызывается менеджером подписок на каждое изменение данных
type FetchFunc func(ctx context.Context) (interface{}, error)

// Event - одна доставка подписчику: всегда полный снапшот, не диффы
// При ошибке чтения хранилища Items деградирует в пустой результат,
// а причина уходит в side-channel поле Error
type Event struct {
	Items interface{} `json:"items"`
	Error string      `json:"error,omitempty"`
}

// Hub раздаёт уведомления об изменениях всем live-подпискам топика
// Топики: "feed" для ленты, "comments:<id>" для треда одного отзыва
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[int]*Subscription
	next int
}

// Subscription - одна live-подписка с идемпотентной отменой
// Поле active проверяется перед каждой доставкой: после Cancel
// подписчик не получает снапшоты, даже если уведомление уже в пути
type Subscription struct {
	hub    *Hub
	topic  string
	id     int
	notify chan struct{}
	active atomic.Bool
	cancel sync.Once
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[string]map[int]*Subscription),
	}
}

// Subscribe регистрирует подписку на топик
// Канал уведомлений буферизован одним токеном и предзаряжен,
// поэтому первый снапшот доставляется сразу после подписки
func (h *Hub) Subscribe(topic string) *Subscription {
	sub := &Subscription{
		hub:    h,
		topic:  topic,
		notify: make(chan struct{}, 1),
	}
	sub.active.Store(true)
	sub.notify <- struct{}{}

	h.mu.Lock()
	sub.id = h.next
	h.next++
	if h.subs[topic] == nil {
		h.subs[topic] = make(map[int]*Subscription)
	}
	h.subs[topic][sub.id] = sub
	h.mu.Unlock()

	metrics.StreamSubscribers.WithLabelValues(topicLabel(topic)).Inc()

	return sub
}

// Notify помечает все подписки топика как устаревшие
// Повторные уведомления до следующей доставки схлопываются в одно:
// подписчик всё равно перечитает полный актуальный снапшот
func (h *Hub) Notify(topic string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subs[topic] {
		if !sub.active.Load() {
			continue
		}
		select {
		case sub.notify <- struct{}{}:
		default:
			// Уведомление уже ожидает доставки
		}
	}
}

// Cancel отменяет подписку; безопасно вызывать многократно
func (s *Subscription) Cancel() {
	s.cancel.Do(func() {
		s.active.Store(false)

		s.hub.mu.Lock()
		if subs, ok := s.hub.subs[s.topic]; ok {
			delete(subs, s.id)
			if len(subs) == 0 {
				delete(s.hub.subs, s.topic)
			}
		}
		close(s.notify)
		s.hub.mu.Unlock()

		metrics.StreamSubscribers.WithLabelValues(topicLabel(s.topic)).Dec()
	})
}

// Stream доставляет снапшоты в onSnapshot, пока подписку не отменят
// или не завершится контекст. Блокирует вызывающую горутину.
// empty доставляется вместо результата при ошибке fetch: живая лента
// никогда не роняет экран, пустое состояние всегда отображаемо
func (s *Subscription) Stream(ctx context.Context, fetch FetchFunc, empty interface{}, onSnapshot func(Event)) {
	defer s.Cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-s.notify:
			if !ok {
				return
			}

			items, err := fetch(ctx)

			// Отмена могла произойти, пока снапшот читался из хранилища
			if !s.active.Load() {
				return
			}

			event := Event{Items: items}
			if err != nil {
				logger.Error().Err(err).Str("topic", s.topic).Msg("Snapshot fetch failed, delivering empty result")
				event = Event{Items: empty, Error: "failed to load data"}
			}

			onSnapshot(event)
			metrics.StreamSnapshotsDelivered.WithLabelValues(topicLabel(s.topic)).Inc()
		}
	}
}

// topicLabel нормализует топик для метрик: comments:<id> схлопывается
func topicLabel(topic string) string {
	if topic == TopicFeed {
		return "feed"
	}
	return "comments"
}

// TopicFeed - топик ленты отзывов
const TopicFeed = "feed"

// TopicComments строит топик треда одного отзыва
func TopicComments(feedbackID string) string {
	return "comments:" + feedbackID
}
