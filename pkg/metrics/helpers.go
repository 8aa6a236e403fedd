package metrics

import (
	"time"
)

type StoreOperation string

const (
	StoreOpFind   StoreOperation = "find"
	StoreOpInsert StoreOperation = "insert"
	StoreOpUpdate StoreOperation = "update"
	StoreOpDelete StoreOperation = "delete"
)

// StoreTimer измеряет длительность одной операции с хранилищем
type StoreTimer struct {
	service    string
	operation  StoreOperation
	collection string
	start      time.Time
}

func NewStoreTimer(service string, op StoreOperation, collection string) *StoreTimer {
	return &StoreTimer{
		service:    service,
		operation:  op,
		collection: collection,
		start:      time.Now(),
	}
}

func (st *StoreTimer) ObserveDuration() {
	duration := time.Since(st.start).Seconds()
	StoreQueryDuration.WithLabelValues(st.service, string(st.operation), st.collection).Observe(duration)
}

func RecordStoreError(service string, op StoreOperation) {
	StoreErrors.WithLabelValues(service, string(op)).Inc()
}

type RedisOperation string

const (
	RedisOpGet RedisOperation = "get"
	RedisOpSet RedisOperation = "set"
	RedisOpDel RedisOperation = "del"
)

func RecordRedisError(service string, op RedisOperation) {
	RedisErrors.WithLabelValues(service, string(op)).Inc()
}

// KafkaProduceTimer фиксирует исход отправки одного сообщения
type KafkaProduceTimer struct {
	service string
	topic   string
	start   time.Time
}

func NewKafkaProduceTimer(service, topic string) *KafkaProduceTimer {
	return &KafkaProduceTimer{
		service: service,
		topic:   topic,
		start:   time.Now(),
	}
}

func (kt *KafkaProduceTimer) Success() {
	KafkaMessagesProduced.WithLabelValues(kt.service, kt.topic).Inc()
	KafkaProduceDuration.WithLabelValues(kt.service, kt.topic).Observe(time.Since(kt.start).Seconds())
}

func (kt *KafkaProduceTimer) Error() {
	KafkaErrors.WithLabelValues(kt.service, kt.topic, "produce").Inc()
}

func RecordKafkaMessageConsumed(service, topic, group string) {
	KafkaMessagesConsumed.WithLabelValues(service, topic, group).Inc()
}

func RecordKafkaError(service, topic, operation string) {
	KafkaErrors.WithLabelValues(service, topic, operation).Inc()
}
