package notify

import (
	"context"

	"github.com/peluqueriacool/PC-ReservationService/pkg/metrics"
)

// InstrumentedSink декоратор, считающий эмиссии уведомлений по sink'у и исходу
type InstrumentedSink struct {
	name    string
	inner   Sink
	metrics *metrics.Metrics
}

// NewInstrumentedSink оборачивает sink сбором метрик
func NewInstrumentedSink(name string, inner Sink, m *metrics.Metrics) *InstrumentedSink {
	return &InstrumentedSink{name: name, inner: inner, metrics: m}
}

// Emit передает событие вложенному sink'у и фиксирует исход
func (s *InstrumentedSink) Emit(ctx context.Context, event Event) error {
	err := s.inner.Emit(ctx, event)

	status := "success"
	if err != nil {
		status = "error"
	}
	s.metrics.NotificationsEmitted.WithLabelValues(s.name, status).Inc()

	return err
}
