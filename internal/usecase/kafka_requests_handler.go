package usecase

import (
	"context"
	"encoding/json"
	"time"

	"OptionVal/internal/domain/models"
	domrepo "OptionVal/internal/domain/repository"
	pkgkafka "OptionVal/pkg/kafka"
	"OptionVal/pkg/logger"
)

// KafkaRequestsHandler consumes valuation requests from Kafka and runs them.
// Results go through the same store/publish path as HTTP requests.
type KafkaRequestsHandler struct {
	topic   string
	svc     *ValuationService
	metrics domrepo.Metrics
	log     *logger.Logger
}

func NewKafkaRequestsHandler(topic string, svc *ValuationService, metrics domrepo.Metrics, log *logger.Logger) *KafkaRequestsHandler {
	return &KafkaRequestsHandler{topic: topic, svc: svc, metrics: metrics, log: log}
}

func (h *KafkaRequestsHandler) Topic() string { return h.topic }

// Handle decodes one ValuationRequest message and prices it.
func (h *KafkaRequestsHandler) Handle(ctx context.Context, b []byte) error {
	var req models.ValuationRequest
	if err := json.Unmarshal(b, &req); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	applyRequestDefaults(&req)

	start := time.Now()
	res, err := h.svc.Value(ctx, &req, "kafka")
	h.metrics.RecordLatency("kafka_valuation_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_valuation")
		if h.log != nil {
			h.log.Error("kafka valuation failed", logger.Error(err), logger.String("symbol", req.Symbol))
		}
		return err
	}
	if h.log != nil {
		h.log.Debug("kafka valuation done",
			logger.String("symbol", res.Symbol),
			logger.Any("price", res.Price),
			logger.Bool("cached", res.Cached))
	}
	return nil
}

// applyRequestDefaults fills zero fields the JSON path leaves unset.
// The HTTP path gets the same values from struct tag defaults.
func applyRequestDefaults(req *models.ValuationRequest) {
	if req.Paths == 0 {
		req.Paths = 10000
	}
	if req.Steps == 0 {
		req.Steps = 10
	}
	if req.Seed == 0 {
		req.Seed = 31415
	}
	if req.Scheme == "" {
		req.Scheme = "log_euler"
	}
}

var _ pkgkafka.MessageHandler = (*KafkaRequestsHandler)(nil)
