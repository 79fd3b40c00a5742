package repository

import (
	"context"
	"encoding/json"
	"time"

	domrepo "MarketPulse/internal/domain/repository"
	xhttp "MarketPulse/pkg/http"
	pkgkafka "MarketPulse/pkg/kafka"
)

// HTTPDeliverer pushes payloads to a downstream HTTP endpoint. Non-2xx
// responses and timeouts surface as delivery errors.
type HTTPDeliverer struct {
	url     string
	headers map[string]string
	client  *xhttp.Client
}

// NewHTTPDeliverer creates an HTTP sink.
func NewHTTPDeliverer(url string, timeout time.Duration, headers map[string]string) domrepo.Deliverer {
	return &HTTPDeliverer{
		url:     url,
		headers: headers,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

func (d *HTTPDeliverer) Deliver(ctx context.Context, payload []byte) error {
	headers := map[string]string{"Content-Type": "application/json"}
	for k, v := range d.headers {
		headers[k] = v
	}
	return d.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodPost,
		URL:     d.url,
		Headers: headers,
		Body:    payload,
	}, nil)
}

// KafkaDeliverer publishes payloads to a Kafka topic.
type KafkaDeliverer struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaDeliverer creates a Kafka sink.
func NewKafkaDeliverer(producer *pkgkafka.Producer, topic string) domrepo.Deliverer {
	return &KafkaDeliverer{producer: producer, topic: topic}
}

func (d *KafkaDeliverer) Deliver(ctx context.Context, payload []byte) error {
	return d.producer.Publish(ctx, d.topic, deliveryKey(payload), payload)
}

// Close releases the underlying producer.
func (d *KafkaDeliverer) Close() error {
	return d.producer.Close()
}

// deliveryKey partitions by the first ticker in the batch when present so
// per-ticker ordering survives, falling back to a nil key.
func deliveryKey(payload []byte) []byte {
	var batch []struct {
		Asset struct {
			CleanTicker string `json:"clean_ticker"`
		} `json:"asset"`
	}
	if err := json.Unmarshal(payload, &batch); err != nil || len(batch) == 0 {
		return nil
	}
	if t := batch[0].Asset.CleanTicker; t != "" {
		return []byte(t)
	}
	return nil
}
