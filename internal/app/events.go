package app

import (
	"github.com/sirupsen/logrus"

	"billiard/internal/config"
	"billiard/internal/rabbitmq"
	"billiard/internal/service"
)

// NewEventPublisher connects to RabbitMQ when enabled and otherwise logs
// events. The returned func closes the broker connection.
func NewEventPublisher(cfg config.RabbitMQConfig, log logrus.FieldLogger) (service.EventPublisher, func(), error) {
	if !cfg.Enabled {
		return service.NewLogPublisher(log), func() {}, nil
	}

	client, err := rabbitmq.Dial(cfg.URL, cfg.Exchange)
	if err != nil {
		return nil, nil, err
	}

	return rabbitmq.NewEventPublisher(client, cfg.Exchange), client.Close, nil
}
