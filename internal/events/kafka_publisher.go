package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (k *KafkaPublisher) PublishOfferClaimed(event OfferClaimedEvent) error {
	return k.publish([]byte(event.ShopID), event)
}

func (k *KafkaPublisher) PublishBannerClicked(event BannerClickedEvent) error {
	return k.publish([]byte(event.ShopID), event)
}

func (k *KafkaPublisher) publish(key []byte, event any) error {
	msg, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return k.writer.WriteMessages(context.Background(), kafka.Message{
		Key:   key,
		Value: msg,
		Time:  time.Now(),
	})
}

func (k *KafkaPublisher) Close() error {
	return k.writer.Close()
}
