package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

const EmailTopic = "email.send"

// KafkaQueue publishes tasks to a Kafka topic. Used when KAFKA_BROKER is
// configured; a consumer started via StartConsumer picks them up.
type KafkaQueue struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafkaQueue(broker, topic string) (*KafkaQueue, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForLocal

	var producer sarama.SyncProducer
	var err error

	// Retry broker connection; Kafka often comes up after the app in compose setups
	for i := 1; i <= 5; i++ {
		producer, err = sarama.NewSyncProducer([]string{broker}, config)
		if err == nil {
			log.Printf("Connected to Kafka broker: %s", broker)
			break
		}
		log.Printf("Failed to connect to Kafka (try %d/5): %v", i, err)
		time.Sleep(5 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("could not connect to Kafka after retries: %w", err)
	}

	return &KafkaQueue{producer: producer, topic: topic}, nil
}

func (q *KafkaQueue) Enqueue(ctx context.Context, task Task) (string, error) {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	b, err := json.Marshal(task)
	if err != nil {
		return "", err
	}

	msg := &sarama.ProducerMessage{
		Topic: q.topic,
		Key:   sarama.StringEncoder(task.ID),
		Value: sarama.ByteEncoder(b),
	}
	if _, _, err := q.producer.SendMessage(msg); err != nil {
		return "", fmt.Errorf("failed to publish task: %w", err)
	}
	return task.ID, nil
}

func (q *KafkaQueue) Close() error {
	return q.producer.Close()
}

// StartConsumer runs a partition consumer loop for the given topic and feeds
// every message to handler. It blocks; run it in a goroutine from main.
func StartConsumer(ctx context.Context, broker, topic string, handler Handler) error {
	config := sarama.NewConfig()
	config.Consumer.Return.Errors = true

	var client sarama.Consumer
	var err error

	for i := 1; i <= 5; i++ {
		client, err = sarama.NewConsumer([]string{broker}, config)
		if err == nil {
			break
		}
		log.Printf("Failed to connect consumer to Kafka (try %d/5): %v", i, err)
		time.Sleep(5 * time.Second)
	}
	if err != nil {
		return fmt.Errorf("could not connect consumer after retries: %w", err)
	}
	defer client.Close()

	partitionConsumer, err := client.ConsumePartition(topic, 0, sarama.OffsetNewest)
	if err != nil {
		return fmt.Errorf("failed to start partition consumer: %w", err)
	}
	defer partitionConsumer.Close()

	log.Printf("📡 Listening for %s tasks...", topic)

	for {
		select {
		case msg := <-partitionConsumer.Messages():
			var task Task
			if err := json.Unmarshal(msg.Value, &task); err != nil {
				log.Printf("skipping malformed task message: %v", err)
				continue
			}
			if err := handler(ctx, task); err != nil {
				log.Printf("task %s (%s) failed: %v", task.ID, task.Type, err)
			}

		case err := <-partitionConsumer.Errors():
			log.Printf("Kafka consumer error: %v", err)

		case <-ctx.Done():
			log.Println("Kafka consumer stopped.")
			return nil
		}
	}
}
