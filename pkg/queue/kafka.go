// Package queue pushes check run jobs onto the work queue consumed by the runners.
package queue

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/LambdaTest/neuron/config"
	"github.com/LambdaTest/neuron/pkg/core"
	"github.com/LambdaTest/neuron/pkg/errs"
	"github.com/LambdaTest/neuron/pkg/lumber"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/scram"
)

const writeTimeout = 10 * time.Second

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type producer struct {
	writer messageWriter
	logger lumber.Logger
}

// NewKafka returns a core.WorkQueue writing to the configured topic. Messages are
// keyed by repository so the jobs of one repository keep their order.
func NewKafka(cfg config.Kafka, logger lumber.Logger) (core.WorkQueue, error) {
	transport := &kafka.Transport{}
	if cfg.Username != "" {
		mechanism, err := scram.Mechanism(scram.SHA512, cfg.Username, cfg.Password)
		if err != nil {
			return nil, fmt.Errorf("error creating SASL mechanism: %v", err)
		}
		transport.SASL = mechanism
	}
	if !cfg.SkipTLS {
		transport.TLS = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Address),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		Transport:    transport,
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  5,
		WriteTimeout: writeTimeout,
		ErrorLogger:  kafka.LoggerFunc(logger.Errorf),
	}
	return &producer{writer: writer, logger: logger}, nil
}

// Enqueue writes the job synchronously.
func (p *producer) Enqueue(ctx context.Context, job *core.Job) error {
	value, err := json.Marshal(job)
	if err != nil {
		return errs.ErrQueuePush(err.Error())
	}
	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(job.RepoID, 10)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "job_id", Value: []byte(job.JobID)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return errs.ErrQueuePush(err.Error())
	}
	p.logger.WithFields(lumber.Fields{
		lumber.FieldJobID:  job.JobID,
		lumber.FieldRepoID: job.RepoID,
		lumber.FieldSha:    job.Sha,
	}).Infof("enqueued job with %d checks", len(job.Checks))
	return nil
}

func (p *producer) Close() error {
	return p.writer.Close()
}
