package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/turtacn/DPR-Intelligence/pkg/errors"
)

// mockKafkaWriter
type mockKafkaWriter struct {
	writeFunc func(ctx context.Context, msgs ...kafka.Message) error
	written   []kafka.Message
	closed    bool
}

func (m *mockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if m.writeFunc != nil {
		if err := m.writeFunc(ctx, msgs...); err != nil {
			return err
		}
	}
	m.written = append(m.written, msgs...)
	return nil
}

func (m *mockKafkaWriter) Close() error {
	m.closed = true
	return nil
}

func newTestProducer(w WriterInterface) *Producer {
	return newProducer(w, ProducerConfig{Brokers: []string{"localhost:9092"}, MaxMessageBytes: 64}, nil, nil)
}

func TestProducer_Publish(t *testing.T) {
	t.Parallel()
	w := &mockKafkaWriter{}
	p := newTestProducer(w)

	err := p.Publish(context.Background(), &ProducerMessage{
		Topic: TopicAnalysisCompleted, Key: []byte("doc-1"), Value: []byte(`{"ok":true}`),
		Headers: map[string]string{"event_type": EventAnalysisCompleted},
	})
	require.NoError(t, err)
	require.Len(t, w.written, 1)
	assert.Equal(t, TopicAnalysisCompleted, w.written[0].Topic)
	assert.Equal(t, []byte("doc-1"), w.written[0].Key)
	assert.Equal(t, "event_type", w.written[0].Headers[0].Key)
	assert.False(t, w.written[0].Time.IsZero())
	assert.Equal(t, int64(1), p.Sent())
}

func TestProducer_PublishValidation(t *testing.T) {
	t.Parallel()
	p := newTestProducer(&mockKafkaWriter{})
	ctx := context.Background()

	assert.True(t, pkgerrors.IsCode(p.Publish(ctx, &ProducerMessage{Value: []byte("x")}), pkgerrors.ErrCodeValidation))
	assert.True(t, pkgerrors.IsCode(p.Publish(ctx, &ProducerMessage{Topic: "t"}), pkgerrors.ErrCodeValidation))
	big := make([]byte, 65)
	assert.True(t, pkgerrors.IsCode(p.Publish(ctx, &ProducerMessage{Topic: "t", Value: big}), pkgerrors.ErrCodeValidation))
}

func TestProducer_PublishWriteError(t *testing.T) {
	t.Parallel()
	w := &mockKafkaWriter{writeFunc: func(context.Context, ...kafka.Message) error { return errors.New("broker down") }}
	p := newTestProducer(w)

	err := p.Publish(context.Background(), &ProducerMessage{Topic: "t", Value: []byte("v")})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodePublishFailed))
	assert.Equal(t, int64(0), p.Sent())
}

func TestProducer_Close(t *testing.T) {
	t.Parallel()
	w := &mockKafkaWriter{}
	p := newTestProducer(w)

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.True(t, w.closed)
	assert.Equal(t, ErrProducerClosed, p.Publish(context.Background(), &ProducerMessage{Topic: "t", Value: []byte("v")}))
}

func TestProducer_PublishEvent(t *testing.T) {
	t.Parallel()
	w := &mockKafkaWriter{}
	p := newProducer(w, ProducerConfig{Brokers: []string{"b"}}, nil, nil)

	payload := AnalysisFailedPayload{DocumentID: "doc-9", Code: "ANL_001", Message: "empty document"}
	require.NoError(t, p.PublishEvent(context.Background(), TopicAnalysisFailed, EventAnalysisFailed, "doc-9", payload))
	require.Len(t, w.written, 1)

	env, err := MessageToEventEnvelope(&Message{Value: w.written[0].Value})
	require.NoError(t, err)
	assert.Equal(t, EventAnalysisFailed, env.EventType)
	assert.Equal(t, schemaVersion, env.SchemaVersion)

	var got AnalysisFailedPayload
	require.NoError(t, env.DecodePayload(&got))
	assert.Equal(t, payload.DocumentID, got.DocumentID)
	assert.Equal(t, payload.Code, got.Code)
}

func TestValidateProducerConfig(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateProducerConfig(ProducerConfig{Brokers: []string{"b"}}))
	assert.Error(t, ValidateProducerConfig(ProducerConfig{}))
	assert.Error(t, ValidateProducerConfig(ProducerConfig{Brokers: []string{"b"}, MaxRetries: -1}))
}

//Personal.AI order the ending
