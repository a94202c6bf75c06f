package progress_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"silhouette/internal/jobs"
	"silhouette/internal/progress"
)

type recordingPublisher struct {
	channel  string
	messages [][]byte
	err      error
}

func (p *recordingPublisher) Publish(ctx context.Context, channel string, message any) *redis.IntCmd {
	p.channel = channel
	if data, ok := message.([]byte); ok {
		p.messages = append(p.messages, data)
	}
	cmd := redis.NewIntCmd(ctx)
	if p.err != nil {
		cmd.SetErr(p.err)
	} else {
		cmd.SetVal(1)
	}
	return cmd
}

func sampleSnapshot() []jobs.Job {
	return []jobs.Job{
		{ID: "a", Seq: 1, Source: jobs.SourceAsset{Name: "a.png", Size: 3, Data: []byte("abc")}, Status: jobs.StatusCompleted, Progress: 100, Cleaned: []byte("png"), Vector: []byte("<svg/>")},
		{ID: "b", Seq: 2, Source: jobs.SourceAsset{Name: "b.png"}, Status: jobs.StatusPending},
	}
}

func TestMultiFansOutAndSkipsNil(t *testing.T) {
	var first, second int
	sink := progress.Multi(
		progress.SinkFunc(func(context.Context, []jobs.Job) { first++ }),
		nil,
		progress.SinkFunc(func(context.Context, []jobs.Job) { second++ }),
	)
	sink.Publish(context.Background(), sampleSnapshot())
	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
}

func TestEmitToleratesNilSink(t *testing.T) {
	progress.Emit(context.Background(), nil, sampleSnapshot())
}

func TestChannelSinkCopiesSnapshot(t *testing.T) {
	sink := progress.NewChannelSink(1)
	snapshot := sampleSnapshot()
	sink.Publish(context.Background(), snapshot)
	snapshot[0].Status = jobs.StatusFailed

	got := <-sink.C()
	require.Len(t, got, 2)
	assert.Equal(t, jobs.StatusCompleted, got[0].Status)
}

func TestChannelSinkHonoursCancellation(t *testing.T) {
	sink := progress.NewChannelSink(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sink.Publish(ctx, sampleSnapshot())
}

func TestRedisSinkPublishesSummaries(t *testing.T) {
	pub := &recordingPublisher{}
	sink := progress.NewRedisSink(pub, "silhouette:progress", nil)
	sink.Publish(context.Background(), sampleSnapshot())

	require.Len(t, pub.messages, 1)
	assert.Equal(t, "silhouette:progress", pub.channel)

	var event progress.Event
	require.NoError(t, json.Unmarshal(pub.messages[0], &event))
	assert.Equal(t, "snapshot", event.Type)
	assert.Equal(t, 2, event.Stats.Total)
	assert.Equal(t, 1, event.Stats.Completed)
	require.Len(t, event.Jobs, 2)
	assert.True(t, event.Jobs[0].HasVector)
	assert.NotContains(t, string(pub.messages[0]), "<svg/>")
}

func TestRedisSinkSwallowsErrors(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("connection refused")}
	sink := progress.NewRedisSink(pub, "ch", nil)
	sink.Publish(context.Background(), sampleSnapshot())
	assert.Len(t, pub.messages, 1)
}
