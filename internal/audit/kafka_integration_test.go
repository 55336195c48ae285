//go:build integration

package audit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"sportsreg/pkg/testutil/containers"
)

func Test_KafkaSinkRoundTrip(t *testing.T) {
	broker := containers.NewKafkaBroker(t)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	sink, err := NewKafkaSink(ctx, []string{broker}, "sportsreg.audit.test")
	require.NoError(t, err)
	t.Cleanup(sink.Close)

	want := Event{
		Timestamp:      time.Now().UTC().Truncate(time.Millisecond),
		Action:         ActionRegistrationCompleted,
		RegistrationID: "reg-42",
		Email:          "jane@example.com",
		Role:           "student",
	}
	require.NoError(t, sink.Append(ctx, want))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker),
		kgo.ConsumeTopics("sportsreg.audit.test"),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	t.Cleanup(consumer.Close)

	fetches := consumer.PollFetches(ctx)
	require.NoError(t, fetches.Err())
	records := fetches.Records()
	require.Len(t, records, 1)
	require.Equal(t, "reg-42", string(records[0].Key))

	var got Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	require.Equal(t, want, got)
}
