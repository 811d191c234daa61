package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestCodecRegistered(t *testing.T) {
	c := encoding.GetCodec(CodecName)
	require.NotNil(t, c)
	assert.Equal(t, "json", c.Name())
}

func TestCodec_SyncRequestShape(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	req := &SyncRequest{
		Changes: Changes{
			Tasks: []TaskChange{{Op: "upsert", Data: TaskPayload{ID: "t1", Title: "Write", ClientUpdatedAt: at}}},
		},
	}

	b, err := jsonCodec{}.Marshal(req)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.Nil(t, raw["last_sync_at"])

	changes := raw["changes"].(map[string]any)
	task := changes["tasks"].([]any)[0].(map[string]any)
	assert.Equal(t, "upsert", task["op"])
	data := task["data"].(map[string]any)
	assert.Equal(t, "2024-05-01T10:00:00Z", data["client_updated_at"])
	assert.Nil(t, data["deleted_at"])

	var back SyncRequest
	require.NoError(t, jsonCodec{}.Unmarshal(b, &back))
	assert.Equal(t, *req, back)
}

func TestCodec_ParsesOffsetTimestamps(t *testing.T) {
	var p TaskPayload
	err := jsonCodec{}.Unmarshal([]byte(`{"id":"t1","title":"x","client_updated_at":"2024-05-01T12:00:00+02:00"}`), &p)
	require.NoError(t, err)
	assert.True(t, p.ClientUpdatedAt.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)))
}

func TestCodec_ProtoFallback(t *testing.T) {
	in := &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}

	b, err := jsonCodec{}.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(b), "SERVING")

	out := &healthpb.HealthCheckResponse{}
	require.NoError(t, jsonCodec{}.Unmarshal(b, out))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, out.GetStatus())
}
