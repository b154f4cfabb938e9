package metrics

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/kilianp07/apireg/core/events"
	coremetrics "github.com/kilianp07/apireg/core/metrics"
	"github.com/kilianp07/apireg/infra/logger"
)

// InfluxConfig locates the InfluxDB bucket receiving registry events.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// InfluxSink writes registry events to InfluxDB using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a NopSink
// when the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordRegistration writes an api_registration point.
func (s *InfluxSink) RecordRegistration(ev events.Registration) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("api_registration").
		AddTag("api", ev.API).
		AddTag("scope", ev.Scope).
		AddTag("accepted", strconv.FormatBool(ev.Accepted)).
		AddField("priority", ev.Priority).
		AddField("event_id", ev.ID).
		SetTime(ev.Time)
	if ev.Previous != "" {
		p = p.AddField("previous", ev.Previous)
	}
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordResolution writes an api_resolution point.
func (s *InfluxSink) RecordResolution(ev events.Resolution) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("api_resolution").
		AddTag("api", ev.API).
		AddTag("cached", strconv.FormatBool(ev.Cached)).
		AddTag("failed", strconv.FormatBool(ev.Failed())).
		AddField("duration_ms", float64(ev.Duration.Microseconds())/1000).
		AddField("event_id", ev.ID).
		SetTime(ev.Time)
	if ev.Err != "" {
		p = p.AddField("error", ev.Err)
	}
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }
