package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ytheys/agency-radar/internal/config"
)

// AlertType identifies the kind of alert.
type AlertType string

const (
	AlertFetchFailureRate AlertType = "fetch_failure_rate"
	AlertDirectoryEmpty   AlertType = "directory_empty"
	AlertBreakerOpen      AlertType = "breaker_open"
)

// Alert represents a single alert to be sent.
type Alert struct {
	Type      AlertType      `json:"type"`
	Severity  string         `json:"severity"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Alerter evaluates a MetricsSnapshot against configured thresholds
// and sends alerts via webhook when thresholds are breached.
type Alerter struct {
	cfg    config.MonitoringConfig
	client *http.Client
}

// NewAlerter creates a new Alerter with the given monitoring config.
func NewAlerter(cfg config.MonitoringConfig) *Alerter {
	return &Alerter{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Evaluate checks the snapshot against thresholds and returns any alerts.
func (a *Alerter) Evaluate(snap *MetricsSnapshot) []Alert {
	var alerts []Alert
	now := time.Now().UTC()

	// Check fetch failure rate. A handful of attempts is too noisy to
	// alert on.
	attempts := snap.FetchOK + snap.FetchFailed
	if attempts >= 5 && snap.FetchFailRate > a.cfg.FailureRateThreshold {
		alerts = append(alerts, Alert{
			Type:     AlertFetchFailureRate,
			Severity: "high",
			Message: fmt.Sprintf(
				"Metadata fetch failure rate %.1f%% exceeds threshold %.1f%% (%d failed / %d attempts)",
				snap.FetchFailRate*100, a.cfg.FailureRateThreshold*100,
				snap.FetchFailed, attempts,
			),
			Details: map[string]any{
				"failure_rate": snap.FetchFailRate,
				"threshold":    a.cfg.FailureRateThreshold,
				"failed":       snap.FetchFailed,
				"attempts":     attempts,
			},
			Timestamp: now,
		})
	}

	// Check for a loaded but empty directory.
	if snap.DirectoryLoaded && snap.AgencyCount == 0 {
		alerts = append(alerts, Alert{
			Type:     AlertDirectoryEmpty,
			Severity: "high",
			Message: fmt.Sprintf(
				"Directory loaded with 0 agencies from %d seeds",
				snap.SeedCount,
			),
			Details: map[string]any{
				"seed_count": snap.SeedCount,
			},
			Timestamp: now,
		})
	}

	// Check metadata source breaker.
	if snap.BreakerState == "open" {
		alerts = append(alerts, Alert{
			Type:     AlertBreakerOpen,
			Severity: "medium",
			Message:  "Metadata source circuit breaker is open; enrichment is degrading to cached or empty records",
			Details: map[string]any{
				"breaker_state": snap.BreakerState,
			},
			Timestamp: now,
		})
	}

	return alerts
}

// SendAlerts delivers alerts to the configured webhook URL.
// Returns the number of alerts successfully sent.
func (a *Alerter) SendAlerts(ctx context.Context, alerts []Alert) int {
	if a.cfg.WebhookURL == "" || len(alerts) == 0 {
		return 0
	}

	sent := 0
	for _, alert := range alerts {
		if err := a.sendWebhook(ctx, alert); err != nil {
			zap.L().Error("monitoring: failed to send alert",
				zap.String("type", string(alert.Type)),
				zap.Error(err),
			)
			continue
		}
		zap.L().Info("monitoring: alert sent",
			zap.String("type", string(alert.Type)),
			zap.String("severity", alert.Severity),
		)
		sent++
	}
	return sent
}

// sendWebhook posts a single alert to the webhook URL.
func (a *Alerter) sendWebhook(ctx context.Context, alert Alert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return eris.Wrap(err, "monitoring: marshal alert")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return eris.Wrap(err, "monitoring: create webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return eris.Wrap(err, "monitoring: webhook request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 400 {
		return eris.Errorf("monitoring: webhook returned status %d", resp.StatusCode)
	}
	return nil
}
