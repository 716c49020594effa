package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/fivea/internal/teams"
)

// counterValue returns the value of the counter in family name whose labels
// include every pair in labels.
func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metrics:
		for _, m := range mf.GetMetric() {
			for k, v := range labels {
				found := false
				for _, lp := range m.GetLabel() {
					if lp.GetName() == k && lp.GetValue() == v {
						found = true
					}
				}
				if !found {
					continue metrics
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %s %v not found", name, labels)
	return 0
}

func TestRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.RecordRejections(teams.StageStrict, map[teams.FailureReason]int{
		teams.FailRoles:  3,
		teams.FailSocial: 0,
	})
	r.RecordGeneration(teams.StageRelaxedMutual, false, 2*time.Millisecond)
	r.RecordGeneration(teams.StageFallback, true, time.Millisecond)

	require.Equal(t, float64(3), counterValue(t, reg, "fivea_partition_rejections_total",
		map[string]string{"stage": "STRICT", "reason": string(teams.FailRoles)}))
	require.Equal(t, float64(0), counterValue(t, reg, "fivea_partition_rejections_total",
		map[string]string{"stage": "STRICT", "reason": string(teams.FailSocial)}))
	require.Equal(t, float64(1), counterValue(t, reg, "fivea_generations_total",
		map[string]string{"stage": "FALLBACK", "fallback": "true"}))
	require.Equal(t, float64(0), counterValue(t, reg, "fivea_generations_total",
		map[string]string{"stage": "STRICT"}))
}

func TestRecorderWithGenerator(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	players := make([]teams.Player, teams.RosterSize)
	for i := range players {
		players[i] = teams.Player{
			ID: string(rune('a' + i)), Name: "P", Role: teams.RoleFLEX,
			Rating: 5, GKWillingness: teams.WillingYes,
		}
	}
	res := teams.New(teams.WithRecorder(r)).Generate(players)
	require.NotNil(t, res)

	require.Equal(t, float64(1), counterValue(t, reg, "fivea_generations_total",
		map[string]string{"stage": "STRICT", "fallback": "false"}))
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)
	r.RecordRequest(http.MethodGet, "/health", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `fivea_http_requests_total{method="GET",route="/health",status="200"} 1`)
	require.Contains(t, string(body), "fivea_partition_rejections_total")
}
