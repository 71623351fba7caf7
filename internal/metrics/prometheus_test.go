package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	rec := NewPrometheusRecorder(reg)

	rec.IncSlotLoad("projects", LoadCorrupt)
	rec.IncSlotLoad("projects", LoadCorrupt)
	rec.IncSlotLoad("projects", LoadStored)
	rec.ObserveSlotWrite("projects", 10*time.Millisecond, true)
	rec.ObserveSlotWrite("projects", time.Millisecond, false)
	rec.IncMutation("increment")
	rec.SetProjectCount(3)

	families, err := reg.Gather()
	require.NoError(t, err)

	byName := make(map[string]int)
	for _, mf := range families {
		byName[mf.GetName()] = len(mf.GetMetric())
	}
	require.Equal(t, 2, byName["knitpick_slot_loads_total"])
	require.Equal(t, 2, byName["knitpick_slot_write_duration_seconds"])
	require.Equal(t, 1, byName["knitpick_project_mutations_total"])
	require.Equal(t, 1, byName["knitpick_projects"])

	for _, mf := range families {
		if mf.GetName() != "knitpick_projects" {
			continue
		}
		require.Equal(t, 3.0, mf.GetMetric()[0].GetGauge().GetValue())
	}
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	rec := NewPrometheusRecorder(reg)
	rec.IncMutation("add")

	srv := httptest.NewServer(HTTPHandler(reg))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `knitpick_project_mutations_total{op="add"} 1`)
}

func TestNoopRecorder(t *testing.T) {
	var rec Recorder = NoopRecorder{}
	rec.IncSlotLoad("k", LoadMissing)
	rec.ObserveSlotWrite("k", time.Second, true)
	rec.IncMutation("delete")
	rec.SetProjectCount(0)
}
