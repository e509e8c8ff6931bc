package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/vvka-141/rawload/pkg/rawload"
)

func sampleReport() *rawload.LoadReport {
	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &rawload.LoadReport{
		RunID:    uuid.MustParse("5e0bf1a4-3c39-4d5f-9a62-08b52f6f4a11"),
		Database: "saas_analytics",
		Tables: []rawload.TableCount{
			{Table: rawload.TableUsers, Loaded: 120, Total: 120},
			{Table: rawload.TablePlans, Loaded: 3, Total: 3},
		},
		Started:  started,
		Finished: started.Add(900 * time.Millisecond),
	}
}

func TestRender_CompletedRun(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf).Render(sampleReport())
	out := buf.String()

	assert.Contains(t, out, "Raw load complete")
	assert.Contains(t, out, "raw_users")
	assert.Contains(t, out, "120 loaded")
	assert.Contains(t, out, "database=saas_analytics")
	assert.Contains(t, out, "5e0bf1a4-3c39-4d5f-9a62-08b52f6f4a11")
	assert.Contains(t, out, "900ms")
	assert.NotContains(t, out, "skipped")
}

func TestRender_SkippedRun(t *testing.T) {
	r := sampleReport()
	r.Skipped = true
	r.Tables[0].Loaded = 0
	r.Tables[1].Loaded = 0

	var buf bytes.Buffer
	NewRenderer(&buf).Render(r)
	out := buf.String()

	assert.Contains(t, out, "Raw load skipped")
	assert.Contains(t, out, "FORCE_RELOAD=1")
	assert.NotContains(t, out, "loaded")
}

func TestNewRenderer_NilWriterPanics(t *testing.T) {
	assert.Panics(t, func() { NewRenderer(nil) })
}
