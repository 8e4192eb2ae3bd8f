package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cloudbulk/bulk/bulktypes"
)

func TestNopReporter(t *testing.T) {
	reporter := Nop()
	// Must tolerate any call sequence without side effects.
	reporter.Advance(bulktypes.Progress{CompletedUnits: 1, TotalUnits: 2})
	reporter.Complete()
}

func TestLogReporter(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	reporter := Log(zap.New(core))

	reporter.Advance(bulktypes.Progress{CompletedUnits: 1, TotalUnits: 3, BytesTransferred: 10})
	reporter.Advance(bulktypes.Progress{CompletedUnits: 2, TotalUnits: 3, BytesTransferred: 30})
	reporter.Advance(bulktypes.Progress{CompletedUnits: 3, TotalUnits: 3, BytesTransferred: 60})
	reporter.Complete()

	entries := logs.All()
	assert.Len(t, entries, 4)

	final := entries[len(entries)-1]
	assert.Equal(t, "transfer complete", final.Message)
	assert.Equal(t, int64(3), final.ContextMap()["units"])
	assert.Equal(t, int64(60), final.ContextMap()["bytes"])
}

func TestLogReporterNilLogger(t *testing.T) {
	reporter := Log(nil)
	reporter.Advance(bulktypes.Progress{CompletedUnits: 1, TotalUnits: 1})
	reporter.Complete()
}
