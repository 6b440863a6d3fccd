package commands

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/infomodel/infomodel-go/pkg/log"
	"github.com/infomodel/infomodel-go/pkg/model"
)

var testBase = time.Date(2026, 1, 28, 10, 15, 32, 123456000, time.UTC)

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.ilog")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

// sampleEvents mirrors a short server run: two types registered, one
// variable added, three reads and a rejected write.
func sampleEvents() []log.Event {
	return []log.Event{
		{Timestamp: testBase, CallID: "aaaaaaaa-0001", Category: log.CategoryConstruction, Operation: log.OpRegisterType, NodeID: "ns=2;i=2147483650"},
		{Timestamp: testBase.Add(time.Millisecond), CallID: "aaaaaaaa-0002", Category: log.CategoryConstruction, Operation: log.OpAddNode, NodeID: "ns=2;i=2147483652"},
		{Timestamp: testBase.Add(time.Second), CallID: "bbbbbbbb-0003", Category: log.CategoryService, Operation: log.OpRead, NodeID: "ns=2;i=2147483652", Value: int64(0), Duration: 1500 * time.Nanosecond},
		{Timestamp: testBase.Add(2 * time.Second), CallID: "bbbbbbbb-0004", Category: log.CategoryService, Operation: log.OpRead, NodeID: "ns=2;i=2147483655", Value: int64(1)},
		{Timestamp: testBase.Add(3 * time.Second), CallID: "cccccccc-0005", Category: log.CategoryService, Operation: log.OpWrite, NodeID: "ns=2;i=2147483652", Status: model.StatusBadNotFound, Message: "not found: write not supported"},
		{Timestamp: testBase.Add(4 * time.Second), CallID: "bbbbbbbb-0006", Category: log.CategoryService, Operation: log.OpRead, NodeID: "ns=2;i=2147483652", Value: int64(2)},
	}
}
