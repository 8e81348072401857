package generator

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunthewhat/easy-cert-batch/common/util"
	"github.com/sunthewhat/easy-cert-batch/internal/batch"
	"github.com/sunthewhat/easy-cert-batch/internal/ingest"
	"github.com/sunthewhat/easy-cert-batch/internal/jobs"
	"github.com/sunthewhat/easy-cert-batch/internal/layout"
	"github.com/sunthewhat/easy-cert-batch/internal/renderer"
	"github.com/sunthewhat/easy-cert-batch/type/shared"
)

type stubRenderer struct {
	group string
	gate  chan struct{}
}

func (s *stubRenderer) Variant(string) layout.SizeVariant { return layout.Normal }

func (s *stubRenderer) Render(_ context.Context, key layout.TemplateKey, values map[string]string) ([]byte, error) {
	if s.gate != nil {
		<-s.gate
	}
	if key.Group.String() != s.group {
		return nil, errors.New("wrong renderer")
	}
	return []byte("%PDF " + values[layout.KeyCertID]), nil
}

type memorySink struct {
	mu   sync.Mutex
	puts map[string][]byte
	err  error
}

func (m *memorySink) Put(_ context.Context, jobID string, archive []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts[jobID] = archive
	return "https://minio.local/archive/" + jobID + ".zip", m.err
}

const sampleCSV = "Имя;Фамилия;Название тренинга;Даты;ID\n" +
	"Anna;Lee;Go;10.01.25 - 17.01.25;1\n" +
	"Bob;Stone;Go;01.06.25;2\n" +
	"Eve;;Go;01.06.25;3\n"

func newService(sink ArchiveSink, gate chan struct{}) *Service {
	renderers := map[layout.Group]renderer.Renderer{
		layout.Print:  &stubRenderer{group: "print", gate: gate},
		layout.Online: &stubRenderer{group: "online", gate: gate},
	}
	orchestrator := batch.NewOrchestrator(batch.NewPool(2), layout.ValueOptions{MonthLocale: "en"})
	return NewService(orchestrator, renderers, jobs.NewRegistry(), sink)
}

func zipNames(t *testing.T, archive []byte) []string {
	t.Helper()
	reader, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	require.NoError(t, err)
	var names []string
	for _, f := range reader.File {
		names = append(names, f.Name)
	}
	return names
}

func TestGenerate_Sync(t *testing.T) {
	sink := &memorySink{puts: map[string][]byte{}}
	service := newService(sink, nil)

	jobID, archive, err := service.Generate(context.Background(), Submission{
		JobID: "sync-1", Mode: "online", Filename: "people.csv", Data: []byte(sampleCSV),
	})
	require.NoError(t, err)

	assert.Equal(t, "sync-1", jobID)
	assert.ElementsMatch(t, []string{"1_Lee_Anna.pdf", "2_Stone_Bob.pdf"}, zipNames(t, archive))

	snap := service.Registry().Get("sync-1").Snapshot()
	assert.Equal(t, jobs.StageDone, snap.Stage)
	assert.Equal(t, 3, snap.Processed)
	assert.Equal(t, 1, snap.ErrorCount)
	assert.Equal(t, archive, sink.puts["sync-1"])

	_, err = service.Registry().TakeResult("sync-1")
	assert.True(t, errors.Is(err, jobs.ErrNotReady), "sync results are not kept")
}

func TestGenerate_GeneratesJobID(t *testing.T) {
	service := newService(nil, nil)

	jobID, _, err := service.Generate(context.Background(), Submission{Mode: "print", Filename: "a.csv", Data: []byte(sampleCSV)})
	require.NoError(t, err)
	assert.Len(t, jobID, 36)
}

func TestGenerate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		sub    Submission
		target error
	}{
		{"bad mode", Submission{JobID: "m", Mode: "fax", Data: []byte(sampleCSV)}, ErrInvalidMode},
		{"empty upload", Submission{JobID: "e", Mode: "print", Filename: "x.csv"}, ingest.ErrFormat},
		{"unknown headers", Submission{JobID: "z", Mode: "print", Filename: "x.csv", Data: []byte("a,b\n1,2\n")}, batch.ErrZeroSuccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newService(nil, nil)

			_, archive, err := service.Generate(context.Background(), tt.sub)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
			assert.Nil(t, archive)
		})
	}
}

func TestGenerate_FailureLeavesJobTerminal(t *testing.T) {
	service := newService(nil, nil)

	_, _, err := service.Generate(context.Background(), Submission{JobID: "z", Mode: "print", Filename: "x.csv", Data: []byte("a,b\n1,2\n")})
	require.Error(t, err)

	snap := service.Registry().Get("z").Snapshot()
	assert.Equal(t, jobs.StageError, snap.Stage)
	assert.Contains(t, snap.Message, "Detected columns: a, b")
}

func TestLaunch_RunsInBackground(t *testing.T) {
	gate := make(chan struct{})
	service := newService(nil, gate)

	job := service.Registry().Get("async-1")
	notify, cancel := job.Subscribe()
	defer cancel()

	jobID, err := service.Launch(context.Background(), Submission{
		JobID: "async-1", Mode: "print", Filename: "people.csv", Data: []byte(sampleCSV),
	})
	require.NoError(t, err)
	assert.Equal(t, "async-1", jobID)

	_, err = service.Registry().TakeResult("async-1")
	assert.True(t, errors.Is(err, jobs.ErrNotReady))

	_, err = service.Launch(context.Background(), Submission{JobID: "async-1", Mode: "print", Data: []byte(sampleCSV)})
	assert.True(t, errors.Is(err, jobs.ErrJobExists))

	close(gate)

	deadline := time.After(2 * time.Second)
	for {
		select {
		case <-notify:
		case <-deadline:
			t.Fatal("job did not finish")
		}
		if job.Snapshot().Stage.Terminal() {
			break
		}
	}

	assert.Equal(t, jobs.StageDone, job.Snapshot().Stage)
	archive, err := service.Registry().TakeResult("async-1")
	require.NoError(t, err)
	assert.Len(t, zipNames(t, archive), 2)
}

func TestFromConfig(t *testing.T) {
	cfg := &shared.Config{
		Port:         util.Ptr(":0"),
		TemplatesDir: util.Ptr(t.TempDir()),
		ScratchDir:   util.Ptr(t.TempDir()),
		SofficePath:  nil,
		Workers:      util.Ptr(3),
		Renderers:    map[string]string{"print": "template", "online": "overlay"},
	}

	service, err := FromConfig(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &renderer.TemplateRenderer{}, service.renderers[layout.Print])
	assert.IsType(t, &renderer.OverlayRenderer{}, service.renderers[layout.Online])
	assert.Nil(t, service.sink)

	cfg.Renderers["print"] = "html"
	_, err = FromConfig(cfg, nil)
	assert.Error(t, err)
}
