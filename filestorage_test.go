package loudml

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
)

func newTestStorage(t *testing.T, opts ...Option) Storage {
	t.Helper()
	s, err := NewStorage(Config{DataDir: t.TempDir()}, opts...)
	if err != nil {
		t.Fatalf("NewStorage() error = %v", err)
	}
	return s
}

func mustTimeSeries(t *testing.T, s TimeSeriesSettings) *TimeSeriesModel {
	t.Helper()
	m, err := NewTimeSeriesModel(s)
	if err != nil {
		t.Fatalf("NewTimeSeriesModel() error = %v", err)
	}
	return m
}

func TestStorageScenario(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	m1 := mustTimeSeries(t, testSettings("test-1"))
	if m1.Type() != "timeseries" {
		t.Fatalf("Type() = %q, want timeseries", m1.Type())
	}
	if err := s.CreateModel(ctx, m1); err != nil {
		t.Fatalf("CreateModel(test-1) error = %v", err)
	}
	exists, err := s.ModelExists(ctx, "test-1")
	if err != nil || !exists {
		t.Fatalf("ModelExists(test-1) = %v, %v; want true", exists, err)
	}

	m2 := mustTimeSeries(t, TimeSeriesSettings{
		Name:           "test-2",
		Offset:         56,
		Span:           200,
		BucketInterval: 20,
		Interval:       120,
		Features:       testFeatures,
		Threshold:      30,
	})
	if err := s.CreateModel(ctx, m2); err != nil {
		t.Fatalf("CreateModel(test-2) error = %v", err)
	}

	names, err := s.ListModels(ctx)
	if err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}
	if want := []string{"test-1", "test-2"}; !reflect.DeepEqual(names, want) {
		t.Errorf("ListModels() = %v, want %v", names, want)
	}

	if err := s.DeleteModel(ctx, "test-1"); err != nil {
		t.Fatalf("DeleteModel(test-1) error = %v", err)
	}
	exists, err = s.ModelExists(ctx, "test-1")
	if err != nil || exists {
		t.Errorf("ModelExists(test-1) after delete = %v, %v; want false", exists, err)
	}

	names, err = s.ListModels(ctx)
	if err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}
	if want := []string{"test-2"}; !reflect.DeepEqual(names, want) {
		t.Errorf("ListModels() = %v, want %v", names, want)
	}

	if _, err := s.GetModelData(ctx, "test-1"); !errors.Is(err, ErrModelNotFound) {
		t.Errorf("GetModelData(test-1) error = %v, want ErrModelNotFound", err)
	}

	loaded, err := s.LoadModel(ctx, "test-2")
	if err != nil {
		t.Fatalf("LoadModel(test-2) error = %v", err)
	}
	if loaded.Type() != "timeseries" {
		t.Errorf("Type() = %q, want timeseries", loaded.Type())
	}
	if loaded.Name() != "test-2" {
		t.Errorf("Name() = %q, want test-2", loaded.Name())
	}
	ts, ok := loaded.(*TimeSeriesModel)
	if !ok {
		t.Fatalf("LoadModel() returned %T, want *TimeSeriesModel", loaded)
	}
	if ts.Offset() != 56 {
		t.Errorf("Offset() = %v, want 56", ts.Offset())
	}
}

func TestCreateModelRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	settings := testSettings("round-trip")
	settings.Features = []Feature{
		{Name: "avg_foo", Metric: "avg", Field: "foo", Default: FeatureDefault{Value: 0.5}},
		{Name: "max_bar", Metric: "max", Field: "bar", Measurement: "cpu", Default: FeatureDefault{Previous: true}},
	}
	settings.Seasonality = Seasonality{Daytime: true, Weekday: true}
	orig := mustTimeSeries(t, settings).WithState(json.RawMessage(`{"weights":[1.5,-2]}`))

	if err := s.CreateModel(ctx, orig); err != nil {
		t.Fatalf("CreateModel() error = %v", err)
	}

	loaded, err := s.LoadModel(ctx, "round-trip")
	if err != nil {
		t.Fatalf("LoadModel() error = %v", err)
	}
	ts := loaded.(*TimeSeriesModel)
	if !reflect.DeepEqual(ts.Settings(), orig.Settings()) {
		t.Errorf("settings mismatch\n got: %+v\nwant: %+v", ts.Settings(), orig.Settings())
	}

	var gotState, wantState any
	if err := json.Unmarshal(ts.State(), &gotState); err != nil {
		t.Fatalf("loaded state is not JSON: %v", err)
	}
	json.Unmarshal(orig.State(), &wantState)
	if !reflect.DeepEqual(gotState, wantState) {
		t.Errorf("State() = %s, want %s", ts.State(), orig.State())
	}
}

func TestCreateModelExists(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	if err := s.CreateModel(ctx, mustTimeSeries(t, testSettings("dup"))); err != nil {
		t.Fatalf("CreateModel() error = %v", err)
	}
	before, err := s.GetModelData(ctx, "dup")
	if err != nil {
		t.Fatalf("GetModelData() error = %v", err)
	}

	other := testSettings("dup")
	other.Offset = 999
	err = s.CreateModel(ctx, mustTimeSeries(t, other))
	if !errors.Is(err, ErrModelExists) {
		t.Fatalf("second CreateModel() error = %v, want ErrModelExists", err)
	}

	after, err := s.GetModelData(ctx, "dup")
	if err != nil {
		t.Fatalf("GetModelData() error = %v", err)
	}
	if string(after.Settings) != string(before.Settings) {
		t.Error("failed create must not alter the existing artifact")
	}

	names, _ := s.ListModels(ctx)
	if len(names) != 1 {
		t.Errorf("ListModels() = %v, want a single entry", names)
	}
}

func TestListModelsCreationOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	// Deliberately not in lexical order.
	for _, name := range []string{"zeta", "alpha", "mid", "beta"} {
		if err := s.CreateModel(ctx, mustTimeSeries(t, testSettings(name))); err != nil {
			t.Fatalf("CreateModel(%s) error = %v", name, err)
		}
	}
	if err := s.DeleteModel(ctx, "alpha"); err != nil {
		t.Fatalf("DeleteModel() error = %v", err)
	}
	if err := s.CreateModel(ctx, mustTimeSeries(t, testSettings("alpha"))); err != nil {
		t.Fatalf("re-CreateModel(alpha) error = %v", err)
	}

	names, err := s.ListModels(ctx)
	if err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}
	want := []string{"zeta", "mid", "beta", "alpha"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("ListModels() = %v, want %v", names, want)
	}

	infos, err := s.ListModelInfo(ctx)
	if err != nil {
		t.Fatalf("ListModelInfo() error = %v", err)
	}
	for i := 1; i < len(infos); i++ {
		if infos[i].Seq <= infos[i-1].Seq {
			t.Errorf("sequence not increasing: %d then %d", infos[i-1].Seq, infos[i].Seq)
		}
	}
	if infos[0].Type != TimeSeriesType || infos[0].Path != filepath.Join(s.Root(), modelsDir, "zeta") {
		t.Errorf("ListModelInfo()[0] = %+v", infos[0])
	}
}

func TestListModelsPersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	first, err := NewStorage(Config{DataDir: root})
	if err != nil {
		t.Fatalf("NewStorage() error = %v", err)
	}
	for _, name := range []string{"b", "a", "c"} {
		if err := first.CreateModel(ctx, mustTimeSeries(t, testSettings(name))); err != nil {
			t.Fatalf("CreateModel(%s) error = %v", name, err)
		}
	}

	second, err := NewStorage(Config{DataDir: root})
	if err != nil {
		t.Fatalf("NewStorage() error = %v", err)
	}
	names, err := second.ListModels(ctx)
	if err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}
	if want := []string{"b", "a", "c"}; !reflect.DeepEqual(names, want) {
		t.Errorf("ListModels() = %v, want %v", names, want)
	}

	// Changes made through one instance are visible to the other.
	if err := second.DeleteModel(ctx, "a"); err != nil {
		t.Fatalf("DeleteModel() error = %v", err)
	}
	if ok, _ := first.ModelExists(ctx, "a"); ok {
		t.Error("deletion through another instance should be visible")
	}
}

func TestNeverCreatedModel(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	if ok, err := s.ModelExists(ctx, "ghost"); err != nil || ok {
		t.Errorf("ModelExists(ghost) = %v, %v; want false, nil", ok, err)
	}
	if _, err := s.GetModelData(ctx, "ghost"); !errors.Is(err, ErrModelNotFound) {
		t.Errorf("GetModelData(ghost) error = %v, want ErrModelNotFound", err)
	}
	if _, err := s.LoadModel(ctx, "ghost"); !errors.Is(err, ErrModelNotFound) {
		t.Errorf("LoadModel(ghost) error = %v, want ErrModelNotFound", err)
	}
	if err := s.DeleteModel(ctx, "ghost"); !errors.Is(err, ErrModelNotFound) {
		t.Errorf("DeleteModel(ghost) error = %v, want ErrModelNotFound", err)
	}
}

func TestDeleteModel(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	if err := s.CreateModel(ctx, mustTimeSeries(t, testSettings("gone"))); err != nil {
		t.Fatalf("CreateModel() error = %v", err)
	}
	if err := s.DeleteModel(ctx, "gone"); err != nil {
		t.Fatalf("DeleteModel() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(s.Root(), modelsDir, "gone")); !os.IsNotExist(err) {
		t.Error("artifact directory should be removed")
	}
	if _, err := s.LoadModel(ctx, "gone"); !errors.Is(err, ErrModelNotFound) {
		t.Errorf("LoadModel() after delete error = %v, want ErrModelNotFound", err)
	}
	if err := s.DeleteModel(ctx, "gone"); !errors.Is(err, ErrModelNotFound) {
		t.Errorf("second DeleteModel() error = %v, want ErrModelNotFound", err)
	}
}

func TestLoadModelUnsupportedType(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	writer, err := NewStorage(Config{DataDir: root}, WithRegistry(NewRegistry(TimeSeriesKind, stubKind)))
	if err != nil {
		t.Fatalf("NewStorage() error = %v", err)
	}
	if err := writer.CreateModel(ctx, stubModel{name: "stubby"}); err != nil {
		t.Fatalf("CreateModel() error = %v", err)
	}

	reader, err := NewStorage(Config{DataDir: root})
	if err != nil {
		t.Fatalf("NewStorage() error = %v", err)
	}

	// Raw data stays readable even though the type is unknown.
	data, err := reader.GetModelData(ctx, "stubby")
	if err != nil {
		t.Fatalf("GetModelData() error = %v", err)
	}
	if data.Type != "stub" {
		t.Errorf("Type = %q, want stub", data.Type)
	}

	if _, err := reader.LoadModel(ctx, "stubby"); !errors.Is(err, ErrUnsupportedModelType) {
		t.Errorf("LoadModel() error = %v, want ErrUnsupportedModelType", err)
	}

	m, err := writer.LoadModel(ctx, "stubby")
	if err != nil {
		t.Fatalf("LoadModel() with stub registry error = %v", err)
	}
	if m.Name() != "stubby" {
		t.Errorf("Name() = %q, want stubby", m.Name())
	}
}

func TestCorruptArtifact(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	if err := s.CreateModel(ctx, mustTimeSeries(t, testSettings("bad"))); err != nil {
		t.Fatalf("CreateModel() error = %v", err)
	}

	path := filepath.Join(s.Root(), modelsDir, "bad", artifactFile)
	if err := os.WriteFile(path, []byte("{truncated"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	_, err := s.GetModelData(ctx, "bad")
	if !errors.Is(err, ErrStorageError) {
		t.Errorf("GetModelData() error = %v, want ErrStorageError", err)
	}
	if errors.Is(err, ErrModelNotFound) {
		t.Error("corruption must not be reported as ErrModelNotFound")
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := s.LoadModel(ctx, "bad"); !errors.Is(err, ErrStorageError) {
		t.Errorf("LoadModel() with missing artifact error = %v, want ErrStorageError", err)
	}
}

func TestOrphanArtifactIsInvisible(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	// Simulate a crash between artifact write and index commit.
	orphan := filepath.Join(s.Root(), modelsDir, "orphan")
	if err := os.MkdirAll(orphan, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(orphan, artifactFile), []byte(`{"type":"timeseries","name":"orphan"}`), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if ok, _ := s.ModelExists(ctx, "orphan"); ok {
		t.Error("orphan artifact must not be reported as existing")
	}
	if names, _ := s.ListModels(ctx); len(names) != 0 {
		t.Errorf("ListModels() = %v, want empty", names)
	}

	// A later create of that name takes over the directory.
	if err := s.CreateModel(ctx, mustTimeSeries(t, testSettings("orphan"))); err != nil {
		t.Fatalf("CreateModel() over orphan error = %v", err)
	}
	if _, err := s.LoadModel(ctx, "orphan"); err != nil {
		t.Errorf("LoadModel() error = %v", err)
	}
}

func TestConcurrentCreateSameName(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	const writers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		exists    int
	)

	for i := 0; i < writers; i++ {
		// Separate instances share only the root directory.
		s, err := NewStorage(Config{DataDir: root})
		if err != nil {
			t.Fatalf("NewStorage() error = %v", err)
		}
		settings := testSettings("contended")
		settings.Offset = float64(i)

		wg.Add(1)
		go func(s Storage, m Model) {
			defer wg.Done()
			err := s.CreateModel(ctx, m)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrModelExists):
				exists++
			default:
				t.Errorf("CreateModel() unexpected error = %v", err)
			}
		}(s, mustTimeSeries(t, settings))
	}
	wg.Wait()

	if succeeded != 1 {
		t.Errorf("%d creates succeeded, want exactly 1", succeeded)
	}
	if exists != writers-1 {
		t.Errorf("%d creates saw ErrModelExists, want %d", exists, writers-1)
	}
}

func TestCanceledContext(t *testing.T) {
	s := newTestStorage(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.CreateModel(ctx, mustTimeSeries(t, testSettings("late"))); !errors.Is(err, context.Canceled) {
		t.Errorf("CreateModel() error = %v, want context.Canceled", err)
	}
	if _, err := s.ListModels(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("ListModels() error = %v, want context.Canceled", err)
	}
	if ok, _ := s.ModelExists(context.Background(), "late"); ok {
		t.Error("canceled create must not persist the model")
	}
}

func TestCreateModelInvalidName(t *testing.T) {
	s := newTestStorage(t)

	err := s.CreateModel(context.Background(), stubModel{name: "../escape"})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("CreateModel() error = %v, want ErrValidation", err)
	}
}

// failingStorage wraps a real storage and fails selected operations.
type failingStorage struct {
	storageInterface
	failIndexWrite bool
	failLoad       bool
	removed        []string

	// beforeRead, if set, runs before each artifact read.
	beforeRead func(name string)
}

func (f *failingStorage) readArtifact(name string) ([]byte, error) {
	if f.beforeRead != nil {
		f.beforeRead(name)
	}
	return f.storageInterface.readArtifact(name)
}

func (f *failingStorage) loadIndex() (*modelIndex, error) {
	if f.failLoad {
		return nil, errors.Join(ErrStorageError, errors.New("permission denied"))
	}
	return f.storageInterface.loadIndex()
}

func (f *failingStorage) mutateIndex(m indexMutation) error {
	if !f.failIndexWrite {
		return f.storageInterface.mutateIndex(m)
	}
	if err := m.apply(&modelIndex{}); err != nil {
		return err
	}
	if m.abort != nil {
		m.abort()
	}
	return errors.Join(ErrStorageError, errors.New("disk full"))
}

func (f *failingStorage) removeArtifact(name string) error {
	f.removed = append(f.removed, name)
	return f.storageInterface.removeArtifact(name)
}

func TestStorageIOFailures(t *testing.T) {
	ctx := context.Background()
	disk, err := newStorage(t.TempDir(), DefaultLockTimeout)
	if err != nil {
		t.Fatalf("newStorage() error = %v", err)
	}
	fake := &failingStorage{storageInterface: disk}
	s := &fileStorage{root: disk.baseDir, registry: DefaultRegistry(), storage: fake}

	t.Run("index write failure removes artifact", func(t *testing.T) {
		fake.failIndexWrite = true
		defer func() { fake.failIndexWrite = false }()

		err := s.CreateModel(ctx, mustTimeSeries(t, testSettings("doomed")))
		if !errors.Is(err, ErrStorageError) {
			t.Fatalf("CreateModel() error = %v, want ErrStorageError", err)
		}
		if len(fake.removed) != 1 || fake.removed[0] != "doomed" {
			t.Errorf("removed = %v, want [doomed]", fake.removed)
		}
		if _, err := os.Stat(disk.modelPath("doomed")); !os.IsNotExist(err) {
			t.Error("orphan artifact should be removed")
		}
	})

	t.Run("read failure is not not-found", func(t *testing.T) {
		fake.failLoad = true
		defer func() { fake.failLoad = false }()

		_, err := s.GetModelData(ctx, "anything")
		if !errors.Is(err, ErrStorageError) {
			t.Errorf("GetModelData() error = %v, want ErrStorageError", err)
		}
		if errors.Is(err, ErrModelNotFound) {
			t.Error("I/O failure must not be masked as ErrModelNotFound")
		}
		if _, err := s.ModelExists(ctx, "anything"); !errors.Is(err, ErrStorageError) {
			t.Errorf("ModelExists() error = %v, want ErrStorageError", err)
		}
	})

	t.Run("delete between index and artifact read", func(t *testing.T) {
		if err := s.CreateModel(ctx, mustTimeSeries(t, testSettings("raced"))); err != nil {
			t.Fatalf("CreateModel() error = %v", err)
		}
		other := &fileStorage{root: disk.baseDir, registry: DefaultRegistry(), storage: disk}
		fake.beforeRead = func(name string) {
			if err := other.DeleteModel(ctx, name); err != nil {
				t.Errorf("DeleteModel() error = %v", err)
			}
		}
		defer func() { fake.beforeRead = nil }()

		_, err := s.GetModelData(ctx, "raced")
		if !errors.Is(err, ErrModelNotFound) {
			t.Errorf("GetModelData() error = %v, want ErrModelNotFound", err)
		}
	})

	t.Run("missing artifact of indexed model", func(t *testing.T) {
		if err := s.CreateModel(ctx, mustTimeSeries(t, testSettings("lost"))); err != nil {
			t.Fatalf("CreateModel() error = %v", err)
		}
		if err := os.RemoveAll(disk.modelPath("lost")); err != nil {
			t.Fatalf("RemoveAll() error = %v", err)
		}

		_, err := s.GetModelData(ctx, "lost")
		if !errors.Is(err, ErrStorageError) || errors.Is(err, ErrModelNotFound) {
			t.Errorf("GetModelData() error = %v, want ErrStorageError only", err)
		}
	})
}

func TestStatePreservedVerbatim(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	state := json.RawMessage("{\"w\": [1, 2],\n  \"tag\": \"<a&b>\"}\n")
	if err := s.CreateModel(ctx, mustTimeSeries(t, testSettings("verbatim")).WithState(state)); err != nil {
		t.Fatalf("CreateModel() error = %v", err)
	}

	data, err := s.GetModelData(ctx, "verbatim")
	if err != nil {
		t.Fatalf("GetModelData() error = %v", err)
	}
	if string(data.State) != string(state) {
		t.Errorf("GetModelData().State = %q, want %q", data.State, state)
	}

	m, err := s.LoadModel(ctx, "verbatim")
	if err != nil {
		t.Fatalf("LoadModel() error = %v", err)
	}
	if string(m.State()) != string(state) {
		t.Errorf("LoadModel().State() = %q, want %q", m.State(), state)
	}
}

func TestStaleStateIsDropped(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	// Leftover from an interrupted create of the same name.
	orphan := filepath.Join(s.Root(), modelsDir, "fresh")
	if err := os.MkdirAll(orphan, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(orphan, stateFile), []byte(`{"old":true}`), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if err := s.CreateModel(ctx, mustTimeSeries(t, testSettings("fresh"))); err != nil {
		t.Fatalf("CreateModel() error = %v", err)
	}
	data, err := s.GetModelData(ctx, "fresh")
	if err != nil {
		t.Fatalf("GetModelData() error = %v", err)
	}
	if data.State != nil {
		t.Errorf("State = %s, want none", data.State)
	}
}

// brokenModel is a Model whose record cannot be produced or disagrees with itself.
type brokenModel struct {
	serializeErr error
	recordType   string
}

func (m brokenModel) Type() string           { return "stub" }
func (m brokenModel) Name() string           { return "broken" }
func (m brokenModel) State() json.RawMessage { return nil }
func (m brokenModel) Serialize() (ModelData, error) {
	if m.serializeErr != nil {
		return ModelData{}, m.serializeErr
	}
	return ModelData{Type: m.recordType, Name: "broken", Settings: json.RawMessage(`{}`)}, nil
}

func TestCreateModelRejectsBadRecords(t *testing.T) {
	tests := []struct {
		name  string
		model Model
	}{
		{"serialize failure", brokenModel{serializeErr: errors.New("json: unsupported value: NaN")}},
		{"type mismatch", brokenModel{recordType: TimeSeriesType}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s := newTestStorage(t)

			err := s.CreateModel(ctx, tt.model)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("CreateModel() error = %v, want ErrValidation", err)
			}
			if exists, _ := s.ModelExists(ctx, "broken"); exists {
				t.Error("rejected model must not be persisted")
			}
		})
	}
}

// recordingLogger captures log calls for assertions.
type recordingLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (l *recordingLogger) record(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, msg)
}

func (l *recordingLogger) Debug(msg string, _ ...any) { l.record(msg) }
func (l *recordingLogger) Info(msg string, _ ...any)  { l.record(msg) }
func (l *recordingLogger) Warn(msg string, _ ...any)  { l.record(msg) }
func (l *recordingLogger) Error(msg string, _ ...any) { l.record(msg) }

func TestStorageLogging(t *testing.T) {
	ctx := context.Background()
	logger := &recordingLogger{}
	s := newTestStorage(t, WithLogger(logger))

	if err := s.CreateModel(ctx, mustTimeSeries(t, testSettings("logged"))); err != nil {
		t.Fatalf("CreateModel() error = %v", err)
	}
	if err := s.DeleteModel(ctx, "logged"); err != nil {
		t.Fatalf("DeleteModel() error = %v", err)
	}

	want := []string{"model storage opened", "model created", "model deleted"}
	if !reflect.DeepEqual(logger.msgs, want) {
		t.Errorf("logged %v, want %v", logger.msgs, want)
	}
}
