package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/healthsignal/symptom-ai-platform/pkg/logging"
)

func testLogger() *logging.Logger {
	return logging.New("error")
}

func TestLoadByPriorityLoadsWholeCatalog(t *testing.T) {
	var order []string
	m := NewManager(testLogger(), WithLoader(func(ctx context.Context, cfg ModelConfig) (any, error) {
		order = append(order, cfg.Name)
		return cfg.ModelID, nil
	}))

	loaded := m.LoadByPriority(context.Background(), 0)
	if len(loaded) != len(DefaultCatalog()) {
		t.Fatalf("loaded %d models, want %d", len(loaded), len(DefaultCatalog()))
	}
	if order[0] != ModelBiomedicalNER {
		t.Errorf("expected highest priority model first, got %s", order[0])
	}
	if order[len(order)-1] != ModelSummarizer {
		t.Errorf("expected lowest priority model last, got %s", order[len(order)-1])
	}
	if !m.IsLoaded(ModelZeroShot) {
		t.Error("zero-shot model should be loaded")
	}
}

func TestLoadByPriorityRespectsBudget(t *testing.T) {
	m := NewManager(testLogger(), WithMemoryBudgetMB(1000))

	loaded := m.LoadByPriority(context.Background(), 0)
	// 500 + 400 fit under 1000; everything after would exceed it.
	want := []string{ModelBiomedicalNER, ModelClinicalBERT}
	if len(loaded) != len(want) {
		t.Fatalf("loaded = %v, want %v", loaded, want)
	}
	for i := range want {
		if loaded[i] != want[i] {
			t.Fatalf("loaded = %v, want %v", loaded, want)
		}
	}
	if m.Status().System.CurrentMemoryUsageMB != 900 {
		t.Fatalf("usage = %d, want 900", m.Status().System.CurrentMemoryUsageMB)
	}
}

func TestLoadByPriorityMaxModels(t *testing.T) {
	m := NewManager(testLogger())
	loaded := m.LoadByPriority(context.Background(), 3)
	if len(loaded) != 3 {
		t.Fatalf("loaded %d models, want 3", len(loaded))
	}
}

func TestLoadIsIdempotent(t *testing.T) {
	calls := 0
	m := NewManager(testLogger(), WithLoader(func(ctx context.Context, cfg ModelConfig) (any, error) {
		calls++
		return cfg.ModelID, nil
	}))

	if err := m.Load(context.Background(), ModelBiomedicalNER); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if err := m.Load(context.Background(), ModelBiomedicalNER); err != nil {
		t.Fatalf("Load() error on reload: %v", err)
	}
	if calls != 1 {
		t.Fatalf("loader called %d times, want 1", calls)
	}
}

func TestLoadUnknownModel(t *testing.T) {
	m := NewManager(testLogger())
	if err := m.Load(context.Background(), "nope"); err == nil {
		t.Fatal("expected error for unknown model")
	}
}

func TestLoaderFailureDoesNotCount(t *testing.T) {
	m := NewManager(testLogger(), WithLoader(func(ctx context.Context, cfg ModelConfig) (any, error) {
		return nil, errors.New("warm-up failed")
	}))

	if err := m.Load(context.Background(), ModelBiomedicalNER); err == nil {
		t.Fatal("expected load error")
	}
	if m.IsLoaded(ModelBiomedicalNER) {
		t.Error("failed model must not be marked loaded")
	}
	if m.Status().System.CurrentMemoryUsageMB != 0 {
		t.Error("failed load must not consume budget")
	}
}

func TestUnloadReclaimsMemory(t *testing.T) {
	m := NewManager(testLogger())
	if err := m.Load(context.Background(), ModelBiomedicalNER); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	m.Unload(ModelBiomedicalNER)
	if m.IsLoaded(ModelBiomedicalNER) {
		t.Fatal("model still loaded after Unload")
	}
	if got := m.Status().System.CurrentMemoryUsageMB; got != 0 {
		t.Fatalf("usage = %d after unload, want 0", got)
	}
	if _, ok := m.Get(ModelBiomedicalNER); ok {
		t.Fatal("handle still retrievable after unload")
	}
}

func TestOptimizeMemoryEvictsLowPriorityOnly(t *testing.T) {
	catalog := []ModelConfig{
		{Name: "core", ModelID: "a", MemoryMB: 400, Priority: 1, Enabled: true, LoadOnStartup: true},
		{Name: "nice", ModelID: "b", MemoryMB: 300, Priority: 6, Enabled: true, LoadOnStartup: true},
		{Name: "extra", ModelID: "c", MemoryMB: 200, Priority: 9, Enabled: true, LoadOnStartup: true},
	}
	m := NewManager(testLogger(), WithCatalog(catalog), WithMemoryBudgetMB(1000))
	m.LoadByPriority(context.Background(), 0)

	// 900/1000 exceeds the 80% threshold; evict lowest priority first until 60%.
	unloaded := m.OptimizeMemory()
	if len(unloaded) != 2 || unloaded[0] != "extra" || unloaded[1] != "nice" {
		t.Fatalf("unloaded = %v, want [extra nice]", unloaded)
	}
	if !m.IsLoaded("core") {
		t.Fatal("protected model was evicted")
	}
	if got := m.Status().System.CurrentMemoryUsageMB; got != 400 {
		t.Fatalf("usage = %d after optimize, want 400", got)
	}
}

func TestOptimizeMemoryNoOpUnderThreshold(t *testing.T) {
	m := NewManager(testLogger())
	m.LoadByPriority(context.Background(), 2)
	if unloaded := m.OptimizeMemory(); len(unloaded) != 0 {
		t.Fatalf("unexpected evictions: %v", unloaded)
	}
}

func TestStatusSnapshot(t *testing.T) {
	m := NewManager(testLogger())
	m.LoadByPriority(context.Background(), 1)

	st := m.Status()
	if st.System.TotalModels != len(DefaultCatalog()) {
		t.Fatalf("total models = %d", st.System.TotalModels)
	}
	if st.System.ModelsLoaded != 1 {
		t.Fatalf("models loaded = %d, want 1", st.System.ModelsLoaded)
	}
	if !st.Models[ModelBiomedicalNER].Loaded {
		t.Fatal("expected highest priority model loaded in snapshot")
	}
	if st.Models[ModelSummarizer].Loaded {
		t.Fatal("unexpected model loaded in snapshot")
	}
}
