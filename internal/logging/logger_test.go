package logging

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func resetLogging(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		CloseAll()
		setMu.Lock()
		settings = Settings{}
		logsDir = ""
		setMu.Unlock()
		logLevel.Store(LevelInfo)
	})
}

func TestInitializeRequiresWorkspace(t *testing.T) {
	resetLogging(t)
	if err := Initialize("", Settings{DebugMode: true}); err == nil {
		t.Fatal("Initialize with empty workspace succeeded, want error")
	}
}

func TestDisabledModeWritesNothing(t *testing.T) {
	resetLogging(t)
	dir := t.TempDir()

	if err := Initialize(dir, Settings{DebugMode: false}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	Pipeline("this should go nowhere")
	if _, err := os.Stat(filepath.Join(dir, ".postforge", "logs")); !os.IsNotExist(err) {
		t.Error("logs directory exists despite debug mode off")
	}
}

func TestDebugModeWritesCategoryFiles(t *testing.T) {
	resetLogging(t)
	dir := t.TempDir()

	if err := Initialize(dir, Settings{DebugMode: true, Level: "debug"}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	Ideas("generated %d ideas", 5)
	CloseAll()

	entries, err := os.ReadDir(filepath.Join(dir, ".postforge", "logs"))
	if err != nil {
		t.Fatalf("reading logs dir: %v", err)
	}

	var found bool
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), "_ideas.log") {
			found = true
			data, err := os.ReadFile(filepath.Join(dir, ".postforge", "logs", e.Name()))
			if err != nil {
				t.Fatalf("reading log file: %v", err)
			}
			if !strings.Contains(string(data), "generated 5 ideas") {
				t.Errorf("log file missing message: %s", data)
			}
		}
	}
	if !found {
		t.Error("no ideas category log file written")
	}
}

func TestScheduleWritesCategoryFile(t *testing.T) {
	resetLogging(t)
	dir := t.TempDir()

	if err := Initialize(dir, Settings{DebugMode: true}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	Schedule("distributed %d ideas over 3 days", 9)
	CloseAll()

	entries, err := os.ReadDir(filepath.Join(dir, ".postforge", "logs"))
	if err != nil {
		t.Fatalf("reading logs dir: %v", err)
	}

	var found bool
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), "_schedule.log") {
			found = true
			data, err := os.ReadFile(filepath.Join(dir, ".postforge", "logs", e.Name()))
			if err != nil {
				t.Fatalf("reading log file: %v", err)
			}
			if !strings.Contains(string(data), "distributed 9 ideas") {
				t.Errorf("log file missing message: %s", data)
			}
		}
	}
	if !found {
		t.Error("no schedule category log file written")
	}
}

func TestConcurrentInitializeAndLog(t *testing.T) {
	resetLogging(t)
	dir := t.TempDir()

	if err := Initialize(dir, Settings{DebugMode: true, Level: "info"}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				Pipeline("worker %d message %d", n, j)
			}
		}(i)
	}
	// Reinitializing while workers log must not race on the level.
	for i := 0; i < 5; i++ {
		if err := Initialize(dir, Settings{DebugMode: true, Level: "warn"}); err != nil {
			t.Fatalf("Initialize: %v", err)
		}
	}
	wg.Wait()
}

func TestCategoryToggle(t *testing.T) {
	resetLogging(t)
	dir := t.TempDir()

	err := Initialize(dir, Settings{
		DebugMode:  true,
		Categories: map[string]bool{"providers": false},
	})
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	if IsCategoryEnabled(CategoryProviders) {
		t.Error("providers category enabled despite explicit false")
	}
	if !IsCategoryEnabled(CategoryPipeline) {
		t.Error("unlisted category disabled, want enabled by default")
	}
}

func TestLevelFiltering(t *testing.T) {
	resetLogging(t)
	dir := t.TempDir()

	if err := Initialize(dir, Settings{DebugMode: true, Level: "warn"}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	l := Get(CategoryPipeline)
	l.Info("info suppressed")
	l.Warn("warn kept")
	CloseAll()

	entries, _ := os.ReadDir(filepath.Join(dir, ".postforge", "logs"))
	for _, e := range entries {
		data, _ := os.ReadFile(filepath.Join(dir, ".postforge", "logs", e.Name()))
		if strings.Contains(string(data), "info suppressed") {
			t.Error("info message written at warn level")
		}
		if strings.HasSuffix(e.Name(), "_pipeline.log") && !strings.Contains(string(data), "warn kept") {
			t.Error("warn message missing at warn level")
		}
	}
}
