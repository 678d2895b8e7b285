package main

import (
	"encoding/json"
	"log/slog"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"
)

// mockJob tracks one Jenkins job's result and next flip time.
type mockJob struct {
	resultIdx    int
	nextChangeAt time.Time
}

// StartMockJenkins runs a mock Jenkins controller with a handful of jobs
// whose results flip every 20-60 seconds.
// Call this in a goroutine before creating buildlight providers.
func StartMockJenkins(addr string) {
	var (
		jobs = []string{"api-build", "web-build", "nightly-e2e"}
		mu   sync.Mutex
		st   = make(map[string]*mockJob)
	)
	results := []string{"SUCCESS", "FAILURE", "UNSTABLE"}

	mux := http.NewServeMux()

	mux.HandleFunc("/api/json", func(w http.ResponseWriter, r *http.Request) {
		type job struct {
			Name  string `json:"name"`
			Color string `json:"color"`
		}
		list := struct {
			Jobs []job `json:"jobs"`
		}{}
		for _, name := range jobs {
			list.Jobs = append(list.Jobs, job{Name: name, Color: "blue"})
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(list); err != nil {
			slog.Error("failed to write job list", "error", err)
		}
	})

	mux.HandleFunc("/job/", func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(r.URL.Path, "/")
		if len(parts) < 3 {
			http.NotFound(w, r)
			return
		}
		name := parts[2]

		// simulate small latency variance
		time.Sleep(time.Duration(50+rand.Intn(150)) * time.Millisecond)

		mu.Lock()
		state, exists := st[name]
		if !exists {
			// first flip in 20-60 seconds
			state = &mockJob{
				resultIdx:    rand.Intn(len(results)),
				nextChangeAt: time.Now().Add(time.Duration(20+rand.Intn(41)) * time.Second),
			}
			st[name] = state
		}

		// flip the result when the scheduled time is reached
		if time.Now().After(state.nextChangeAt) {
			oldResult := results[state.resultIdx]
			state.resultIdx = (state.resultIdx + 1) % len(results)
			state.nextChangeAt = time.Now().Add(time.Duration(20+rand.Intn(41)) * time.Second)
			slog.Info("build result change", "job", name, "from", oldResult, "to", results[state.resultIdx])
		}
		result := results[state.resultIdx]
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{
			"building": false,
			"result":   result,
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			slog.Error("failed to write response", "error", err)
		}
	})

	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("mock server error", "error", err)
	}
}
