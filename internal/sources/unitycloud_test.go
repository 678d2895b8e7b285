package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/futurice/buildlight"
)

// unityServer simulates the Unity Cloud Build API for a fixed set of
// targets, attaching rate-limit headers to every response.
func unityServer(t *testing.T, builds map[string][]unityBuild, remaining, resetMs string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if remaining != "" {
			w.Header().Set(headerRateLimitRemaining, remaining)
			w.Header().Set(headerRateLimitReset, resetMs)
		}
		for target, list := range builds {
			if strings.Contains(r.URL.Path, "/buildtargets/"+target+"/builds") {
				_ = json.NewEncoder(w).Encode(list)
				return
			}
		}
		http.NotFound(w, r)
	}))
}

func TestUnityCloud_Fetch(t *testing.T) {
	resetAt := time.Now().Add(time.Minute).UnixMilli()
	server := unityServer(t, map[string][]unityBuild{
		"ios-development":     {{BuildStatus: "success"}},
		"android-development": {{BuildStatus: "failure"}},
	}, "42", fmt.Sprintf("%d", resetAt))
	defer server.Close()

	u := NewUnityCloud(server.URL, "token", nil, testLogger())
	records, hint, err := u.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	// nil targets fall back to the ios/android defaults
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[0].Status != buildlight.StatusSuccess || !records[0].Retrieved {
		t.Errorf("records[0] = %+v, want retrieved success", records[0])
	}
	if records[1].Status != buildlight.StatusFailure || !records[1].Retrieved {
		t.Errorf("records[1] = %+v, want retrieved failure", records[1])
	}

	if hint == nil {
		t.Fatal("hint = nil, want parsed rate-limit headers")
	}
	if hint.Remaining != 42 {
		t.Errorf("hint.Remaining = %d, want 42", hint.Remaining)
	}
	if hint.ResetAt.UnixMilli() != resetAt {
		t.Errorf("hint.ResetAt = %v, want unix ms %d", hint.ResetAt, resetAt)
	}
}

func TestUnityCloud_Fetch_CustomTargets(t *testing.T) {
	server := unityServer(t, map[string][]unityBuild{
		"standalone": {{BuildStatus: "started"}},
	}, "", "")
	defer server.Close()

	u := NewUnityCloud(server.URL, "token", []string{"standalone"}, testLogger())
	records, hint, err := u.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	if records[0].Status != buildlight.StatusBuilding {
		t.Errorf("records[0].Status = %v, want building", records[0].Status)
	}
	if hint != nil {
		t.Errorf("hint = %+v, want nil without rate-limit headers", hint)
	}
}

func TestUnityCloud_Fetch_TargetFailuresBecomeUnretrieved(t *testing.T) {
	// one target works, one 404s, one has an empty build list
	server := unityServer(t, map[string][]unityBuild{
		"good":  {{BuildStatus: "success"}},
		"empty": {},
	}, "", "")
	defer server.Close()

	u := NewUnityCloud(server.URL, "token", []string{"good", "missing", "empty"}, testLogger())
	records, _, err := u.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v, want nil (per-target failures absorbed)", err)
	}

	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3", len(records))
	}
	if !records[0].Retrieved {
		t.Errorf("records[0] = %+v, want retrieved", records[0])
	}
	if records[1].Retrieved {
		t.Errorf("records[1] = %+v, want unretrieved for the 404 target", records[1])
	}
	if records[2].Retrieved {
		t.Errorf("records[2] = %+v, want unretrieved for the empty build list", records[2])
	}
}

func TestUnityCloud_Fetch_TokenAsBasicAuthUsername(t *testing.T) {
	var gotUser string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _, _ = r.BasicAuth()
		_ = json.NewEncoder(w).Encode([]unityBuild{{BuildStatus: "success"}})
	}))
	defer server.Close()

	u := NewUnityCloud(server.URL, "api-token-xyz", []string{"ios-development"}, testLogger())
	if _, _, err := u.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if gotUser != "api-token-xyz" {
		t.Errorf("basic auth username = %q, want the API token", gotUser)
	}
}

func TestUnityStatus(t *testing.T) {
	tests := []struct {
		status string
		want   buildlight.BuildStatus
	}{
		{"success", buildlight.StatusSuccess},
		{"failure", buildlight.StatusFailure},
		{"failed", buildlight.StatusFailure},
		{"queued", buildlight.StatusBuilding},
		{"sentToBuilder", buildlight.StatusBuilding},
		{"started", buildlight.StatusBuilding},
		{"restarted", buildlight.StatusBuilding},
		{"canceled", buildlight.StatusUnknown},
		{"", buildlight.StatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			if got := unityStatus(tt.status); got != tt.want {
				t.Errorf("unityStatus(%q) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestParseRateLimit(t *testing.T) {
	mkHeader := func(remaining, reset string) http.Header {
		h := http.Header{}
		if remaining != "" {
			h.Set(headerRateLimitRemaining, remaining)
		}
		if reset != "" {
			h.Set(headerRateLimitReset, reset)
		}
		return h
	}

	if parseRateLimit(nil) != nil {
		t.Error("parseRateLimit(nil) != nil")
	}
	if parseRateLimit(mkHeader("", "")) != nil {
		t.Error("parseRateLimit(no headers) != nil")
	}
	if parseRateLimit(mkHeader("10", "")) != nil {
		t.Error("parseRateLimit(missing reset) != nil")
	}
	if parseRateLimit(mkHeader("abc", "123")) != nil {
		t.Error("parseRateLimit(bad remaining) != nil")
	}
	if parseRateLimit(mkHeader("10", "abc")) != nil {
		t.Error("parseRateLimit(bad reset) != nil")
	}

	hint := parseRateLimit(mkHeader("10", "1700000000000"))
	if hint == nil {
		t.Fatal("parseRateLimit(valid) = nil")
	}
	if hint.Remaining != 10 {
		t.Errorf("Remaining = %d, want 10", hint.Remaining)
	}
	if hint.ResetAt.UnixMilli() != 1700000000000 {
		t.Errorf("ResetAt = %v, want unix ms 1700000000000", hint.ResetAt)
	}
}
