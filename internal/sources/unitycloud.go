package sources

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/futurice/buildlight"
)

// Rate-limit response headers published by the Unity Cloud Build API.
// The reset timestamp is a millisecond unix epoch.
const (
	headerRateLimitRemaining = "X-RateLimit-Remaining"
	headerRateLimitReset     = "X-RateLimit-Reset"
)

// defaultBuildTargets are the platform targets polled when none are
// configured.
var defaultBuildTargets = []string{"ios-development", "android-development"}

// UnityCloud polls the Unity Cloud Build API for the latest build of each
// configured platform target. Each target contributes one record; the API
// is rate limited, so the response headers are surfaced as a hint for
// adaptive interval control.
type UnityCloud struct {
	baseURL string
	auth    basicAuth
	targets []string
	client  *httpClient
	logger  *slog.Logger
}

// NewUnityCloud creates a Unity Cloud Build source.
//
// baseURL is the project API root (the .../orgs/{org}/projects/{project}
// prefix). The API token is sent as the basic-auth username. An empty
// targets slice polls the default ios/android development targets.
func NewUnityCloud(baseURL, apiToken string, targets []string, logger *slog.Logger) *UnityCloud {
	if len(targets) == 0 {
		targets = defaultBuildTargets
	}
	return &UnityCloud{
		baseURL: baseURL,
		auth:    basicAuth{username: apiToken},
		targets: targets,
		client:  newHTTPClient(),
		logger:  logger,
	}
}

type unityBuild struct {
	BuildStatus string `json:"buildStatus"`
}

// Fetch returns one record per platform target, plus the rate-limit hint
// from the most recent successful response.
//
// A target whose builds cannot be fetched, or that has no builds at all,
// contributes an unretrieved record; the fetch as a whole only fails if
// the context is cancelled before any target is polled.
func (u *UnityCloud) Fetch(ctx context.Context) ([]buildlight.BuildRecord, *buildlight.RateLimitHint, error) {
	records := make([]buildlight.BuildRecord, 0, len(u.targets))
	var hint *buildlight.RateLimitHint

	for _, target := range u.targets {
		if ctx.Err() != nil {
			return records, hint, ctx.Err()
		}

		url := fmt.Sprintf("%s/buildtargets/%s/builds?per_page=1", u.baseURL, target)
		var builds []unityBuild
		header, err := u.client.getJSON(ctx, url, u.auth, &builds)
		if h := parseRateLimit(header); h != nil {
			hint = h
		}
		if err != nil {
			u.logger.Warn("unity build fetch failed",
				"target", target,
				"error", err,
			)
			records = append(records, buildlight.BuildRecord{Status: buildlight.StatusUnknown})
			continue
		}
		if len(builds) == 0 {
			u.logger.Warn("unity returned no builds", "target", target)
			records = append(records, buildlight.BuildRecord{Status: buildlight.StatusUnknown})
			continue
		}

		records = append(records, buildlight.BuildRecord{
			Status:    unityStatus(builds[0].BuildStatus),
			Retrieved: true,
		})
	}

	return records, hint, nil
}

// unityStatus maps a Unity Cloud build status to the normalized
// vocabulary.
func unityStatus(status string) buildlight.BuildStatus {
	switch status {
	case "success":
		return buildlight.StatusSuccess
	case "failure", "failed":
		return buildlight.StatusFailure
	case "queued", "sentToBuilder", "started", "restarted":
		return buildlight.StatusBuilding
	default:
		// canceled, unknown, or a value added after this mapping
		return buildlight.StatusUnknown
	}
}

// parseRateLimit extracts a rate-limit hint from response headers.
// Returns nil when either header is missing or malformed.
func parseRateLimit(header http.Header) *buildlight.RateLimitHint {
	if header == nil {
		return nil
	}

	remainingRaw := header.Get(headerRateLimitRemaining)
	resetRaw := header.Get(headerRateLimitReset)
	if remainingRaw == "" || resetRaw == "" {
		return nil
	}

	remaining, err := strconv.ParseUint(remainingRaw, 10, 32)
	if err != nil {
		return nil
	}
	resetMs, err := strconv.ParseInt(resetRaw, 10, 64)
	if err != nil {
		return nil
	}

	return &buildlight.RateLimitHint{
		Remaining: uint(remaining),
		ResetAt:   time.UnixMilli(resetMs),
	}
}
