package sources

import (
	"context"
	"fmt"

	"github.com/futurice/buildlight"
)

// TeamCity polls a TeamCity server for its most recent build. The server
// reports exactly one aggregate status per poll, so the provider is
// normally paired with the single-status aggregator.
type TeamCity struct {
	baseURL string
	auth    basicAuth
	client  *httpClient
}

// NewTeamCity creates a TeamCity source for the given server.
func NewTeamCity(baseURL, username, password string) *TeamCity {
	return &TeamCity{
		baseURL: baseURL,
		auth:    basicAuth{username: username, password: password},
		client:  newHTTPClient(),
	}
}

type teamCityBuild struct {
	Status string `json:"status"`
}

// Fetch returns a single record for the latest build on the server.
// TeamCity publishes no rate-limit headers, so the hint is always nil.
func (t *TeamCity) Fetch(ctx context.Context) ([]buildlight.BuildRecord, *buildlight.RateLimitHint, error) {
	var build teamCityBuild
	if _, err := t.client.getJSON(ctx, t.baseURL+"/app/rest/builds/count:1", t.auth, &build); err != nil {
		return nil, nil, fmt.Errorf("teamcity latest build: %w", err)
	}

	return []buildlight.BuildRecord{{
		Status:    teamCityStatus(build.Status),
		Retrieved: true,
	}}, nil, nil
}

// teamCityStatus maps a TeamCity build status to the normalized
// vocabulary.
func teamCityStatus(status string) buildlight.BuildStatus {
	switch status {
	case "SUCCESS":
		return buildlight.StatusSuccess
	case "FAILURE":
		return buildlight.StatusFailure
	default:
		// ERROR and anything else the server may report
		return buildlight.StatusUnknown
	}
}
