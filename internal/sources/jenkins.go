package sources

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/futurice/buildlight"
)

// Jenkins polls a Jenkins controller: the job list first, then each
// enabled job's last build. Every enabled job contributes one record;
// a job whose build cannot be fetched contributes an unretrieved record.
type Jenkins struct {
	baseURL string
	auth    basicAuth
	client  *httpClient
	logger  *slog.Logger
}

// NewJenkins creates a Jenkins source for the given controller.
func NewJenkins(baseURL, username, password string, logger *slog.Logger) *Jenkins {
	return &Jenkins{
		baseURL: baseURL,
		auth:    basicAuth{username: username, password: password},
		client:  newHTTPClient(),
		logger:  logger,
	}
}

type jenkinsJobList struct {
	Jobs []jenkinsJob `json:"jobs"`
}

type jenkinsJob struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type jenkinsBuild struct {
	Building bool   `json:"building"`
	Result   string `json:"result"`
}

// Fetch returns one record per enabled job on the controller.
//
// A failure to list jobs is a provider-level error; a failure to fetch a
// single job's last build is absorbed as an unretrieved record. Jenkins
// publishes no rate-limit headers, so the hint is always nil.
func (j *Jenkins) Fetch(ctx context.Context) ([]buildlight.BuildRecord, *buildlight.RateLimitHint, error) {
	var list jenkinsJobList
	if _, err := j.client.getJSON(ctx, j.baseURL+"/api/json", j.auth, &list); err != nil {
		return nil, nil, fmt.Errorf("jenkins job list: %w", err)
	}

	records := make([]buildlight.BuildRecord, 0, len(list.Jobs))
	for _, job := range list.Jobs {
		if job.Color == "disabled" || job.Color == "disabled_anime" {
			continue
		}

		buildURL := fmt.Sprintf("%s/job/%s/lastBuild/api/json", j.baseURL, url.PathEscape(job.Name))
		var build jenkinsBuild
		if _, err := j.client.getJSON(ctx, buildURL, j.auth, &build); err != nil {
			j.logger.Warn("jenkins job fetch failed",
				"job", job.Name,
				"error", err,
			)
			records = append(records, buildlight.BuildRecord{Status: buildlight.StatusUnknown})
			continue
		}

		records = append(records, buildlight.BuildRecord{
			Status:    jenkinsStatus(build),
			Retrieved: true,
		})
	}

	return records, nil, nil
}

// jenkinsStatus maps a Jenkins build to the normalized vocabulary.
func jenkinsStatus(b jenkinsBuild) buildlight.BuildStatus {
	if b.Building {
		return buildlight.StatusBuilding
	}
	switch b.Result {
	case "SUCCESS":
		return buildlight.StatusSuccess
	case "FAILURE":
		return buildlight.StatusFailure
	case "UNSTABLE":
		return buildlight.StatusUnstable
	default:
		// ABORTED, NOT_BUILT, or a null result on a just-finished build
		return buildlight.StatusUnknown
	}
}
