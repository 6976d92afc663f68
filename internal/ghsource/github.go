// Package ghsource fetches repository activity from the GitHub API.
package ghsource

import (
	"context"
	"fmt"
	"time"

	"github.com/google/go-github/v72/github"
	"golang.org/x/oauth2"

	"github.com/mergerisk/mergerisk/internal/contract"
	"github.com/mergerisk/mergerisk/schema"
)

// Pagination limits. Unauthenticated rate limits are tight, so both page
// size and page count are capped.
const (
	perPage  = 50
	maxPages = 10
)

// Client is the GitHub-backed change source.
type Client struct {
	gh *github.Client
}

var _ contract.ChangeSource = (*Client)(nil) // Compile-time check

// NewClient builds a GitHub client, authenticated when a token is given.
// An empty token falls back to anonymous access with lower rate limits.
func NewClient(ctx context.Context, token string) *Client {
	if token == "" {
		return &Client{gh: github.NewClient(nil)}
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &Client{gh: github.NewClient(oauth2.NewClient(ctx, ts))}
}

// FetchMergedChanges lists closed pull requests in most-recently-updated
// order and keeps those merged since the given time. For each kept pull it
// issues a detail fetch for size metrics and a file listing for paths.
func (c *Client) FetchMergedChanges(ctx context.Context, owner, repo string, since time.Time) ([]*schema.ChangeRecord, error) {
	opts := &github.PullRequestListOptions{
		State:       "closed",
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var records []*schema.ChangeRecord
	for page := 0; page < maxPages; page++ {
		pulls, resp, err := c.gh.PullRequests.List(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list pull requests: %w", err)
		}

		for _, pr := range pulls {
			// The listing is sorted by update time, which is never earlier
			// than the merge time, so everything past this point is stale.
			if pr.GetUpdatedAt().Time.Before(since) {
				return records, nil
			}
			if !IsMergedSince(pr, since) {
				continue
			}

			// The list endpoint omits size metrics; fetch the detail view.
			detail, _, err := c.gh.PullRequests.Get(ctx, owner, repo, pr.GetNumber())
			if err != nil {
				return nil, fmt.Errorf("failed to fetch pull request #%d: %w", pr.GetNumber(), err)
			}
			paths, err := c.fetchFilePaths(ctx, owner, repo, pr.GetNumber())
			if err != nil {
				return nil, fmt.Errorf("failed to list files for pull request #%d: %w", pr.GetNumber(), err)
			}
			records = append(records, ConvertPull(detail, paths))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return records, nil
}

// FetchWorkflowRuns returns the CI runs created since the given time.
func (c *Client) FetchWorkflowRuns(ctx context.Context, owner, repo string, since time.Time) ([]schema.WorkflowRun, error) {
	opts := &github.ListWorkflowRunsOptions{
		Created:     ">=" + since.Format("2006-01-02"),
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var runs []schema.WorkflowRun
	for page := 0; page < maxPages; page++ {
		result, resp, err := c.gh.Actions.ListRepositoryWorkflowRuns(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list workflow runs: %w", err)
		}
		for _, run := range result.WorkflowRuns {
			runs = append(runs, schema.WorkflowRun{
				Name:       run.GetName(),
				Branch:     run.GetHeadBranch(),
				Status:     run.GetStatus(),
				Conclusion: run.GetConclusion(),
				CreatedAt:  run.GetCreatedAt().Time,
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return runs, nil
}

// FetchDeployments returns the deployments created since the given time.
func (c *Client) FetchDeployments(ctx context.Context, owner, repo string, since time.Time) ([]schema.Deployment, error) {
	opts := &github.DeploymentsListOptions{
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var deployments []schema.Deployment
	for page := 0; page < maxPages; page++ {
		result, resp, err := c.gh.Repositories.ListDeployments(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list deployments: %w", err)
		}
		for _, d := range result {
			if d.GetCreatedAt().Time.Before(since) {
				return deployments, nil
			}
			deployments = append(deployments, schema.Deployment{
				Environment: d.GetEnvironment(),
				Ref:         d.GetRef(),
				Creator:     d.GetCreator().GetLogin(),
				CreatedAt:   d.GetCreatedAt().Time,
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return deployments, nil
}

// fetchFilePaths pages through the changed files of a pull request.
func (c *Client) fetchFilePaths(ctx context.Context, owner, repo string, number int) ([]string, error) {
	opts := &github.ListOptions{PerPage: perPage}

	var paths []string
	for page := 0; page < maxPages; page++ {
		files, resp, err := c.gh.PullRequests.ListFiles(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			paths = append(paths, f.GetFilename())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return paths, nil
}

// IsMergedSince reports whether the pull request was merged at or after the
// given time. Un-merged pulls always report false.
func IsMergedSince(pr *github.PullRequest, since time.Time) bool {
	if pr.MergedAt == nil {
		return false
	}
	return !pr.MergedAt.Time.Before(since)
}

// ConvertPull maps a detailed pull request and its file paths onto the
// domain record consumed by the pipeline.
func ConvertPull(pr *github.PullRequest, paths []string) *schema.ChangeRecord {
	labels := make([]string, 0, len(pr.Labels))
	for _, l := range pr.Labels {
		labels = append(labels, l.GetName())
	}
	return &schema.ChangeRecord{
		Number:       pr.GetNumber(),
		Title:        pr.GetTitle(),
		Author:       pr.GetUser().GetLogin(),
		Labels:       labels,
		Additions:    pr.GetAdditions(),
		Deletions:    pr.GetDeletions(),
		ChangedFiles: pr.GetChangedFiles(),
		FilePaths:    paths,
		CreatedAt:    pr.GetCreatedAt().Time,
		MergedAt:     pr.GetMergedAt().Time,
	}
}
