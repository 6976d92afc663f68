package outwriter

import (
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/mergerisk/mergerisk/internal/contract"
	"github.com/mergerisk/mergerisk/schema"
)

// WriteActivity outputs the CI run and deployment summary.
func WriteActivity(summary *schema.ActivitySummary, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, summary)
		}, "JSON")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeActivityTables(w, summary)
		}, "table")
	}
}

// writeActivityTables renders both tables in text form.
func writeActivityTables(w io.Writer, summary *schema.ActivitySummary) error {
	if _, err := io.WriteString(w, "Workflow runs for "+summary.Repo+" since "+summary.Since.Format("2006-01-02")+"\n\n"); err != nil {
		return err
	}

	runs := tablewriter.NewWriter(w)
	runs.Header([]string{"Workflow", "Branch", "Status", "Conclusion", "Started"})
	var runData [][]string
	for _, r := range summary.Runs {
		runData = append(runData, []string{
			r.Name,
			r.Branch,
			r.Status,
			r.Conclusion,
			r.CreatedAt.Format(time.DateTime),
		})
	}
	if err := runs.Bulk(runData); err != nil {
		return err
	}
	if err := runs.Render(); err != nil {
		return err
	}

	if _, err := io.WriteString(w, "\nDeployments ("+strconv.Itoa(len(summary.Deployments))+")\n\n"); err != nil {
		return err
	}

	deploys := tablewriter.NewWriter(w)
	deploys.Header([]string{"Environment", "Ref", "Creator", "Created"})
	var deployData [][]string
	for _, d := range summary.Deployments {
		deployData = append(deployData, []string{
			d.Environment,
			d.Ref,
			d.Creator,
			d.CreatedAt.Format(time.DateTime),
		})
	}
	if err := deploys.Bulk(deployData); err != nil {
		return err
	}
	return deploys.Render()
}
