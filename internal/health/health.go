// Package health checks that a twirer setup can run a week: the newsletter
// checkout and its draft, the GitHub token, the launched programs and the
// record store. The report backs the 'twirer doctor' command.
package health

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/twirer/twirer/internal/draft"
	"github.com/twirer/twirer/internal/git"
	"github.com/twirer/twirer/internal/search"
	"github.com/twirer/twirer/internal/store"
	"github.com/twirer/twirer/internal/week"
)

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

func (r *HealthReport) add(c CheckResult) {
	r.Checks = append(r.Checks, c)
	if !c.Passed {
		r.Passed = false
	}
}

// Inputs are the configured locations and programs to check.
type Inputs struct {
	TwirDir string
	Editor  []string
	Browser []string
	Store   store.Store
}

// RunHealthChecks runs all health checks and returns a report.
func RunHealthChecks(ctx context.Context, in Inputs) *HealthReport {
	report := &HealthReport{Passed: true}
	report.add(CheckCheckout(in.TwirDir))
	report.add(CheckDraft(in.TwirDir))
	report.add(CheckToken())
	report.add(CheckProgram("Editor", in.Editor))
	report.add(CheckProgram("Browser", in.Browser))
	report.add(CheckWeek(ctx, in.Store))
	return report
}

// CheckCheckout verifies that twirDir is a git repository.
func CheckCheckout(twirDir string) CheckResult {
	repo, err := git.Open(twirDir)
	if err != nil {
		return CheckResult{Name: "Newsletter checkout", Message: fmt.Sprintf("%s is not a git repository", twirDir)}
	}
	branch, err := repo.CurrentBranch()
	if err != nil {
		return CheckResult{Name: "Newsletter checkout", Passed: true, Message: repo.Root() + " (no commits yet)"}
	}
	if branch == "" {
		return CheckResult{Name: "Newsletter checkout", Passed: true, Message: repo.Root() + " (detached HEAD)"}
	}
	return CheckResult{Name: "Newsletter checkout", Passed: true, Message: fmt.Sprintf("%s on %s", repo.Root(), branch)}
}

// CheckDraft verifies that the checkout holds a draft with an issue number.
func CheckDraft(twirDir string) CheckResult {
	path, err := draft.Find(twirDir)
	if err != nil {
		return CheckResult{Name: "Draft", Message: err.Error()}
	}
	contents, err := draft.Read(path)
	if err != nil {
		return CheckResult{Name: "Draft", Message: err.Error()}
	}
	number, err := draft.Number(contents)
	if err != nil {
		return CheckResult{Name: "Draft", Message: fmt.Sprintf("%s: %v", path, err)}
	}

	state := "already filled in"
	if draft.Ready(contents) {
		state = "ready to fill in"
	}
	return CheckResult{Name: "Draft", Passed: true, Message: fmt.Sprintf("issue %s, %s", number, state)}
}

// CheckToken verifies that a GitHub token is available without prompting.
func CheckToken() CheckResult {
	if strings.TrimSpace(os.Getenv(search.TokenEnv)) == "" {
		return CheckResult{Name: "GitHub token", Message: search.TokenEnv + " is not set (you will be prompted)"}
	}
	return CheckResult{Name: "GitHub token", Passed: true, Message: "found in " + search.TokenEnv}
}

// CheckProgram verifies that a configured command is on the PATH.
func CheckProgram(name string, argv []string) CheckResult {
	if len(argv) == 0 {
		return CheckResult{Name: name, Message: "not configured"}
	}
	path, err := exec.LookPath(argv[0])
	if err != nil {
		return CheckResult{Name: name, Message: fmt.Sprintf("%s not found in PATH", argv[0])}
	}
	return CheckResult{Name: name, Passed: true, Message: path}
}

// CheckWeek verifies that the record store holds a valid week window.
func CheckWeek(ctx context.Context, st store.Store) CheckResult {
	if st == nil {
		return CheckResult{Name: "Week window", Message: "record store unavailable"}
	}
	spec, err := store.LoadText(ctx, st, store.WeekSpec)
	if errors.Is(err, store.ErrNotFound) {
		return CheckResult{Name: "Week window", Message: "not set (run 'twirer week --set 2024-01-02..2024-01-09')"}
	}
	if err != nil {
		return CheckResult{Name: "Week window", Message: err.Error()}
	}
	w, err := week.Parse(spec)
	if err != nil {
		return CheckResult{Name: "Week window", Message: err.Error()}
	}
	return CheckResult{Name: "Week window", Passed: true, Message: w.String()}
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport) string {
	var output strings.Builder
	for _, check := range report.Checks {
		mark := "✓"
		if !check.Passed {
			mark = "✗"
		}
		fmt.Fprintf(&output, "%s %s: %s\n", mark, check.Name, check.Message)
	}
	return output.String()
}
