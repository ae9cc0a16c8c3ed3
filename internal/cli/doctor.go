package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/amterp/ra"
	"github.com/amterp/webslide/internal/config"
	"github.com/amterp/webslide/internal/model"
	"github.com/amterp/webslide/internal/service"
	"github.com/amterp/webslide/internal/store"
)

func registerDoctor(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("doctor")
	cmd.SetDescription("Check the stored deck and config for problems. Exit 0 if healthy, 1 if errors found.")

	ctx.DoctorFix, _ = ra.NewBool("fix").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Apply automatic fixes for issues with deterministic solutions").
		Register(cmd)

	ctx.DoctorDryRun, _ = ra.NewBool("dry-run").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Show what fixes would be applied without making changes").
		Register(cmd)

	ctx.DoctorJson, _ = ra.NewBool("json").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Output as JSON").
		Register(cmd)

	ctx.DoctorUsed, _ = parent.RegisterCmd(cmd)
}

func runDoctor(fix bool, dryRun bool, jsonOutput bool) {
	// --fix and --dry-run are mutually exclusive
	if fix && dryRun {
		Fatal(fmt.Errorf("--fix and --dry-run cannot be used together"))
	}

	paths, err := resolvePaths()
	if err != nil {
		Fatal(err)
	}

	report, err := diagnose(paths, fix)
	if err != nil {
		Fatal(err)
	}

	if jsonOutput {
		if err := writeJson(os.Stdout, report); err != nil {
			Fatal(err)
		}
	} else {
		printDoctorReport(report, fix, dryRun)
	}

	// Exit with status 1 if there are errors
	if report.HasErrors() {
		os.Exit(1)
	}
}

// diagnose checks the deck without going through NewApp, so a broken config
// or deck is reported instead of stopping the command. Storage is opened
// with default settings when the config can't be loaded.
func diagnose(paths *config.Paths, fix bool) (*service.DiagnosticReport, error) {
	configStore := store.NewConfigStore(paths.ConfigPath())
	cfg, err := configStore.Load()
	if err != nil {
		cfg = model.DefaultConfig()
	}

	storage, closeStorage, err := store.Open(cfg.Storage, paths)
	if err != nil {
		return nil, err
	}
	defer closeStorage()

	doctorService := service.NewDoctorService(configStore, storage, cfg.Storage.Key, cfg.Storage.Backend)

	report, err := doctorService.Diagnose()
	if err != nil {
		return nil, err
	}

	// Apply fixes if requested (not in dry-run mode)
	if fix && len(report.Issues) > 0 {
		report, err = doctorService.Fix(report)
		if err != nil {
			return nil, err
		}
	}
	return report, nil
}

func printDoctorReport(report *service.DiagnosticReport, didFix bool, dryRun bool) {
	d := report.Deck
	fmt.Printf("Checking deck %s (%s storage)...\n", RenderBold(fmt.Sprintf("%q", d.Key)), d.Backend)
	if d.Stored {
		fmt.Printf("  Format: %s\n", d.Format)
		fmt.Printf("  Slides: %d (%d bytes)\n", d.Slides, d.Bytes)
	} else {
		fmt.Printf("  %s\n", RenderMuted("Nothing saved yet"))
	}
	fmt.Println()

	fixedCount := 0
	if didFix {
		fixedCount = report.Summary.Fixed
	}

	if fixedCount > 0 {
		PrintSuccess("Fixed %d issue(s)", fixedCount)
		fmt.Println()
	}

	if dryRun {
		if n := countFixable(report.Issues); n > 0 {
			PrintInfo("Dry run: %d issue(s) would be fixed", n)
			fmt.Println()
		}
	}

	if len(report.Issues) == 0 {
		if fixedCount == 0 {
			PrintSuccess("No issues found")
		} else {
			PrintSuccess("All issues resolved")
		}
		return
	}

	// Errors first, then warnings
	for _, issue := range report.Issues {
		if issue.Severity == service.SeverityError {
			printIssue(issue)
		}
	}
	for _, issue := range report.Issues {
		if issue.Severity != service.SeverityError {
			printIssue(issue)
		}
	}

	fmt.Println()
	fmt.Printf("Summary: %s\n", strings.Join(summaryParts(report.Summary, fixedCount), ", "))

	if !didFix && countFixable(report.Issues) > 0 {
		fmt.Println()
		if dryRun {
			PrintInfo("Run 'webslide doctor --fix' to apply these fixes")
		} else {
			PrintInfo("Run 'webslide doctor --fix' to apply automatic fixes")
		}
	}
}

func summaryParts(summary service.ReportSummary, fixedCount int) []string {
	parts := []string{}
	if summary.Errors > 0 {
		parts = append(parts, StyleError.Render(fmt.Sprintf("%d error(s)", summary.Errors)))
	}
	if summary.Warnings > 0 {
		parts = append(parts, StyleWarning.Render(fmt.Sprintf("%d warning(s)", summary.Warnings)))
	}
	if fixedCount > 0 {
		parts = append(parts, StyleSuccess.Render(fmt.Sprintf("%d fixed", fixedCount)))
	}
	if summary.FixFailed > 0 {
		parts = append(parts, StyleError.Render(fmt.Sprintf("%d fix failed", summary.FixFailed)))
	}
	return parts
}

func countFixable(issues []service.Issue) int {
	n := 0
	for _, issue := range issues {
		if issue.Fixable {
			n++
		}
	}
	return n
}

func printIssue(issue service.Issue) {
	var icon, code string
	if issue.Severity == service.SeverityError {
		icon = StyleError.Render(IconError)
		code = StyleError.Render(fmt.Sprintf("[%s]", issue.Code))
	} else {
		icon = StyleWarning.Render(IconWarning)
		code = StyleWarning.Render(fmt.Sprintf("[%s]", issue.Code))
	}

	location := ""
	if issue.Key != "" {
		location = fmt.Sprintf(" %s", RenderMuted(issue.Key))
		if issue.SlideID != "" {
			location += fmt.Sprintf("/%s", RenderID(issue.SlideID))
		}
	}

	fmt.Printf("%s %s%s %s\n", icon, code, location, issue.Message)

	if issue.FixError != "" {
		fmt.Printf("  %s Fix failed: %s\n", StyleError.Render("→"), issue.FixError)
	} else if issue.FixAction != "" {
		if issue.Fixable {
			fmt.Printf("  %s Fix: %s\n", RenderMuted("→"), issue.FixAction)
		} else {
			fmt.Printf("  %s %s\n", RenderMuted("→"), issue.FixAction)
		}
	}
}
