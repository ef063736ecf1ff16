package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"aimaturity/internal/assessment"
	"aimaturity/internal/config"
	"aimaturity/internal/logger"
	"aimaturity/internal/maturity"
	"aimaturity/internal/report"
	"aimaturity/internal/session"
	"aimaturity/internal/tui"
	"aimaturity/internal/workspace"
)

// app is what every command needs once flags and settings are resolved.
type app struct {
	settings *config.Settings
	model    *maturity.Model
	log      *slog.Logger
}

// globalFlags override settings for every command.
type globalFlags struct {
	root       string
	framework  string
	outputDir  string
	assessedBy string
	timezone   string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	var gf globalFlags
	a := &app{}

	root := &cobra.Command{
		Use:   "aimaturity",
		Short: "AI maturity self-assessment and report generator",
		Long: `aimaturity walks through the AI capability domains, rates each one
from 1 (Adhoc) to 5 (Innovative) for Plan & Design, Implement and Operate &
Improve, and produces a color-coded report with heatmaps and charts.

Settings are read from .aimaturity/settings.yaml, .env and AIMATURITY_*
environment variables; flags override them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, gf)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&gf.root, "dir", ".", "Directory holding .aimaturity/settings.yaml and .env")
	pf.StringVar(&gf.framework, "framework", "", "Maturity framework file (default: built-in)")
	pf.StringVar(&gf.outputDir, "output-dir", "", "Report directory (default: ~/.aimaturity/reports)")
	pf.StringVar(&gf.assessedBy, "assessed-by", "", "Value of the Assessed By field")
	pf.StringVar(&gf.timezone, "timezone", "", "Time zone for the assessment date and time")
	pf.StringVar(&gf.logLevel, "log-level", "", "Log level (debug|info|warn|error)")
	pf.StringVar(&gf.logFormat, "log-format", "", "Log format (text|json)")

	root.AddCommand(
		newAssessCmd(a),
		newReportCmd(a),
		newTemplateCmd(a),
		newLevelsCmd(a),
		newListCmd(a),
	)
	return root
}

// setup loads settings, applies flag overrides, and loads the framework.
func (a *app) setup(cmd *cobra.Command, gf globalFlags) error {
	s, err := config.Load(gf.root)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	for name, dst := range map[string]*string{
		"framework":   &s.Framework,
		"output-dir":  &s.OutputDir,
		"assessed-by": &s.AssessedBy,
		"timezone":    &s.Timezone,
		"log-level":   &s.Log.Level,
		"log-format":  &s.Log.Format,
	} {
		if flags.Changed(name) {
			v, _ := flags.GetString(name)
			*dst = v
		}
	}
	if err := s.Validate(); err != nil {
		return err
	}
	a.settings = s
	a.log = logger.Init(cmd.ErrOrStderr(), s.Log.Level, s.Log.Format)

	m, err := maturity.Load(s.Framework)
	if err != nil {
		return err
	}
	a.model = m
	return nil
}

// options derives report options from the settings.
func (a *app) options(prefix string) (report.Options, error) {
	loc, err := a.settings.Location()
	if err != nil {
		return report.Options{}, err
	}
	return report.Options{
		Now:         time.Now(),
		Location:    loc,
		AssessedBy:  a.settings.AssessedBy,
		SheetPrefix: prefix,
	}, nil
}

// generate renders records in format and stores them. An empty out stores
// the report in the workspace under its partner file name; otherwise out is
// the target file.
func (a *app) generate(partner string, records []assessment.Record, format, prefix, out string) (string, error) {
	r, err := report.Lookup(format)
	if err != nil {
		return "", err
	}
	opts, err := a.options(prefix)
	if err != nil {
		return "", err
	}
	data, err := report.Generate(a.model, records, partner, r, opts)
	if err != nil {
		return "", err
	}

	dir, name := a.settings.OutputDir, workspace.ReportFilename(partner, r.Extension())
	if out != "" {
		dir, name = filepath.Dir(out), filepath.Base(out)
	}
	ws, err := workspace.Open(dir)
	if err != nil {
		return "", err
	}
	path, err := ws.Write(name, data)
	if err != nil {
		return "", err
	}
	a.log.Info("report written", "partner", partner, "format", r.Name(), "records", len(records), "path", path)
	return path, nil
}

// ---------------------------------------------------------------------------
// assess
// ---------------------------------------------------------------------------

func newAssessCmd(a *app) *cobra.Command {
	var format, prefix string
	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Run the interactive assessment",
		Long: `Run the interactive assessment wizard.

Enter the partner name, then rate every domain. Press f on a form to save it
and jump to the results once every domain is rated. Press d in the results
view for the detailed ratings and w to write the report to the output
directory. Logs go to aimaturity.log in the output directory while the
wizard is running.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := report.Lookup(format); err != nil {
				return err
			}
			ws, err := workspace.Open(a.settings.OutputDir)
			if err != nil {
				return err
			}
			logFile, err := ws.OpenLog()
			if err != nil {
				return err
			}
			defer logFile.Close()
			a.log = logger.Init(logFile, a.settings.Log.Level, a.settings.Log.Format)
			a.settings.OutputDir = ws.Dir

			sess := session.New(a.model)
			a.log.Info("assessment started", "session_id", sess.ID)
			return tui.Run(sess, func(partner string, records []assessment.Record) (string, error) {
				return a.generate(partner, records, format, prefix, "")
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "Report format (default from settings)")
	cmd.Flags().StringVar(&prefix, "sheet-prefix", "", "Prefix for every sheet name")
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if format == "" {
			format = a.settings.Format
		}
		if !cmd.Flags().Changed("sheet-prefix") {
			prefix = a.settings.SheetPrefix
		}
		return nil
	}
	return cmd
}

// ---------------------------------------------------------------------------
// report
// ---------------------------------------------------------------------------

func newReportCmd(a *app) *cobra.Command {
	var answers, partner, format, prefix, out string
	cmd := &cobra.Command{
		Use:   "report --answers <file>",
		Short: "Generate a report from an answers file",
		Long: `Generate a report from a YAML answers file without the wizard.

Run 'aimaturity template' for a starting answers file. A .md file is read as
a markdown note with the answers in its frontmatter. Every record must rate
all three phases; the report is not written otherwise.

Examples:
  aimaturity report --answers acme.yaml
  aimaturity report --answers acme.yaml --format markdown -o acme.md`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ans, err := assessment.LoadAnswers(answers)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("partner") {
				ans.Partner = partner
			}
			if format == "" {
				format = a.settings.Format
			}
			if !cmd.Flags().Changed("sheet-prefix") {
				prefix = a.settings.SheetPrefix
			}
			path, err := a.generate(ans.Partner, ans.Records, format, prefix, out)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&answers, "answers", "", "Answers file (YAML, or markdown with frontmatter)")
	f.StringVar(&partner, "partner", "", "Override the partner name in the answers file")
	f.StringVar(&format, "format", "", fmt.Sprintf("Report format %v (default from settings)", report.Formats()))
	f.StringVar(&prefix, "sheet-prefix", "", "Prefix for every sheet name")
	f.StringVarP(&out, "output", "o", "", "Output file (default: <output-dir>/<partner>_AI_Maturity_Assessment_Report.<ext>)")
	_ = cmd.MarkFlagRequired("answers")
	return cmd
}

// ---------------------------------------------------------------------------
// template
// ---------------------------------------------------------------------------

func newTemplateCmd(a *app) *cobra.Command {
	var partner, out string
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Print an answers file covering every domain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := assessment.Template(a.model, partner).Marshal()
			if err != nil {
				return err
			}
			if out == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write template: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&partner, "partner", "", "Partner name to fill in")
	cmd.Flags().StringVarP(&out, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}

// ---------------------------------------------------------------------------
// levels
// ---------------------------------------------------------------------------

func newLevelsCmd(a *app) *cobra.Command {
	var domains bool
	cmd := &cobra.Command{
		Use:   "levels",
		Short: "Show the maturity levels and domains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printLevels(cmd.OutOrStdout(), a.model, domains)
			return nil
		},
	}
	cmd.Flags().BoolVar(&domains, "domains", false, "Also list categories and domains")
	return cmd
}

func printLevels(w io.Writer, m *maturity.Model, domains bool) {
	for _, l := range m.Levels {
		fmt.Fprintf(w, "%d = %s (%s)\n", l.Level, l.Name, l.Color)
		for _, d := range l.Description {
			fmt.Fprintf(w, "    - %s\n", d)
		}
	}
	if !domains {
		return
	}
	fmt.Fprintln(w)
	for _, c := range m.Categories {
		fmt.Fprintf(w, "%s\n", c.Name)
		for _, d := range c.Domains {
			fmt.Fprintf(w, "    %s\n", d)
		}
	}
}

// ---------------------------------------------------------------------------
// list
// ---------------------------------------------------------------------------

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List generated reports in the output directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := workspace.Open(a.settings.OutputDir)
			if err != nil {
				return err
			}
			reports, err := ws.List()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(reports) == 0 {
				fmt.Fprintf(w, "no reports in %s\n", ws.Dir)
				return nil
			}
			for _, r := range reports {
				fmt.Fprintf(w, "%-60s %8d  %s\n", r.Name, r.Size, time.Unix(r.ModTime, 0).Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "aimaturity: %v\n", err)
		os.Exit(1)
	}
}
