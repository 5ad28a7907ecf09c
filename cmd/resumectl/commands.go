package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"resume-improver/internal/flow"
	"resume-improver/internal/shared/apperr"
	"resume-improver/resume/model"
	"resume-improver/resume/render"
)

var (
	jobSource    string
	outputDir    string
	noLocalLimit bool
	increment    bool
)

var improveCmd = &cobra.Command{
	Use:   "improve <file.pdf>",
	Short: "Rewrite a résumé, optionally tailored to a job description",
	Long: `Rewrite a résumé PDF and save the result as a Word document.

The job description is read from --job, either a file path or "-" for stdin.
Without it the résumé gets a general rewrite. Missing skills found in the
job description are asked about one at a time.`,
	Args: cobra.ExactArgs(1),
	RunE: runImprove,
}

var checkLimitCmd = &cobra.Command{
	Use:   "check-limit",
	Short: "Show whether a rewrite is currently allowed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		decision, err := flow.NewClient(serverURL, language).CheckLimit(cmd.Context())
		if err != nil {
			return err
		}
		if decision.Allowed {
			fmt.Fprintln(cmd.OutOrStdout(), "allowed")
			return nil
		}
		notice := flow.RateLimitNotice{RemainingSeconds: decision.RemainingSeconds}
		fmt.Fprintf(cmd.OutOrStdout(), "limited, next rewrite in %s\n", notice.Countdown())
		return nil
	},
}

var counterCmd = &cobra.Command{
	Use:   "counter",
	Short: "Print the number of improved résumés",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		resp, err := flow.NewClient(serverURL, language).Counter(cmd.Context(), increment)
		if err != nil {
			return err
		}
		if !resp.Configured {
			fmt.Fprintln(cmd.OutOrStdout(), "counter not configured")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), resp.Count)
		return nil
	},
}

func init() {
	improveCmd.Flags().StringVar(&jobSource, "job", "", `job description file, or "-" for stdin`)
	improveCmd.Flags().StringVar(&outputDir, "out", ".", "directory for the generated document")
	improveCmd.Flags().BoolVar(&noLocalLimit, "no-local-limit", false, "skip the local cooldown check")
	counterCmd.Flags().BoolVar(&increment, "increment", false, "increment before printing")
}

func runImprove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	in := bufio.NewReader(cmd.InOrStdin())

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	jobDescription, err := readJob(jobSource, cmd.InOrStdin())
	if err != nil {
		return err
	}

	limiter, err := flow.NewLocalLimiter()
	if err != nil {
		return err
	}
	limiter.Disabled = noLocalLimit

	client := flow.NewClient(serverURL, language)
	ctl := flow.NewController(client, limiter)
	if err := ctl.Start(); err != nil {
		return err
	}

	fmt.Fprintln(out, "Reading résumé...")
	if err := ctl.SelectFile(ctx, flow.Document{Name: args[0], Data: data}); err != nil {
		return explain(ctl, err)
	}

	if jobDescription == "" {
		fmt.Fprintln(out, "Rewriting résumé...")
	} else {
		fmt.Fprintln(out, "Comparing with job description...")
	}
	if err := ctl.SubmitJobDescription(ctx, jobDescription); err != nil {
		return explain(ctl, err)
	}

	if ctl.Stage() == flow.StageSkillsQuestionnaire {
		var answers []model.SkillAnswer
		q, err := ctl.Questionnaire(func(a []model.SkillAnswer) { answers = a })
		if err != nil {
			return err
		}
		if err := askSkills(q, in, out); err != nil {
			return err
		}
		fmt.Fprintln(out, "Rewriting résumé for the job...")
		if err := ctl.SubmitAnswers(ctx, answers); err != nil {
			return explain(ctl, err)
		}
	}

	resume := ctl.Resume()
	if resume == nil {
		return fmt.Errorf("session ended in %s without a résumé", ctl.Stage())
	}
	doc, err := client.GenerateDOCX(ctx, *resume)
	if err != nil {
		return err
	}
	path := filepath.Join(outputDir, render.FileName(resume.FullName, ".docx"))
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(out, "Saved %s\n", path)
	return nil
}

func readJob(source string, stdin io.Reader) (string, error) {
	switch source {
	case "":
		return "", nil
	case "-":
		b, err := io.ReadAll(stdin)
		return strings.TrimSpace(string(b)), err
	default:
		b, err := os.ReadFile(source)
		return strings.TrimSpace(string(b)), err
	}
}

func askSkills(q *flow.Questionnaire, in *bufio.Reader, out io.Writer) error {
	for !q.Done() {
		skill, _ := q.Current()
		n, total := q.Progress()
		fmt.Fprintf(out, "[%d/%d] Do you have experience with %s (%s)? [y/N] ", n, total, skill.Name, skill.Importance)
		line, err := readLine(in)
		if err != nil {
			return err
		}
		yes := strings.EqualFold(line, "y") || strings.EqualFold(line, "yes")
		if err := q.Answer(yes); err != nil {
			return err
		}
		if !yes {
			continue
		}
		fmt.Fprintf(out, "Years of experience [%d] (%s): ", q.Years(), quickPicks())
		line, err = readLine(in)
		if err != nil {
			return err
		}
		if line != "" {
			years, err := strconv.Atoi(strings.TrimSuffix(line, "+"))
			if err != nil {
				return fmt.Errorf("years of experience: %w", err)
			}
			q.SetYears(years)
		}
		if err := q.SubmitYears(); err != nil {
			return err
		}
	}
	return nil
}

func readLine(in *bufio.Reader) (string, error) {
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func quickPicks() string {
	parts := make([]string, len(flow.QuickPicks))
	for i, v := range flow.QuickPicks {
		parts[i] = strconv.Itoa(v) + "+"
	}
	return strings.Join(parts, " ")
}

func explain(ctl *flow.Controller, err error) error {
	if notice := ctl.Notice(); notice != nil {
		return fmt.Errorf("rate limited, next rewrite in %s", notice.Countdown())
	}
	var limited *apperr.RateLimitedError
	if errors.As(err, &limited) {
		return fmt.Errorf("rate limited, next rewrite in %s", flow.RateLimitNotice{RemainingSeconds: limited.RemainingSeconds}.Countdown())
	}
	return err
}
