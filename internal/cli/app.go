package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/lunark/abacus-api/internal/attempt"
	"github.com/lunark/abacus-api/internal/dto"
	"github.com/lunark/abacus-api/internal/exam"
)

const defaultHTTPTimeout = 10 * time.Second

type Config struct {
	ServerURL string
	Username  string
	Password  string
	Duration  time.Duration
}

// Run drives an interactive exam session in the terminal: login, level
// selection, timed questions with quit/confirm, result display and
// retry-on-failed-submission.
func Run(ctx context.Context, in io.Reader, out io.Writer, cfg Config) error {
	if strings.TrimSpace(cfg.Username) == "" {
		return errors.New("username is required")
	}

	client := attempt.NewHTTPClient(cfg.ServerURL, &http.Client{Timeout: defaultHTTPTimeout})

	user, err := client.Login(ctx, cfg.Username, cfg.Password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	fmt.Fprintf(out, "Welcome, %s!\n", displayName(user))

	levels, err := client.Levels(ctx)
	if err != nil {
		return fmt.Errorf("fetch levels: %w", err)
	}

	reader := bufio.NewReader(in)
	for {
		printLevels(out, levels, user.AllowedLevels)
		fmt.Fprint(out, "\nLevel id (or \"history\", \"exit\"): ")

		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}
		choice := strings.TrimSpace(line)

		switch choice {
		case "":
			continue
		case "exit":
			return nil
		case "history":
			if err := printHistory(ctx, out, client, user.ID); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
		default:
			if _, ok := levelByID(levels, choice); !ok {
				fmt.Fprintf(out, "Unknown level %q.\n", choice)
				continue
			}
			if err := runExam(ctx, reader, out, client, user.ID, choice, cfg.Duration); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
		}
	}
}

func runExam(ctx context.Context, reader *bufio.Reader, out io.Writer, client *attempt.HTTPClient, userID uint, levelID string, duration time.Duration) error {
	machine := attempt.New(client, attempt.Config{
		Duration: duration,
		Notify: func(s attempt.State) {
			// The countdown goroutine reports timeout-triggered transitions
			// while the prompt is blocked on input.
			switch s {
			case attempt.StateSubmitting:
				fmt.Fprintln(out, "\nSubmitting...")
			}
		},
	})

	if err := machine.Start(ctx, userID, levelID); err != nil {
		return err
	}
	defer machine.Exit()

	fmt.Fprintf(out, "\nExam started: %d questions, %s on the clock. Answer with 1-4, \"q\" to quit.\n",
		len(machine.Questions()), formatDuration(machine.Remaining()))

	for machine.State() == attempt.StateInProgress {
		question, ok := machine.CurrentQuestion()
		if !ok {
			break
		}
		printQuestion(out, machine.Cursor()+1, len(machine.Questions()), question, machine.Remaining())

		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		input := strings.ToLower(strings.TrimSpace(line))

		if machine.State() != attempt.StateInProgress {
			break // timed out while waiting for input
		}

		switch input {
		case "q":
			if err := machine.Quit(); err != nil {
				return err
			}
			fmt.Fprint(out, "Quit exam? Unanswered questions count as wrong. [y/N]: ")
			confirm, err := reader.ReadString('\n')
			if err != nil {
				return err
			}
			if strings.ToLower(strings.TrimSpace(confirm)) == "y" {
				if err := machine.ConfirmQuit(ctx); err != nil && machine.State() != attempt.StateSubmissionFailed {
					return err
				}
			} else {
				if err := machine.CancelQuit(ctx); err != nil {
					return err
				}
				fmt.Fprintf(out, "Resuming, %s left.\n", formatDuration(machine.Remaining()))
			}
		default:
			idx, err := strconv.Atoi(input)
			if err != nil || idx < 1 || idx > len(question.Options) {
				fmt.Fprintf(out, "Enter 1-%d or \"q\".\n", len(question.Options))
				continue
			}
			if err := machine.Answer(ctx, question.Options[idx-1]); err != nil && machine.State() != attempt.StateSubmissionFailed {
				return err
			}
		}
	}

	for machine.State() == attempt.StateSubmissionFailed {
		fmt.Fprintf(out, "Submission failed: %v\nRetry submission? [Y/n]: ", machine.Err())
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		if strings.ToLower(strings.TrimSpace(line)) == "n" {
			return machine.Err()
		}
		if err := machine.Retry(ctx); err != nil && machine.State() == attempt.StateSubmissionFailed {
			continue
		}
	}

	if summary := machine.Summary(); summary != nil {
		fmt.Fprintf(out, "\nScore: %d/%d (%d%%), attempted %d, time %s\n",
			summary.Score, summary.Total, summary.Percentage,
			summary.Grade.Attempted, formatSeconds(summary.Grade.TimeTakenSeconds))
	}
	return nil
}

func printQuestion(out io.Writer, number, total int, q dto.ClientQuestion, remaining time.Duration) {
	fmt.Fprintf(out, "\n[%d/%d] (%s left)\n", number, total, formatDuration(remaining))
	if q.Expression != "" {
		fmt.Fprintf(out, "  %s = ?\n", q.Expression)
	} else {
		for _, n := range q.Numbers {
			fmt.Fprintf(out, "  %+d\n", n)
		}
	}
	for i, opt := range q.Options {
		fmt.Fprintf(out, "  %d) %d\n", i+1, opt)
	}
	fmt.Fprint(out, "> ")
}

func printLevels(out io.Writer, levels []exam.Level, allowed string) {
	allowedSet := map[string]bool{}
	for _, id := range strings.Split(allowed, ",") {
		allowedSet[strings.TrimSpace(id)] = true
	}
	fmt.Fprintln(out, "\nLevels:")
	for _, l := range levels {
		marker := " "
		if allowedSet[l.ID] {
			marker = "*"
		}
		fmt.Fprintf(out, " %s %-7s %-9s %s\n", marker, l.ID, l.Label, l.Description)
	}
	fmt.Fprintln(out, "(* = assigned to you)")
}

func printHistory(ctx context.Context, out io.Writer, client *attempt.HTTPClient, userID uint) error {
	results, err := client.History(ctx, userID)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(out, "No exams taken yet.")
		return nil
	}
	for _, r := range results {
		fmt.Fprintf(out, "%s  level %-7s %3d/%d (%d%%) in %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.LevelID, r.Score, r.TotalQuestions, r.Percentage, formatSeconds(r.TimeTakenSeconds))
	}
	return nil
}

func levelByID(levels []exam.Level, id string) (exam.Level, bool) {
	for _, l := range levels {
		if l.ID == id {
			return l, true
		}
	}
	return exam.Level{}, false
}

func displayName(user *dto.UserResponse) string {
	if strings.TrimSpace(user.FullName) != "" {
		return user.FullName
	}
	return user.Username
}

func formatDuration(d time.Duration) string {
	return formatSeconds(int(d.Round(time.Second).Seconds()))
}

func formatSeconds(s int) string {
	if s < 0 {
		s = 0
	}
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}
