package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/p-n-ai/deepblue/internal/app"
	"github.com/p-n-ai/deepblue/internal/lesson"
)

func (c *cli) lessonCmd() *cobra.Command {
	var quiz bool

	cmd := &cobra.Command{
		Use:   "lesson <step-id> <topic>",
		Short: "Generate a lesson for a roadmap topic",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.open(cmd, true); err != nil {
				return err
			}
			ctx := cmd.Context()

			step, ok := c.ctrl.Roadmap().Step(args[0])
			if !ok {
				return fmt.Errorf("%w: step %q", app.ErrUnknownTopic, args[0])
			}
			if _, err := c.ctrl.Dispatch(ctx, app.Navigate{To: app.ViewRoadmap}); err != nil {
				return err
			}
			if _, err := c.ctrl.Dispatch(ctx, app.SelectTopic{Step: step, Topic: args[1]}); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Generating lesson: %s (%s)...\n\n", args[1], step.Title)
			snap, err := c.ctrl.Lesson(ctx)
			if err != nil {
				return err
			}
			if snap.Status == lesson.StatusFailed {
				fmt.Fprintln(out, snap.Message)
				return snap.Err
			}

			printLesson(out, snap.Content)
			if quiz {
				return runQuiz(cmd.InOrStdin(), out, c.ctrl.LessonView(), snap.Content.Quiz)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&quiz, "quiz", false, "Answer the quiz interactively")
	return cmd
}

func printLesson(out io.Writer, l *lesson.LessonContent) {
	fmt.Fprintf(out, "# %s\n\n%s\n\n%s\n\n", l.Title, l.Introduction, l.CoreContent)
	fmt.Fprintf(out, "Safety: %s\n", l.SafetyTip)
}

func runQuiz(in io.Reader, out io.Writer, view *lesson.View, questions []lesson.QuizQuestion) error {
	scanner := bufio.NewScanner(in)

	for i, q := range questions {
		fmt.Fprintf(out, "\nQ%d. %s\n", i+1, q.Question)
		for j, opt := range q.Options {
			fmt.Fprintf(out, "  %d) %s\n", j+1, opt)
		}

		for {
			fmt.Fprint(out, "> ")
			if !scanner.Scan() {
				return scanner.Err()
			}
			choice, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
			if err != nil {
				fmt.Fprintln(out, "Enter an option number.")
				continue
			}
			res, err := view.Answer(i, choice-1)
			if errors.Is(err, lesson.ErrNoSuchOption) {
				fmt.Fprintln(out, "No such option.")
				continue
			}
			if err != nil {
				return err
			}
			verdict := "Wrong"
			if res.Correct {
				verdict = "Correct"
			}
			fmt.Fprintf(out, "%s! Answer: %s. %s\n", verdict, q.Options[res.CorrectIndex], res.Explanation)
			break
		}
	}

	correct, _, total := view.Score()
	fmt.Fprintf(out, "\nScore: %d/%d\n", correct, total)
	return nil
}
