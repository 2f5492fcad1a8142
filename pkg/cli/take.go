package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mindhaven/mindhaven/pkg/cli/config"
	"github.com/mindhaven/mindhaven/pkg/domain/model"
	"github.com/mindhaven/mindhaven/pkg/domain/types"
	"github.com/mindhaven/mindhaven/pkg/repository"
	"github.com/mindhaven/mindhaven/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// localUser owns sessions taken in the terminal
const localUser types.UserID = "local"

func cmdTake() *cli.Command {
	var bankCfg config.Bank

	return &cli.Command{
		Name:      "take",
		Usage:     "Take an assessment interactively",
		ArgsUsage: "<test-type>",
		Flags:     bankCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.NArg() != 1 {
				return goerr.New("exactly one test type is required")
			}

			bank, err := bankCfg.Configure()
			if err != nil {
				return err
			}

			t := &terminalSession{
				uc:  usecase.NewAssessment(bank, repository.NewMemory(), nil),
				in:  bufio.NewScanner(c.Root().Reader),
				out: c.Root().Writer,
			}
			return t.run(ctx, types.TestTypeID(c.Args().First()))
		},
	}
}

type terminalSession struct {
	uc  usecase.AssessmentUseCase
	in  *bufio.Scanner
	out io.Writer
}

func (t *terminalSession) readLine() (string, error) {
	if !t.in.Scan() {
		if err := t.in.Err(); err != nil {
			return "", goerr.Wrap(err, "failed to read input")
		}
		return "", io.EOF
	}
	return strings.TrimSpace(t.in.Text()), nil
}

func (t *terminalSession) run(ctx context.Context, testTypeID types.TestTypeID) error {
	testType, err := t.uc.GetTestType(ctx, testTypeID)
	if err != nil {
		return err
	}

	state, err := t.uc.StartSession(ctx, localUser, testTypeID)
	if err != nil {
		return err
	}
	sessionID := state.Session.ID

	headingColor.Fprintln(t.out, testType.Title)
	if testType.Description != "" {
		fmt.Fprintln(t.out, testType.Description)
	}

	for {
		var (
			next *usecase.SessionState
			line string
		)

		switch state.Session.Navigator.State {
		case types.NavigationAnswering:
			printQuestion(t.out, state)
		case types.NavigationCompleted:
			hintColor.Fprintln(t.out, "\nAll questions answered. Press Enter to see your result, b to go back, q to quit")
		case types.NavigationSelectingTest:
			hintColor.Fprintln(t.out, "\nBack at the start. Press Enter to begin again, q to quit")
		}

		line, err = t.readLine()
		if err == io.EOF {
			line = "q"
		} else if err != nil {
			return err
		}

		switch {
		case line == "q":
			if err := t.uc.Abandon(ctx, sessionID); err != nil {
				return err
			}
			fmt.Fprintln(t.out, "Assessment abandoned. Nothing was saved.")
			return nil

		case line == "b" && state.Session.Navigator.State != types.NavigationSelectingTest:
			next, err = t.uc.Previous(ctx, sessionID)

		case state.Session.Navigator.State == types.NavigationCompleted && line == "":
			result, err := t.uc.Submit(ctx, sessionID)
			if err != nil {
				return err
			}
			printResult(t.out, testType, result)
			return nil

		case state.Session.Navigator.State == types.NavigationSelectingTest && line == "":
			next, err = t.uc.Next(ctx, sessionID)

		case state.Session.Navigator.State == types.NavigationAnswering:
			next, err = t.answer(ctx, state, line)

		default:
			hintColor.Fprintln(t.out, "Unknown command")
			continue
		}

		if err != nil {
			return err
		}
		if next != nil {
			state = next
		}
	}
}

// answer records the entered value and moves on. Invalid input is reported
// and leaves the session unchanged.
func (t *terminalSession) answer(ctx context.Context, state *usecase.SessionState, line string) (*usecase.SessionState, error) {
	q := state.Current
	value, err := model.ParseOptionValue(line)
	if err == nil && !q.HasOption(value) {
		err = goerr.New("not an option", goerr.V("value", value))
	}
	if err != nil {
		ctxlog.From(ctx).Debug("Rejected answer", "input", line, "error", err)
		hintColor.Fprintf(t.out, "Please enter a number between 0 and %d\n", q.MaxValue())
		return nil, nil
	}

	if _, err := t.uc.Answer(ctx, state.Session.ID, q.ID, value); err != nil {
		return nil, err
	}
	return t.uc.Next(ctx, state.Session.ID)
}
