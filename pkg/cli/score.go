package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mindhaven/mindhaven/pkg/cli/config"
	"github.com/mindhaven/mindhaven/pkg/domain/model"
	"github.com/mindhaven/mindhaven/pkg/domain/types"
	"github.com/mindhaven/mindhaven/pkg/repository"
	"github.com/mindhaven/mindhaven/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdScore() *cli.Command {
	var bankCfg config.Bank

	return &cli.Command{
		Name:      "score",
		Usage:     "Score answers given in question order",
		ArgsUsage: "<test-type> <answer>...",
		Flags:     bankCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.NArg() < 1 {
				return goerr.New("test type is required")
			}
			testTypeID := types.TestTypeID(c.Args().First())

			bank, err := bankCfg.Configure()
			if err != nil {
				return err
			}
			uc := usecase.NewAssessment(bank, repository.NewMemory(), nil)

			testType, err := uc.GetTestType(ctx, testTypeID)
			if err != nil {
				return err
			}

			responses, err := responsesInOrder(testType, c.Args().Tail())
			if err != nil {
				return err
			}

			result, err := uc.Score(ctx, testTypeID, responses)
			if err != nil {
				return err
			}

			printResult(c.Root().Writer, testType, result)
			return nil
		},
	}
}

// responsesInOrder assigns answers to questions by position. Fewer answers
// than questions are allowed.
func responsesInOrder(testType *model.TestType, answers []string) (model.ResponseSet, error) {
	if len(answers) > testType.QuestionCount() {
		return nil, goerr.New("too many answers",
			goerr.V("testTypeID", testType.ID),
			goerr.V("answers", len(answers)),
			goerr.V("questions", testType.QuestionCount()))
	}

	responses := model.NewResponseSet()
	for i, s := range answers {
		v, err := model.ParseOptionValue(s)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid answer", goerr.V("position", i+1))
		}
		responses.SetAnswer(testType.Questions[i].ID, v)
	}
	return responses, nil
}
