package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/m-mizutani/gt"
	"github.com/mindhaven/mindhaven/pkg/cli"
	"github.com/mindhaven/mindhaven/pkg/cli/config"
	urfave "github.com/urfave/cli/v3"
)

func runCLI(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	var out bytes.Buffer
	err := cli.RunWithIO(context.Background(), append([]string{"mindhaven", "--log-level", "error"}, args...),
		strings.NewReader(input), &out)
	return out.String(), err
}

func TestTests(t *testing.T) {
	out, err := runCLI(t, "", "tests")
	gt.NoError(t, err)
	gt.S(t, out).Contains("depression")
	gt.S(t, out).Contains("Depression Screening")
	gt.S(t, out).Contains("social_anxiety")
}

func TestScore(t *testing.T) {
	t.Run("full answers are classified", func(t *testing.T) {
		out, err := runCLI(t, "", "score", "anxiety", "2", "2", "2", "2", "2", "0", "0")
		gt.NoError(t, err)
		gt.S(t, out).Contains("Score: 10 / 21 (answered 7 of 7)")
		gt.S(t, out).Contains("Moderate Anxiety")
	})

	t.Run("partial answers are allowed", func(t *testing.T) {
		out, err := runCLI(t, "", "score", "adhd", "4", "4")
		gt.NoError(t, err)
		gt.S(t, out).Contains("Score: 8 / 40 (answered 2 of 10)")
		gt.S(t, out).Contains("Minimal ADHD Symptoms")
	})

	t.Run("test without severity table is unknown", func(t *testing.T) {
		out, err := runCLI(t, "", "score", "stress", "1", "2", "3")
		gt.NoError(t, err)
		gt.S(t, out).Contains("Score: 6")
		gt.S(t, out).Contains("Unknown")
	})

	t.Run("too many answers", func(t *testing.T) {
		_, err := runCLI(t, "", "score", "anxiety", "0", "0", "0", "0", "0", "0", "0", "0")
		gt.Error(t, err)
	})

	t.Run("value outside the scale", func(t *testing.T) {
		_, err := runCLI(t, "", "score", "anxiety", "4")
		gt.Error(t, err)
	})

	t.Run("value is not a number", func(t *testing.T) {
		_, err := runCLI(t, "", "score", "anxiety", "often")
		gt.Error(t, err)
	})

	t.Run("unknown test type", func(t *testing.T) {
		_, err := runCLI(t, "", "score", "no_such_test", "1")
		gt.Error(t, err)
	})

	t.Run("missing test type", func(t *testing.T) {
		_, err := runCLI(t, "", "score")
		gt.Error(t, err)
	})
}

func TestTake(t *testing.T) {
	t.Run("answers every question and prints the result", func(t *testing.T) {
		out, err := runCLI(t, "1\n1\n1\n1\n1\n0\n0\n\n", "take", "anxiety")
		gt.NoError(t, err)
		gt.S(t, out).Contains("Anxiety Screening")
		gt.S(t, out).Contains("[1/7] Feeling nervous, anxious, or on edge")
		gt.S(t, out).Contains("[7/7]")
		gt.S(t, out).Contains("Score: 5 / 21 (answered 7 of 7)")
		gt.S(t, out).Contains("Mild Anxiety")
	})

	t.Run("going back changes an answer", func(t *testing.T) {
		out, err := runCLI(t, "3\nb\n0\n0\n0\n0\n0\n0\n0\n\n", "take", "anxiety")
		gt.NoError(t, err)
		gt.S(t, out).Contains(" * 3) Nearly every day")
		gt.S(t, out).Contains("Score: 0 / 21")
		gt.S(t, out).Contains("Minimal Anxiety")
	})

	t.Run("going back after the last question", func(t *testing.T) {
		out, err := runCLI(t, "3\n3\n3\n3\n3\n3\n3\nb\n0\n\n", "take", "anxiety")
		gt.NoError(t, err)
		gt.S(t, out).Contains("All questions answered")
		gt.S(t, out).Contains("Score: 18 / 21")
		gt.S(t, out).Contains("Severe Anxiety")
	})

	t.Run("going back from the first question returns to the start", func(t *testing.T) {
		out, err := runCLI(t, "b\n\n0\n0\n0\n0\n0\n0\n0\n\n", "take", "anxiety")
		gt.NoError(t, err)
		gt.S(t, out).Contains("Back at the start")
		gt.S(t, out).Contains("Score: 0 / 21")
	})

	t.Run("invalid input is rejected", func(t *testing.T) {
		out, err := runCLI(t, "7\nx\n\nq\n", "take", "anxiety")
		gt.NoError(t, err)
		gt.S(t, out).Contains("Please enter a number between 0 and 3")
		gt.S(t, out).Contains("Assessment abandoned")
		gt.False(t, strings.Contains(out, "Score:"))
	})

	t.Run("quit abandons the session", func(t *testing.T) {
		out, err := runCLI(t, "2\nq\n", "take", "depression")
		gt.NoError(t, err)
		gt.S(t, out).Contains("[2/9]")
		gt.S(t, out).Contains("Assessment abandoned")
	})

	t.Run("end of input abandons the session", func(t *testing.T) {
		out, err := runCLI(t, "1\n", "take", "depression")
		gt.NoError(t, err)
		gt.S(t, out).Contains("Assessment abandoned")
	})

	t.Run("unknown test type", func(t *testing.T) {
		_, err := runCLI(t, "", "take", "no_such_test")
		gt.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	t.Run("built-in bank", func(t *testing.T) {
		out, err := runCLI(t, "", "validate")
		gt.NoError(t, err)
		gt.S(t, out).Contains("OK: 12 test types (3 with severity tables)")
	})

	t.Run("custom bank file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bank.yaml")
		gt.NoError(t, os.WriteFile(path, []byte(`
test_types:
  - id: wellbeing
    title: Wellbeing
    questions:
      - id: wb-1
        text: I feel calm
        options:
          - { value: 0, label: "No" }
          - { value: 1, label: "Yes" }
      - id: wb-2
        text: I sleep well
        options:
          - { value: 0, label: "No" }
          - { value: 1, label: "Yes" }
`), 0o600)).Required()

		out, err := runCLI(t, "", "validate", "--bank-file", path)
		gt.NoError(t, err)
		gt.S(t, out).Contains("OK: 1 test types (0 with severity tables), 2 questions")
	})

	t.Run("invalid bank file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bank.yaml")
		gt.NoError(t, os.WriteFile(path, []byte(`
test_types:
  - id: broken
    title: Broken
    questions:
      - id: b-1
        text: Options skip a value
        options:
          - { value: 0, label: "No" }
          - { value: 2, label: "Yes" }
`), 0o600)).Required()

		_, err := runCLI(t, "", "validate", "--bank-file", path)
		gt.Error(t, err)
	})

	t.Run("missing bank file", func(t *testing.T) {
		_, err := runCLI(t, "", "validate", "--bank-file", filepath.Join(t.TempDir(), "missing.yaml"))
		gt.Error(t, err)
	})
}

func TestInvalidLogLevel(t *testing.T) {
	var out bytes.Buffer
	err := cli.RunWithIO(context.Background(), []string{"mindhaven", "--log-level", "verbose", "tests"},
		strings.NewReader(""), &out)
	gt.Error(t, err)
}

func TestJoinFlags(t *testing.T) {
	var (
		serverCfg config.Server
		bankCfg   config.Bank
	)
	shared := []urfave.Flag{
		&urfave.StringFlag{Name: "bank", Aliases: []string{"addr"}},
		&urfave.StringFlag{Name: "extra"},
	}

	merged := cli.JoinFlags(serverCfg.Flags(), bankCfg.Flags(), shared, bankCfg.Flags())
	gt.Equal(t, len(merged), len(serverCfg.Flags())+len(bankCfg.Flags())+1)

	seen := map[string]int{}
	for _, f := range merged {
		for _, name := range f.Names() {
			seen[name]++
		}
	}
	for _, n := range seen {
		gt.Equal(t, n, 1)
	}
	gt.Equal(t, seen["extra"], 1)
	gt.Equal(t, merged[0].Names()[0], "addr")
}
