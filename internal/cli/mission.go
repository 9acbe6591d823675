package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	coremission "github.com/example/veganaut/internal/core/mission"
	"github.com/example/veganaut/internal/wire"
)

var missionCmd = &cobra.Command{
	Use:   "mission",
	Short: "Work on the missions of a visit",
	Long:  "Answer, toggle and finish the missions of a visit",
}

var missionAnswerCmd = &cobra.Command{
	Use:   "answer [visit-id] [type] [data]",
	Short: "Record the answer of a mission",
	Long: `Record the answer of a mission as YAML or JSON.

The data comes from the third argument, from --file, or from stdin when
neither is given.

Examples:
  veganaut mission answer VISIT-001 hasOptions '{first: theyDoNotKnow, second: ratherYes}'
  veganaut mission answer VISIT-001 rateOptions '{p1: 4, p2: 2}'
  veganaut mission answer VISIT-001 wantVegan --file want.yaml`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")

		data, err := readAnswerData(args[2:], file, cmd.InOrStdin())
		if err != nil {
			return err
		}

		return wire.VisitAdapter().Answer(NewContext(), args[0], args[1], data)
	},
}

var missionToggleCmd = &cobra.Command{
	Use:   "toggle [visit-id] [type]",
	Short: "Start or pause a mission",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.VisitAdapter().Toggle(NewContext(), args[0], args[1])
	},
}

var missionFinishCmd = &cobra.Command{
	Use:   "finish [visit-id] [type]",
	Short: "Finish a mission and collect its points",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.VisitAdapter().Finish(NewContext(), args[0], args[1])
	},
}

var missionTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List mission types",
	RunE: func(cmd *cobra.Command, args []string) error {
		printMissionTypes(cmd.OutOrStdout())
		return nil
	},
}

// readAnswerData picks the answer text from the positional argument, the
// file flag or the given reader, in that order.
func readAnswerData(args []string, file string, stdin io.Reader) (string, error) {
	if len(args) > 0 && file != "" {
		return "", fmt.Errorf("pass the answer either as argument or with --file, not both")
	}
	if len(args) > 0 {
		return args[0], nil
	}

	var (
		data []byte
		err  error
	)
	if file != "" {
		data, err = os.ReadFile(file)
	} else {
		data, err = io.ReadAll(stdin)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read answer: %w", err)
	}

	answer := strings.TrimSpace(string(data))
	if answer == "" {
		return "", fmt.Errorf("answer is empty")
	}
	return answer, nil
}

func printMissionTypes(out io.Writer) {
	fmt.Fprintf(out, "\n%-5s %-13s %s\n", "ORDER", "TYPE", "POINTS")
	fmt.Fprintln(out, "────────────────────────────")
	for _, t := range coremission.Types() {
		fmt.Fprintf(out, "%-5d %-13s %d\n", t.Order(), t, t.Points())
	}
	fmt.Fprintln(out)
}

// MissionCmd returns the mission command
func MissionCmd() *cobra.Command {
	missionAnswerCmd.Flags().StringP("file", "f", "", "Read the answer from a file")

	missionCmd.AddCommand(missionAnswerCmd)
	missionCmd.AddCommand(missionToggleCmd)
	missionCmd.AddCommand(missionFinishCmd)
	missionCmd.AddCommand(missionTypesCmd)

	return missionCmd
}
