package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yanqian/ppgi-advisor/internal/domain/glycemic"
)

func newInterpretCmd(output *string) *cobra.Command {
	var risk riskFlags

	cmd := &cobra.Command{
		Use:   "interpret [FILE|-]",
		Short: "Interpret a prediction service response",
		Long: `Interpret a JSON response of the prediction service read from FILE
or standard input.

Examples:
  # Interpret a saved response
  ppgictl interpret response.json --family-diabetes --activity sedentary

  # Pipe a response straight from curl
  curl -s -XPOST localhost:8000/api/predict -d @form.json | ppgictl interpret -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			res, err := glycemic.DecodePrediction(raw)
			if err != nil {
				return err
			}
			interp, err := glycemic.Interpret(res, risk.riskFactors(cmd.Flags()))
			if err != nil {
				return err
			}
			return renderInterpretation(cmd.OutOrStdout(), *output, interp, nil)
		},
	}
	risk.register(cmd.Flags())
	return cmd
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return raw, nil
	}
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", args[0], err)
	}
	return raw, nil
}
