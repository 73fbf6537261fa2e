package cli

import (
	"github.com/spf13/cobra"

	"github.com/mofml/ffpgen/internal/domain/structure"
)

// newPredictCommand builds `ffpgen predict`: predict precursor values for
// one structure and write the annotated structure document.
func newPredictCommand(opts *rootOptions) *cobra.Command {
	var (
		inputPath  string
		outputPath string
		types      []string
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict force-field precursors and attach them as site properties",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}

			st, err := readStructure(inputPath)
			if err != nil {
				return err
			}

			rt, err := buildRuntime(cmd.Context(), cfg, logger, false)
			if err != nil {
				return err
			}
			defer rt.close()

			if len(types) == 0 {
				st, err = rt.service.PredictAll(cmd.Context(), st)
			} else {
				st, err = rt.service.Predict(cmd.Context(), st, types)
			}
			if err != nil {
				return err
			}

			out, closeOut, err := openOutput(outputPath)
			if err != nil {
				return err
			}
			defer closeOut()
			return structure.EncodeJSON(out, st)
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "structure file (.json or .xyz)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringSliceVarP(&types, "type", "t", nil,
		"precursor type to predict (repeatable; default all)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
