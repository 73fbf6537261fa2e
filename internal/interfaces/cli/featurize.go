package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// newFeaturizeCommand builds `ffpgen featurize`: assemble the descriptor
// matrix of one structure and write it as JSON.
func newFeaturizeCommand(opts *rootOptions) *cobra.Command {
	var (
		inputPath  string
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "featurize",
		Short: "Assemble the per-site descriptor matrix of a structure",
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

			m, err := rt.service.Featurize(cmd.Context(), st)
			if err != nil {
				return err
			}

			out, closeOut, err := openOutput(outputPath)
			if err != nil {
				return err
			}
			defer closeOut()

			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Name   string      `json:"name"`
				Labels []string    `json:"labels"`
				Rows   [][]float64 `json:"rows"`
			}{Name: st.Name(), Labels: m.Labels, Rows: m.Rows})
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "structure file (.json or .xyz)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default stdout)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
