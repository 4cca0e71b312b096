package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kneefig/pkg/pipeline"
)

// inspectCommand creates the inspect command, which summarizes a trial
// without rendering anything.
func (c *CLI) inspectCommand() *cobra.Command {
	input := pipeline.DefaultInput

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Summarize a trial file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := pipeline.NewRunner(nil, nil, loggerFromContext(cmd.Context()))
			t, err := runner.LoadTrial(cmd.Context(), input)
			if err != nil {
				return err
			}

			s := t.Summarize()
			printSuccess("Trial %s", StyleHighlight.Render(input))
			printKeyValue("Samples", StyleNumber.Render(fmt.Sprintf("%d", s.Samples)))
			printKeyValue("Duration", fmt.Sprintf("%.2f s", s.Duration))
			printKeyValue("Knee torque", fmt.Sprintf("max %.2f N·m", s.MaxKneeTorque))
			printKeyValue("Knee speed", fmt.Sprintf("max %.3f rev/s", s.MaxKneeSpeed))
			printKeyValue("Motor torque", fmt.Sprintf("max %.3f N·m, RMS %.3f N·m", s.MaxMotorTorque, s.MotorTorqueRMS))
			printKeyValue("Motor speed", fmt.Sprintf("max %.0f RPM", s.MaxMotorRPM))
			printKeyValue("Digest", StyleDim.Render(t.Digest()[:12]))
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", input, "trial file (.json, .yaml, .toml)")
	return cmd
}
