package trial_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/kneefig/pkg/trial"
)

func ExampleRead() {
	data := `{
	  "time": [0, 0.5, 1],
	  "knee_torque": [0, 80, -20],
	  "knee_speed": [0, 6.2832, -3.1416],
	  "torque_motor": [0.5, 3.2, -1.1],
	  "motor_speed": [0, 314.16, -104.72],
	  "torque_motor_rms": 1.4
	}`

	t, err := trial.Read(strings.NewReader(data), trial.FormatJSON)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("samples:", t.Len())
	fmt.Printf("max motor speed: %.0f RPM\n", trial.Max(trial.RPM(t.MotorSpeed)))
	// Output:
	// samples: 3
	// max motor speed: 3000 RPM
}
