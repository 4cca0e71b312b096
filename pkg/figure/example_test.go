package figure_test

import (
	"fmt"

	"github.com/matzehuels/kneefig/pkg/figure"
	"github.com/matzehuels/kneefig/pkg/trial"
)

func ExampleBuild() {
	tr := &trial.Trial{
		Time:           []float64{0, 50, 100},
		KneeTorque:     []float64{0, 120, 0},
		KneeSpeed:      []float64{0, 6.28, 0},
		MotorTorque:    []float64{0, 3, 0},
		MotorSpeed:     []float64{0, 300, 0},
		MotorTorqueRMS: 1.2,
	}

	f, err := figure.Build(figure.KneeTorque, tr)
	if err != nil {
		fmt.Println(err)
		return
	}
	ax := f.Axes()
	fmt.Println("x ticks:", ax.X.Ticks)
	fmt.Println("y spine:", ax.Y.SpineMin, ax.Y.SpineMax)
	fmt.Println("file:", figure.KneeTorque.FileName(figure.FormatPDF))
	// Output:
	// x ticks: [0 25 50 75 100]
	// y spine: -50 150
	// file: knee_running_torque.pdf
}
