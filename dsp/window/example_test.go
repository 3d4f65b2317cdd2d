package window

import "fmt"

func ExampleGenerate() {
	w := Generate(TypeHann, 4)
	fmt.Printf("%.2f %.2f %.2f %.2f\n", w[0], w[1], w[2], w[3])
	// Output:
	// 0.00 0.75 0.75 0.00
}

func ExampleApplyCoefficientsInPlace() {
	frame := []float64{1, 1, 1, 1}
	_ = ApplyCoefficientsInPlace(frame, Generate(TypeHann, 4, WithPeriodic()))
	fmt.Printf("%.2f %.2f %.2f %.2f\n", frame[0], frame[1], frame[2], frame[3])
	// Output:
	// 0.00 0.50 1.00 0.50
}

func ExampleParseType() {
	t, _ := ParseType("Blackman")
	fmt.Println(t, int(t))
	// Output:
	// blackman 3
}

func ExampleOverlapSum() {
	w := Generate(TypeHann, 2048, WithPeriodic())
	s, _ := OverlapSum(w, 256)
	fmt.Printf("%.3f\n", s)
	// Output:
	// 3.000
}
