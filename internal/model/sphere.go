package model

// Sphere is a life-area category used to group goals for aggregate
// scoring. The taxonomy is closed: goal categories outside this list
// are invisible to the sphere score aggregator.
type Sphere string

const (
	SphereYoga        Sphere = "yoga"
	SphereFitness     Sphere = "fitness"
	SphereProgramming Sphere = "programming"
	SphereReading     Sphere = "reading"
	SphereNutrition   Sphere = "nutrition"
	SphereFinance     Sphere = "finance"
)

// Spheres returns the taxonomy in display order.
func Spheres() []Sphere {
	return []Sphere{
		SphereYoga,
		SphereFitness,
		SphereProgramming,
		SphereReading,
		SphereNutrition,
		SphereFinance,
	}
}

// ValidSphere reports whether s is part of the taxonomy.
func ValidSphere(s string) bool {
	for _, sphere := range Spheres() {
		if string(sphere) == s {
			return true
		}
	}
	return false
}
