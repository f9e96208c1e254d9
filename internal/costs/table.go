// Package costs holds the token cost table for named generation steps and
// the per-content-type estimator used for up-front quoting.
//
// The table is the price of invoking a provider for a given step, in platform
// tokens. Estimates are for UI display only; billing truth is always the sum
// of per-asset costs actually recorded in a publication's generation metrics.
package costs

import "postforge/internal/content"

// Step names a billable generation operation.
type Step string

const (
	StepIdea               Step = "idea"
	StepCopyForDesign      Step = "copy_for_design"
	StepCopyForPublication Step = "copy_for_publication"
	StepBaseImage          Step = "base_image"
	StepFinalDesign        Step = "final_design"
)

// tokenTable maps each step to its token cost. All entries are strictly
// positive.
var tokenTable = map[Step]float64{
	StepIdea:               1,
	StepCopyForDesign:      2,
	StepCopyForPublication: 2,
	StepBaseImage:          5,
	StepFinalDesign:        8,
}

// CostOf sums the table over the given steps. CostOf() with no steps is 0.
// Unknown step names contribute nothing.
func CostOf(steps ...Step) float64 {
	var total float64
	for _, s := range steps {
		total += tokenTable[s]
	}
	return total
}

// Known reports whether the step has a table entry.
func Known(s Step) bool {
	_, ok := tokenTable[s]
	return ok
}

// Steps returns every defined step name.
func Steps() []Step {
	return []Step{StepIdea, StepCopyForDesign, StepCopyForPublication, StepBaseImage, StepFinalDesign}
}

// EstimateFor returns a flat per-content-type cost estimate.
// text_only is cheapest, carousel most expensive. Video is reserved for a
// future assembler branch; it carries an estimate so quoting a mixed request
// still works, but no pipeline run ever bills it.
func EstimateFor(t content.ContentType) float64 {
	switch t {
	case content.TypeTextOnly:
		return CostOf(StepIdea, StepCopyForPublication)
	case content.TypeSingleImage:
		return CostOf(StepIdea, StepCopyForDesign, StepBaseImage, StepFinalDesign)
	case content.TypeCarousel:
		// Assume a typical 4-slide carousel for quoting purposes.
		return CostOf(StepIdea, StepCopyForDesign) + 4*CostOf(StepFinalDesign)
	case content.TypeVideo:
		return CostOf(StepIdea, StepCopyForDesign, StepBaseImage)
	default:
		return 0
	}
}
