package model

// FitOutcome classifies the result of reducing a query to the basic
// search form. These are classification outcomes, not errors.
type FitOutcome string

const (
	FitOK         FitOutcome = "fit"         // lossless reduction succeeded
	FitTooComplex FitOutcome = "too-complex" // structurally not reducible
	FitInvalid    FitOutcome = "invalid"     // reducible, but a value is not valid in scope
)

// FormField is one (parameter, value) pair of the basic search form.
// A parameter may repeat to carry multiple values.
type FormField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// FitResult is the outcome of the filter-form fitter.
type FitResult struct {
	Outcome FitOutcome  `json:"result"`
	Fields  []FormField `json:"fields,omitempty"`
}

// TooComplex is the shared structurally-unreducible result.
func TooComplex() FitResult { return FitResult{Outcome: FitTooComplex} }

// InvalidFit is the reducible-but-invalid result.
func InvalidFit() FitResult { return FitResult{Outcome: FitInvalid} }

// Fits builds a successful fit from the given form fields.
func Fits(fields ...FormField) FitResult {
	return FitResult{Outcome: FitOK, Fields: fields}
}

// Add appends a form parameter value, preserving insertion order.
func (r *FitResult) Add(name, value string) {
	r.Fields = append(r.Fields, FormField{Name: name, Value: value})
}
