package component

// AdjustableParam exposes one value to tooling. Exactly one of Float or Bool
// is set.
type AdjustableParam struct {
	Name  string
	Float *float64
	Bool  *bool
}

// Adjustable groups parameters under a section name.
type Adjustable struct {
	Section string
	Params  []AdjustableParam
}

var AdjustableComponent = NewComponent[Adjustable]()
