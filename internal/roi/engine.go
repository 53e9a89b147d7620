package roi

import "sync"

// Engine dispatches computations to the registered per-industry calculators.
type Engine struct {
	mu          sync.RWMutex
	calculators map[Industry]Calculator
}

// NewEngine returns an engine with the built-in calculators registered.
func NewEngine() *Engine {
	e := &Engine{calculators: make(map[Industry]Calculator)}
	for _, c := range []Calculator{
		healthcareCalculator{},
		homeServicesCalculator{},
		legalCalculator{},
		agencyCalculator{},
		backOfficeCalculator{},
	} {
		e.Register(c)
	}
	return e
}

// Register adds or replaces the calculator for c.Industry().
func (e *Engine) Register(c Calculator) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calculators[c.Industry()] = c
}

func (e *Engine) Calculator(industry Industry) (Calculator, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	c, ok := e.calculators[industry]
	return c, ok
}

// Compute returns the impact for industry. Unknown industries yield a
// zero Impact.
func (e *Engine) Compute(industry Industry, v Values) Impact {
	c, ok := e.Calculator(industry)
	if !ok {
		return Impact{Breakdown: []BreakdownItem{}, Assumptions: []string{}}
	}
	return c.Compute(v)
}

var defaultEngine = NewEngine()

// Compute runs the built-in calculator for industry.
func Compute(industry Industry, v Values) Impact {
	return defaultEngine.Compute(industry, v)
}
