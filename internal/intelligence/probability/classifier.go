package probability

import (
	"math"
	"sort"

	"github.com/turtacn/DPR-Intelligence/internal/domain/dpr"
)

// ClassifierMethod names the scoring method in RiskClassification.
const ClassifierMethod = "heuristic-logistic"

// RiskClassification is a single calibrated risk grade for the project.
type RiskClassification struct {
	Level       RiskLevel `json:"level"`
	Probability float64   `json:"probability"`
	Drivers     []string  `json:"drivers"`
	Method      string    `json:"method"`
}

// logisticTerm is one weighted input of the classifier.
type logisticTerm struct {
	name   string
	weight float64
}

// Coefficients of the logistic scorer. Each input is in [0,1] and higher
// means riskier.
const logisticBias = -3.2

var logisticTerms = []logisticTerm{
	{"schedule pressure", 2.0},
	{"resource shortfall", 1.5},
	{"technical and regulatory complexity", 2.0},
	{"site access", 1.0},
	{"environmental exposure", 1.0},
	{"identified risk load", 2.5},
}

const maxDrivers = 3

// RiskClassifier is a deterministic logistic model over the same inputs the
// probability calculus uses.
type RiskClassifier struct{}

// NewRiskClassifier returns a RiskClassifier.
func NewRiskClassifier() *RiskClassifier { return &RiskClassifier{} }

// Classify grades the project. Features must already be normalised.
func (c *RiskClassifier) Classify(sub SubScores, f dpr.ProjectFeatures, risks []dpr.RiskFactor) RiskClassification {
	load := 0.0
	for _, r := range risks {
		load += contribution(r)
	}
	inputs := []float64{
		1 - sub.Timeline,
		1 - sub.Resource,
		1 - sub.Complexity,
		1 - sub.Location,
		f.EnvironmentalComplexity,
		dpr.Clamp01(load),
	}

	z := logisticBias
	type driver struct {
		name  string
		value float64
	}
	drivers := make([]driver, 0, len(inputs))
	for i, t := range logisticTerms {
		v := t.weight * inputs[i]
		z += v
		if v > 0 {
			drivers = append(drivers, driver{t.name, v})
		}
	}
	sort.SliceStable(drivers, func(i, j int) bool { return drivers[i].value > drivers[j].value })

	p := 1 / (1 + math.Exp(-z))
	out := RiskClassification{
		Level:       LevelFor(p),
		Probability: dpr.Round2(p),
		Drivers:     []string{},
		Method:      ClassifierMethod,
	}
	for i := 0; i < len(drivers) && i < maxDrivers; i++ {
		out.Drivers = append(out.Drivers, drivers[i].name)
	}
	return out
}

//Personal.AI order the ending
