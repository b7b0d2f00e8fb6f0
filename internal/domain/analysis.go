package domain

// SummaryStats describes one numeric column across the whole dataset.
type SummaryStats struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
	Mean   Float  `json:"mean"`
	Std    Float  `json:"std"`
	Min    Float  `json:"min"`
	Q25    Float  `json:"q25"`
	Median Float  `json:"median"`
	Q75    Float  `json:"q75"`
	Max    Float  `json:"max"`
}

// GroupDayStats holds the descriptive statistics for one (group, day) cell.
type GroupDayStats struct {
	Group  Group `json:"group"`
	Day    int   `json:"day"`
	Mean   Float `json:"mean"`
	Median Float `json:"median"`
	Std    Float `json:"std"`
	Count  int   `json:"count"`
}

// Coefficient is one fixed-effect row of a fitted mixed model.
type Coefficient struct {
	Term     string `json:"term"`
	Estimate Float  `json:"estimate"`
	StdErr   Float  `json:"std_err"`
	Z        Float  `json:"z"`
	P        Float  `json:"p"`
}

// MixedModelResult is the outcome of one mixed-effects fit.
type MixedModelResult struct {
	Coefficients       []Coefficient `json:"coefficients"`
	RandomInterceptVar Float         `json:"random_intercept_var"`
	ResidualVar        Float         `json:"residual_var"`
	LogLikelihood      Float         `json:"log_likelihood"`
	Optimizer          string        `json:"optimizer"`
	FellBack           bool          `json:"fell_back"`
}

// TestResult is a two-sample t-test outcome. Both fields are NaN when the
// comparison was skipped for lack of data.
type TestResult struct {
	T Float `json:"t"`
	P Float `json:"p"`
}

// Skipped reports whether the comparison was skipped.
func (r TestResult) Skipped() bool {
	return r.T.IsNaN() && r.P.IsNaN()
}

// DayTestResult is the group comparison at a single day. Err carries an
// insufficient-data failure for that day; the other days still run.
type DayTestResult struct {
	Day         int    `json:"day"`
	P           Float  `json:"p"`
	TreatedMean Float  `json:"treated_mean"`
	ControlMean Float  `json:"control_mean"`
	Err         string `json:"error,omitempty"`
}

// AnalysisResult bundles everything one analysis run produces. It is plain
// structured data; rendering to markdown, terminal, or HTTP is the reporting
// side's concern.
type AnalysisResult struct {
	Summary         []SummaryStats   `json:"summary"`
	Descriptive     []GroupDayStats  `json:"descriptive"`
	Missing         map[string]int   `json:"missing"`
	MixedModel      MixedModelResult `json:"mixed_model"`
	DayTests        []DayTestResult  `json:"day_tests"`
	MaxCRP          TestResult       `json:"max_crp"`
	TimeToNormalize TestResult       `json:"time_to_normalize"`
	Warnings        []string         `json:"warnings,omitempty"`
}
