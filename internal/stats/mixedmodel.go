package stats

import (
	"fmt"
	"log"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/tomitschek/crptrial/internal/domain"
)

// The model is crp ~ group + day [+ group:day] with a random intercept per
// patient. With a compound-symmetric per-patient covariance the likelihood
// profiles down to a single scalar, the variance ratio lambda =
// var(intercept)/var(residual): for fixed lambda the GLS coefficients and
// the residual variance have closed forms, so the optimizer only searches
// over theta = log(lambda).

// ModelOptions selects the fixed-effect structure.
type ModelOptions struct {
	// Interaction adds the group:day term.
	Interaction bool
}

// FitStrategy is one named optimizer attempt in the fallback chain.
// Minimize returns the minimizing theta or an error when the search fails
// or does not converge.
type FitStrategy struct {
	Name     string
	Minimize func(objective func(float64) float64, x0 float64) (float64, error)
}

// bfgsIterationLimit bounds the quasi-Newton attempt; the simplex fallback
// runs uncapped.
const bfgsIterationLimit = 150

// DefaultStrategies returns the standard chain: bounded BFGS first, then
// Nelder-Mead.
func DefaultStrategies() []FitStrategy {
	return []FitStrategy{
		{Name: "bfgs", Minimize: minimizeWith(&optimize.BFGS{}, &optimize.Settings{MajorIterations: bfgsIterationLimit})},
		{Name: "nelder-mead", Minimize: minimizeWith(&optimize.NelderMead{}, nil)},
	}
}

func minimizeWith(method optimize.Method, settings *optimize.Settings) func(func(float64) float64, float64) (float64, error) {
	return func(objective func(float64) float64, x0 float64) (float64, error) {
		problem := optimize.Problem{
			Func: func(x []float64) float64 { return objective(x[0]) },
		}
		result, err := optimize.Minimize(problem, []float64{x0}, settings, method)
		if err != nil {
			return 0, err
		}
		if result.Status == optimize.IterationLimit || result.Status == optimize.FunctionEvaluationLimit {
			return 0, fmt.Errorf("stopped at %v before converging", result.Status)
		}
		if !isFinite(result.F) {
			return 0, fmt.Errorf("objective diverged to %g", result.F)
		}
		return result.X[0], nil
	}
}

// Fitter fits the mixed model, trying each strategy in order. Every failed
// attempt except the last is reported as a warning, not an error.
type Fitter struct {
	Strategies []FitStrategy
}

// NewFitter creates a fitter with the default strategy chain.
func NewFitter() *Fitter {
	return &Fitter{Strategies: DefaultStrategies()}
}

// Fit estimates the model on non-missing observations. It fails fast with an
// InsufficientDataError when either arm has fewer than two patients, and
// with a ModelFitError when every optimizer fails.
func (f *Fitter) Fit(ds *domain.Dataset, opts ModelOptions) (*domain.MixedModelResult, error) {
	clusters, terms, err := buildDesign(ds, opts)
	if err != nil {
		return nil, err
	}

	objective := func(theta float64) float64 {
		fit, err := profileFit(clusters, len(terms), math.Exp(theta))
		if err != nil {
			return math.Inf(1)
		}
		return fit.negLogLik
	}

	var theta float64
	var lastErr error
	optimizer := ""
	fellBack := false
	for i, s := range f.Strategies {
		theta, lastErr = s.Minimize(objective, 0)
		if lastErr != nil {
			if i < len(f.Strategies)-1 {
				log.Printf("warning: %s optimizer failed (%v), falling back to %s", s.Name, lastErr, f.Strategies[i+1].Name)
			}
			continue
		}
		optimizer = s.Name
		fellBack = i > 0
		break
	}
	if optimizer == "" {
		return nil, &domain.ModelFitError{Reason: "every optimizer in the fallback chain failed", Err: lastErr}
	}

	lambda := math.Exp(theta)
	fit, err := profileFit(clusters, len(terms), lambda)
	if err != nil {
		return nil, &domain.ModelFitError{Reason: "solving at the optimum failed", Err: err}
	}
	stderrs, err := fit.stdErrors()
	if err != nil {
		return nil, &domain.ModelFitError{Reason: "covariance of the fixed effects is singular", Err: err}
	}

	normal := distuv.UnitNormal
	coefficients := make([]domain.Coefficient, len(terms))
	for i, term := range terms {
		estimate := fit.beta[i]
		se := stderrs[i]
		z := estimate / se
		coefficients[i] = domain.Coefficient{
			Term:     term,
			Estimate: domain.Float(estimate),
			StdErr:   domain.Float(se),
			Z:        domain.Float(z),
			P:        domain.Float(2 * normal.CDF(-math.Abs(z))),
		}
	}

	return &domain.MixedModelResult{
		Coefficients:       coefficients,
		RandomInterceptVar: domain.Float(lambda * fit.sigmaE2),
		ResidualVar:        domain.Float(fit.sigmaE2),
		LogLikelihood:      domain.Float(-fit.negLogLik),
		Optimizer:          optimizer,
		FellBack:           fellBack,
	}, nil
}

// cluster holds one patient's design rows and responses.
type cluster struct {
	x [][]float64
	y []float64
}

// buildDesign turns the dataset into per-patient design clusters. Rows with
// missing CRP are dropped.
func buildDesign(ds *domain.Dataset, opts ModelOptions) ([]cluster, []string, error) {
	terms := []string{"intercept", "group[treated]", "day"}
	if opts.Interaction {
		terms = append(terms, "group[treated]:day")
	}

	byPatient := ds.ByPatient()
	groupCounts := map[domain.Group]int{}
	clusters := make([]cluster, 0, len(byPatient))
	for _, id := range ds.PatientIDs() {
		var c cluster
		group, _ := ds.GroupOf(id)
		treated := 0.0
		if group == domain.GroupTreated {
			treated = 1.0
		}
		for _, o := range byPatient[id] {
			if o.Missing() {
				continue
			}
			row := []float64{1, treated, float64(o.Day)}
			if opts.Interaction {
				row = append(row, treated*float64(o.Day))
			}
			c.x = append(c.x, row)
			c.y = append(c.y, o.CRP)
		}
		if len(c.y) == 0 {
			continue
		}
		groupCounts[group]++
		clusters = append(clusters, c)
	}

	if groupCounts[domain.GroupTreated] < 2 || groupCounts[domain.GroupControl] < 2 {
		return nil, nil, &domain.InsufficientDataError{
			Reason: fmt.Sprintf("mixed model needs at least 2 patients per group, got %d treated and %d control",
				groupCounts[domain.GroupTreated], groupCounts[domain.GroupControl]),
		}
	}
	return clusters, terms, nil
}

// profileResult carries the closed-form pieces of the fit at a fixed lambda.
type profileResult struct {
	beta      []float64
	chol      mat.Cholesky
	sigmaE2   float64
	negLogLik float64
}

// profileFit computes the GLS coefficients, the profiled residual variance,
// and the negative log-likelihood at a fixed variance ratio. The inverse of
// each cluster's covariance I + lambda*J is expanded analytically, so no
// per-cluster matrix is ever factorized.
func profileFit(clusters []cluster, p int, lambda float64) (*profileResult, error) {
	if !isFinite(lambda) || lambda < 0 {
		return nil, fmt.Errorf("variance ratio %g out of range", lambda)
	}

	a := mat.NewSymDense(p, nil)
	b := make([]float64, p)
	n := 0
	logDet := 0.0

	for _, c := range clusters {
		ni := float64(len(c.y))
		w := lambda / (1 + ni*lambda)
		logDet += math.Log(1 + ni*lambda)
		n += len(c.y)

		sx := make([]float64, p)
		sy := 0.0
		for r, row := range c.x {
			for j := 0; j < p; j++ {
				sx[j] += row[j]
				b[j] += row[j] * c.y[r]
				for k := j; k < p; k++ {
					a.SetSym(j, k, a.At(j, k)+row[j]*row[k])
				}
			}
			sy += c.y[r]
		}
		for j := 0; j < p; j++ {
			b[j] -= w * sx[j] * sy
			for k := j; k < p; k++ {
				a.SetSym(j, k, a.At(j, k)-w*sx[j]*sx[k])
			}
		}
	}

	fit := &profileResult{}
	if ok := fit.chol.Factorize(a); !ok {
		return nil, fmt.Errorf("design matrix is singular")
	}
	beta := mat.NewVecDense(p, nil)
	if err := fit.chol.SolveVecTo(beta, mat.NewVecDense(p, b)); err != nil {
		return nil, fmt.Errorf("solving normal equations: %w", err)
	}
	fit.beta = make([]float64, p)
	copy(fit.beta, beta.RawVector().Data)

	rss := 0.0
	for _, c := range clusters {
		ni := float64(len(c.y))
		w := lambda / (1 + ni*lambda)
		sr := 0.0
		for r, row := range c.x {
			resid := c.y[r]
			for j := 0; j < p; j++ {
				resid -= row[j] * fit.beta[j]
			}
			rss += resid * resid
			sr += resid
		}
		rss -= w * sr * sr
	}
	if rss <= 0 || !isFinite(rss) {
		return nil, fmt.Errorf("degenerate residual variance (rss=%g)", rss)
	}

	fit.sigmaE2 = rss / float64(n)
	fit.negLogLik = 0.5 * (float64(n)*math.Log(2*math.Pi*fit.sigmaE2) + logDet + float64(n))
	return fit, nil
}

// stdErrors returns the fixed-effect standard errors from the scaled inverse
// of the accumulated normal equations.
func (f *profileResult) stdErrors() ([]float64, error) {
	p := len(f.beta)
	var inv mat.SymDense
	if err := f.chol.InverseTo(&inv); err != nil {
		return nil, err
	}
	stderrs := make([]float64, p)
	for i := 0; i < p; i++ {
		stderrs[i] = math.Sqrt(f.sigmaE2 * inv.At(i, i))
	}
	return stderrs, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
