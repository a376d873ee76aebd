package optimize

import (
	"log/slog"
	"sort"
	"time"

	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/analysis"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/patterns"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/technique"
)

// Optimizer turns prompts into optimized prompts. It is safe for concurrent
// use; all of its state is read-only after New.
type Optimizer struct {
	platforms map[string]Platform
	now       func() time.Time
	logger    *slog.Logger
}

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithPlatforms merges overrides into the built-in platform table.
func WithPlatforms(overrides map[string]Platform) Option {
	return func(o *Optimizer) {
		o.platforms = MergePlatforms(o.platforms, overrides)
	}
}

// WithClock replaces the clock used for result metadata.
func WithClock(now func() time.Time) Option {
	return func(o *Optimizer) { o.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *Optimizer) { o.logger = l }
}

// New creates an Optimizer with the default platform table.
func New(opts ...Option) *Optimizer {
	o := &Optimizer{
		platforms: MergePlatforms(DefaultPlatforms, nil),
		now:       time.Now,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Platforms lists the configured platforms sorted by id.
func (o *Optimizer) Platforms() []Platform {
	out := make([]Platform, 0, len(o.platforms))
	for _, p := range o.platforms {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Optimize analyzes prompt and composes the optimized prompt. Empty input
// returns a result that echoes the prompt together with
// analysis.ErrEmptyInput.
func (o *Optimizer) Optimize(prompt, domain string, opts Options, mode Mode) (*Result, error) {
	a, err := analysis.AnalyzeWithTone(prompt, domain, opts.Tone)
	if err != nil {
		res := Build(prompt, prompt, nil, a, opts)
		// Nothing was rewritten, so no option earns a bonus.
		res.EstimatedImprovement = 0
		o.stamp(res, mode, opts)
		return res, err
	}
	Recommend(a)
	return o.OptimizeAnalysis(prompt, a, opts, mode), nil
}

// Recommend fills the analysis with the names of the selected techniques.
func Recommend(a *analysis.PromptAnalysis) {
	a.RecommendedTechniques = technique.Names(technique.Select(a))
}

// OptimizeAnalysis composes prompt using an analysis computed elsewhere, for
// example one merged with a provider's enhanced analysis.
func (o *Optimizer) OptimizeAnalysis(prompt string, a *analysis.PromptAnalysis, opts Options, mode Mode) *Result {
	p := lookupPlatform(o.platforms, opts.Platform)
	tc := technique.ContextFrom(a)
	applied := &appliedSet{}
	text := prompt

	if opts.PatternID != "" {
		rendered := patterns.ApplyFromText(text, opts.PatternID, opts.PatternVariables)
		if rendered != text {
			text = rendered
			applied.add(technique.IDDomainPattern)
		} else {
			o.logger.Warn("pattern not applied, keeping original prompt", "pattern", opts.PatternID)
		}
	}

	if opts.UsePersona {
		applied.add(technique.IDPersona)
	}
	if opts.UseChainOfThought {
		applied.add(technique.IDChainOfThought)
	}

	if mode == ModeSystem {
		if opts.UseConstraints {
			applied.add(technique.IDStructuredOutput)
		}
		text = ComposeSystem(text, a.Domain, opts, p)
	} else {
		if opts.UseRolePlay {
			applied.add(technique.IDRolePlay)
		}
		if opts.UseConstraints {
			applied.add(technique.IDConstraints)
		}
		text = ComposeNormal(text, a, opts, p)
		text = o.layer(text, a, opts, tc, applied)
	}

	res := Build(prompt, text, applied.names(), a, opts)
	o.stamp(res, mode, opts)
	return res
}

// layer adds the scaffolds on top of the composed text in fixed order. Token
// optimization always runs last.
func (o *Optimizer) layer(text string, a *analysis.PromptAnalysis, opts Options, tc technique.Context, applied *appliedSet) string {
	run := func(id string) {
		t, ok := technique.Lookup(id)
		if !ok {
			o.logger.Warn("unknown technique skipped", "technique", id)
			return
		}
		text = t.Implementation(text, tc)
		applied.add(id)
	}

	switch {
	case opts.UseTreeOfThoughts && a.Complexity == analysis.ComplexityExpert:
		run(technique.IDTreeOfThoughts)
	case opts.UseChainOfThought && a.Complexity != analysis.ComplexitySimple:
		run(technique.IDChainOfThought)
	}
	if a.Intent == analysis.IntentProblemSolving {
		if opts.UseSelfConsistency {
			run(technique.IDSelfConsistency)
		}
		if opts.UseReAct {
			run(technique.IDReAct)
		}
	}
	if opts.UseFewShot && a.Complexity.AtLeast(analysis.ComplexityComplex) {
		run(technique.IDFewShot)
	}

	ids := append([]string(nil), opts.TechniqueIDs...)
	if opts.AutoTechniques {
		ids = append(ids, technique.IDs(technique.Select(a))...)
	}
	optimizeTokens := opts.UseTokenOptimization
	for _, id := range ids {
		if id == technique.IDTokenOptimization {
			optimizeTokens = true
			continue
		}
		run(id)
	}

	if optimizeTokens {
		run(technique.IDTokenOptimization)
	}
	o.logger.Debug("layered techniques", "applied", applied.ids)
	return text
}

func (o *Optimizer) stamp(res *Result, mode Mode, opts Options) {
	if mode == "" {
		mode = ModeNormal
	}
	res.Mode = mode
	res.Platform = lookupPlatform(o.platforms, opts.Platform).ID
	res.Metadata = Metadata{
		GeneratedAt:     o.now().UTC(),
		CatalogVersion:  technique.CatalogVersion,
		ComposerVersion: ComposerVersion,
	}
}

// appliedSet keeps technique ids unique in insertion order.
type appliedSet struct {
	ids []string
}

func (s *appliedSet) add(id string) {
	for _, existing := range s.ids {
		if existing == id {
			return
		}
	}
	s.ids = append(s.ids, id)
}

func (s *appliedSet) names() []string {
	out := make([]string, 0, len(s.ids))
	for _, id := range s.ids {
		if t, ok := technique.Lookup(id); ok {
			out = append(out, t.Name)
		}
	}
	return out
}
