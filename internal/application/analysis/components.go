package analysis

import (
	"github.com/turtacn/DPR-Intelligence/internal/config"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/entity_extractor"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/feature_aggregator"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/gap_analyzer"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/probability"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/profile"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/scheme_matcher"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/section_classifier"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/whatif"
)

// Components is the set of pipeline stages built from one analysis config.
type Components struct {
	Classifier *section_classifier.Classifier
	Extractor  *entity_extractor.Extractor
	Gap        *gap_analyzer.Analyzer
	Aggregator *feature_aggregator.Aggregator
	Profiles   *profile.Builder
	Matcher    *scheme_matcher.Matcher
	Calculator *probability.Calculator
}

// NewComponents maps cfg onto each stage. store may be nil, in which case the
// gap analyzer gets the built-in checklist.
func NewComponents(cfg config.AnalysisConfig, store *gap_analyzer.ChecklistStore, logger logging.Logger) *Components {
	logger = logging.OrNop(logger)

	clsOpts := section_classifier.DefaultOptions()
	if cfg.Classifier.ConfidenceThreshold > 0 {
		clsOpts.ConfidenceThreshold = cfg.Classifier.ConfidenceThreshold
	}
	clsOpts.EnableOverlapDetection = !cfg.Classifier.DisableOverlapDetection
	if cfg.Classifier.MinSectionLength > 0 {
		clsOpts.MinSectionLength = cfg.Classifier.MinSectionLength
	}
	if cfg.Classifier.MaxSections > 0 {
		clsOpts.MaxSections = cfg.Classifier.MaxSections
	}

	if store == nil {
		store = gap_analyzer.MustNewChecklistStore(nil)
	}

	return &Components{
		Classifier: section_classifier.New(clsOpts, logger.Named("classifier")),
		Extractor: entity_extractor.New(entity_extractor.Config{
			MinConfidence:    cfg.Extractor.MinConfidence,
			ContextWindow:    cfg.Extractor.ContextWindow,
			BatchConcurrency: cfg.Extractor.BatchConcurrency,
		}, logger.Named("extractor")),
		Gap: gap_analyzer.New(store, gap_analyzer.Config{
			LowConfidenceThreshold:     cfg.Gap.LowConfidenceThreshold,
			SectionCompletionThreshold: cfg.Gap.SectionCompletionThreshold,
		}, logger.Named("gap")),
		Aggregator: feature_aggregator.New(feature_aggregator.Config{
			MaxKeywords: cfg.Aggregator.MaxKeywords,
		}, logger.Named("aggregator")),
		Profiles: profile.NewBuilder(logger.Named("profile")),
		Matcher: scheme_matcher.NewMatcher(scheme_matcher.Config{
			FuzzyThreshold:      cfg.Schemes.FuzzyThreshold,
			SuggestionThreshold: cfg.Schemes.SuggestionThreshold,
			MaxSuggestions:      cfg.Schemes.MaxSuggestions,
			MinRelevance:        cfg.Schemes.MinRelevance,
			MaxOpportunities:    cfg.Schemes.MaxOpportunities,
		}, logger.Named("schemes")),
		Calculator: probability.NewCalculator(probability.Config{
			MaxRiskAdjustment:  cfg.Probability.MaxRiskAdjustment,
			MaxRecommendations: cfg.Probability.MaxRecommendations,
		}, logger),
	}
}

func defaultAnalysisConfig() config.AnalysisConfig { return config.NewDefault().Analysis }

// SimulatorConfig maps the simulation section onto the simulator config.
func SimulatorConfig(cfg config.SimulationConfig) whatif.Config {
	return whatif.Config{MaxHistory: cfg.MaxHistory}
}

//Personal.AI order the ending
