// Package score implements S5: call the external LLM, parse a verdict, and
// threshold on confidence. Grounded on internal/platform/openai/client.go's
// two-stage "parse strict JSON, then regex-recover" response handling.
package score

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/neurobridge-backend/internal/domain"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
	"github.com/yungbote/neurobridge-backend/internal/platform/ollamaclient"
)

// Generator is the subset of ollamaclient.Client the Scorer needs, so tests
// can substitute a fake.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Available(ctx context.Context) bool
}

type Options struct {
	PredicateSet  []string
	MinConfidence float64

	// AvailabilityTTL caches the pre-flight reachability probe so every
	// candidate does not re-probe it.
	AvailabilityTTL time.Duration
}

type Scorer struct {
	client Generator
	opts   Options
	log    *logger.Logger

	predicateSet map[string]struct{}

	availMu       sync.Mutex
	availChecked  time.Time
	availResult   bool
	availHasValue bool
}

func New(client Generator, opts Options, log *logger.Logger) *Scorer {
	if opts.AvailabilityTTL <= 0 {
		opts.AvailabilityTTL = 30 * time.Second
	}
	set := make(map[string]struct{}, len(opts.PredicateSet))
	for _, p := range opts.PredicateSet {
		set[p] = struct{}{}
	}
	return &Scorer{
		client:       client,
		opts:         opts,
		log:          log.With("stage", "score"),
		predicateSet: set,
	}
}

// Enabled runs the pre-flight GET /api/tags probe (via the client), caching
// the result for Options.AvailabilityTTL. When disabled, S5 emits nothing
// and the pipeline runs without relation edges — a normal mode, not an
// error.
func (s *Scorer) Enabled(ctx context.Context) bool {
	s.availMu.Lock()
	defer s.availMu.Unlock()

	if s.availHasValue && time.Since(s.availChecked) < s.opts.AvailabilityTTL {
		return s.availResult
	}
	s.availResult = s.client.Available(ctx)
	s.availHasValue = true
	s.availChecked = time.Now()
	return s.availResult
}

// Score builds a prompt for the candidate, calls the LLM, parses the
// verdict, and returns (ScoredRelation, true) when confidence meets the
// configured threshold. On LLM exhaustion or a below-threshold verdict it
// returns (zero, false) — never an error; both are silent-drop outcomes,
// not pipeline failures.
func (s *Scorer) Score(ctx context.Context, candidate domain.RelationCandidate) (domain.ScoredRelation, bool) {
	prompt := buildPrompt(candidate, s.opts.PredicateSet)

	text, err := s.client.Generate(ctx, prompt)
	if err != nil {
		s.log.Warn("score: llm generate exhausted retries, dropping candidate",
			"a", candidate.A.Lemma, "b", candidate.B.Lemma, "error", err)
		return domain.ScoredRelation{}, false
	}

	verdict := s.parseVerdict(text, candidate)
	if verdict.Confidence < s.opts.MinConfidence {
		return domain.ScoredRelation{}, false
	}

	return domain.ScoredRelation{
		A:          candidate.A,
		B:          candidate.B,
		Predicate:  verdict.Predicate,
		Confidence: verdict.Confidence,
		Evidence:   verdict.Evidence,
	}, true
}

func buildPrompt(candidate domain.RelationCandidate, predicateSet []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Given two concepts, %q and %q, and the following evidence:\n\n", candidate.A.Lemma, candidate.B.Lemma)
	fmt.Fprintf(&b, "%q\n\n", candidate.Evidence)
	fmt.Fprintf(&b, "Choose the most likely semantic relation between %q and %q from this set: %s.\n",
		candidate.A.Lemma, candidate.B.Lemma, strings.Join(predicateSet, ", "))
	b.WriteString("Respond with a single JSON object with fields: predicate, confidence (0 to 1), evidence (a short quote), ref.\n")
	return b.String()
}

var (
	reFirstObject  = regexp.MustCompile(`(?s)\{.*?\}`)
	rePredicateKV  = regexp.MustCompile(`(?i)predicate:\s*([a-z_]+)`)
	reConfidenceKV = regexp.MustCompile(`(?i)confidence:\s*([0-9.]+)`)
	reEvidenceKV   = regexp.MustCompile(`evidence:\s*"([^"]+)"`)
)

type rawVerdict struct {
	Predicate  string  `json:"predicate"`
	Confidence float64 `json:"confidence"`
	Evidence   string  `json:"evidence"`
	Ref        string  `json:"ref"`
}

// parseVerdict tries strict JSON extraction first, then falls back to
// regex-recovery.
func (s *Scorer) parseVerdict(text string, candidate domain.RelationCandidate) domain.LlmVerdict {
	if v, ok := s.parseStrict(text); ok {
		v.Confidence = clamp01(v.Confidence)
		if !s.isKnownPredicate(v.Predicate) {
			v.Predicate = "related_to"
		}
		if v.Ref == "" {
			v.Ref = buildRef(candidate, v.Predicate)
		}
		return v
	}
	return s.parseRegexFallback(text, candidate)
}

func (s *Scorer) parseStrict(text string) (domain.LlmVerdict, bool) {
	match := reFirstObject.FindString(text)
	if match == "" {
		return domain.LlmVerdict{}, false
	}
	var raw rawVerdict
	if err := json.Unmarshal([]byte(match), &raw); err != nil {
		return domain.LlmVerdict{}, false
	}
	return domain.LlmVerdict{
		Predicate:  raw.Predicate,
		Confidence: raw.Confidence,
		Evidence:   raw.Evidence,
		Ref:        raw.Ref,
	}, true
}

func (s *Scorer) parseRegexFallback(text string, candidate domain.RelationCandidate) domain.LlmVerdict {
	predicate := "related_to"
	if m := rePredicateKV.FindStringSubmatch(text); len(m) == 2 {
		predicate = strings.ToLower(m[1])
	}
	if !s.isKnownPredicate(predicate) {
		predicate = "related_to"
	}

	confidence := 0.5
	if m := reConfidenceKV.FindStringSubmatch(text); len(m) == 2 {
		if f, err := strconv.ParseFloat(m[1], 64); err == nil {
			confidence = f
		}
	}
	confidence = clamp01(confidence)

	evidence := firstNChars(candidate.Evidence, 100)
	if m := reEvidenceKV.FindStringSubmatch(text); len(m) == 2 {
		evidence = m[1]
	}

	return domain.LlmVerdict{
		Predicate:  predicate,
		Confidence: confidence,
		Evidence:   evidence,
		Ref:        buildRef(candidate, predicate),
	}
}

func (s *Scorer) isKnownPredicate(p string) bool {
	if len(s.predicateSet) == 0 {
		return true
	}
	_, ok := s.predicateSet[p]
	return ok
}

func buildRef(candidate domain.RelationCandidate, predicate string) string {
	return fmt.Sprintf("%s_%s_%s", candidate.A.Lemma, predicate, candidate.B.Lemma)
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func firstNChars(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// NewClient is a small convenience wrapper over ollamaclient for callers
// that only need the Generator interface.
func NewClient(cfg ollamaclient.Config, log *logger.Logger) Generator {
	return ollamaclient.New(cfg, log)
}
