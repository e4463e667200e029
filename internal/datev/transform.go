package datev

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
)

// regexCacheSize bounds the per-transformer result cache. Booking batches
// repeat a small set of raw values (account codes, tax keys, refs), so a
// modest cache absorbs nearly all regex work.
const regexCacheSize = 4096

// fieldRule is the compiled form of one template line's transforms.
type fieldRule struct {
	expr       *regexp.Regexp
	replace    string // expansion string when the expression has groups
	hasGroups  bool
	forceValue *ForceProgram
}

// Transformer applies a template's per-column transforms to rendered values.
// It is built once per export run from the template lines.
type Transformer struct {
	rules  map[string]fieldRule
	cache  *lru.Cache[string, string]
	logger *slog.Logger
}

// NewTransformer compiles the template lines into a transformer. Lines whose
// expression or force value does not compile are rejected; ValidateTemplateLine
// reports the same errors at template save time.
func NewTransformer(lines []domain.ExportTemplateLine, logger *slog.Logger) (*Transformer, error) {
	cache, err := lru.New[string, string](regexCacheSize)
	if err != nil {
		return nil, err
	}
	t := &Transformer{
		rules:  make(map[string]fieldRule, len(lines)),
		cache:  cache,
		logger: logger,
	}
	for _, line := range lines {
		if !line.Active || (line.Expression == "" && line.ForceValue == "") {
			continue
		}
		rule := fieldRule{}
		if line.Expression != "" {
			re, err := regexp.Compile(line.Expression)
			if err != nil {
				return nil, fmt.Errorf("template line %q: %w", line.Heading, err)
			}
			rule.expr = re
			if n := re.NumSubexp(); n > 0 {
				rule.hasGroups = true
				var b strings.Builder
				for i := 1; i <= n; i++ {
					fmt.Fprintf(&b, "${%d}", i)
				}
				rule.replace = b.String()
			}
		}
		if line.ForceValue != "" {
			prog, err := ParseForceValue(line.ForceValue)
			if err != nil {
				return nil, fmt.Errorf("template line %q: %w", line.Heading, err)
			}
			rule.forceValue = prog
		}
		t.rules[line.Heading] = rule
	}
	return t, nil
}

// ValidateTemplateLine checks a template line's transforms without building a
// transformer, for use when templates are saved.
func ValidateTemplateLine(line domain.ExportTemplateLine) error {
	if line.Expression != "" {
		if _, err := regexp.Compile(line.Expression); err != nil {
			return fmt.Errorf("expression: %w", err)
		}
	}
	if line.ForceValue != "" {
		if _, err := ParseForceValue(line.ForceValue); err != nil {
			return err
		}
	}
	return nil
}

// Apply runs the transforms configured for heading over value. The force
// value program runs first with the given context, then the regular
// expression. Regex results are cached per (heading, value) since they do not
// depend on the context.
func (t *Transformer) Apply(heading, value string, ctx map[string]string) string {
	rule, ok := t.rules[heading]
	if !ok {
		return value
	}
	if rule.forceValue != nil {
		if ctx == nil {
			ctx = map[string]string{}
		}
		ctx["value"] = value
		value = rule.forceValue.Eval(ctx)
	}
	if rule.expr == nil {
		return value
	}
	cacheKey := heading + "\x00" + value
	if cached, ok := t.cache.Get(cacheKey); ok {
		return cached
	}
	var result string
	if rule.hasGroups {
		result = rule.expr.ReplaceAllString(value, rule.replace)
	} else {
		result = rule.expr.ReplaceAllString(value, "")
	}
	t.cache.Add(cacheKey, result)
	return result
}

// ApplyAll transforms a rendered record in place, given its column order.
func (t *Transformer) ApplyAll(order []string, record []string, ctx map[string]string) {
	if len(t.rules) == 0 {
		return
	}
	for i, heading := range order {
		record[i] = t.Apply(heading, record[i], ctx)
	}
}
