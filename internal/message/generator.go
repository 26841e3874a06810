// Package message renders personalized outreach messages for contacts from a
// catalog of Liquid templates.
package message

import (
	_ "embed"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/matheus3301/linktrack/internal/store"
	"github.com/osteele/liquid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Kind selects a template family.
type Kind string

const (
	KindConnection Kind = "connection"
	KindFollowUp   Kind = "follow_up"
	KindThankYou   Kind = "thank_you"
)

// Kinds lists the template families in display order.
var Kinds = []Kind{KindConnection, KindFollowUp, KindThankYou}

// ParseKind accepts the canonical kind names and their dashed spelling.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

var (
	ErrUnknownKind     = errors.New("unknown template kind")
	ErrTemplateIndex   = errors.New("template index out of range")
	ErrInvalidTemplate = errors.New("invalid template")
)

// Template is one catalog entry.
type Template struct {
	Name      string `yaml:"name"`
	Body      string `yaml:"body"`
	Tone      string `yaml:"tone,omitempty"`
	Length    string `yaml:"length,omitempty"`
	Focus     string `yaml:"focus,omitempty"`
	DaysAfter int    `yaml:"days_after,omitempty"`
	Context   string `yaml:"context,omitempty"`
	Custom    bool   `yaml:"-"`
}

// Catalog groups templates by kind.
type Catalog map[Kind][]Template

// Request describes which message to generate.
type Request struct {
	Kind Kind
	// Index picks a template within the kind; a negative index picks one at random.
	Index int
	// Context narrows thank-you templates: connection, interview or referral.
	Context string
	// Vars override the variables derived from the contact.
	Vars map[string]string
}

// Suggestion ranks a connection template for a contact.
type Suggestion struct {
	Index   int
	Name    string
	Tone    string
	Length  string
	Score   int
	Reasons []string
}

// Generator renders messages. It is safe for concurrent use.
type Generator struct {
	engine *liquid.Engine
	logger *zap.Logger
	path   string

	mu      sync.RWMutex
	catalog Catalog
	custom  Catalog
	rnd     *rand.Rand
	cache   sync.Map // body -> *liquid.Template
}

// Option configures a Generator.
type Option func(*Generator)

// WithTemplatesFile loads custom templates from path and persists new ones there.
func WithTemplatesFile(path string) Option {
	return func(g *Generator) { g.path = path }
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithRand sets the source used for random template selection.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) { g.rnd = r }
}

// New builds a generator from the built-in catalog plus any custom templates.
func New(opts ...Option) (*Generator, error) {
	g := &Generator{
		engine: liquid.NewEngine(),
		logger: zap.NewNop(),
		custom: Catalog{},
		rnd:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(g)
	}

	if err := yaml.Unmarshal(defaultCatalog, &g.catalog); err != nil {
		return nil, fmt.Errorf("parse built-in catalog: %w", err)
	}

	if g.path != "" {
		data, err := os.ReadFile(g.path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read templates: %w", err)
		default:
			if err := yaml.Unmarshal(data, &g.custom); err != nil {
				return nil, fmt.Errorf("parse templates %s: %w", g.path, err)
			}
			if g.custom == nil {
				g.custom = Catalog{}
			}
			for kind, list := range g.custom {
				if _, err := ParseKind(string(kind)); err != nil {
					return nil, fmt.Errorf("templates %s: %w", g.path, err)
				}
				for i := range list {
					list[i].Custom = true
					g.catalog[kind] = append(g.catalog[kind], list[i])
				}
			}
			g.logger.Debug("custom templates loaded", zap.String("path", g.path))
		}
	}
	return g, nil
}

// Templates returns a copy of the catalog.
func (g *Generator) Templates() Catalog {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make(Catalog, len(g.catalog))
	for k, list := range g.catalog {
		out[k] = append([]Template(nil), list...)
	}
	return out
}

// Generate renders a message for contact c.
func (g *Generator) Generate(c *store.Contact, req Request) (string, error) {
	if c == nil {
		return "", errors.New("generate message: nil contact")
	}
	if _, err := ParseKind(string(req.Kind)); err != nil {
		return "", err
	}

	g.mu.Lock()
	candidates := g.candidates(req)
	var tpl Template
	switch {
	case len(candidates) == 0:
		g.mu.Unlock()
		return "", fmt.Errorf("%w: no %s templates", ErrTemplateIndex, req.Kind)
	case req.Index < 0:
		tpl = candidates[g.rnd.IntN(len(candidates))]
	case req.Index >= len(candidates):
		g.mu.Unlock()
		return "", fmt.Errorf("%w: %s has %d templates, got %d", ErrTemplateIndex, req.Kind, len(candidates), req.Index)
	default:
		tpl = candidates[req.Index]
	}
	g.mu.Unlock()

	out, err := g.render(tpl.Body, Variables(c, req.Kind, req.Vars))
	if err != nil {
		return "", fmt.Errorf("render %q: %w", tpl.Name, err)
	}
	g.logger.Debug("message generated",
		zap.Int64("contact_id", c.ID),
		zap.String("kind", string(req.Kind)),
		zap.String("template", tpl.Name),
	)
	return out, nil
}

// candidates returns the templates eligible for req. Callers hold g.mu.
func (g *Generator) candidates(req Request) []Template {
	list := g.catalog[req.Kind]
	if req.Kind != KindThankYou {
		return list
	}
	ctx := req.Context
	if ctx == "" {
		ctx = "connection"
	}
	var filtered []Template
	for _, t := range list {
		if t.Context == ctx {
			filtered = append(filtered, t)
		}
	}
	if len(filtered) == 0 {
		return list
	}
	return filtered
}

func (g *Generator) render(body string, vars map[string]string) (string, error) {
	var tpl *liquid.Template
	if cached, ok := g.cache.Load(body); ok {
		tpl = cached.(*liquid.Template)
	} else {
		parsed, err := g.engine.ParseString(body)
		if err != nil {
			return "", err
		}
		g.cache.Store(body, parsed)
		tpl = parsed
	}

	bindings := make(liquid.Bindings, len(vars))
	for k, v := range vars {
		bindings[k] = v
	}
	out, err := tpl.RenderString(bindings)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Suggest scores every connection template for c, best first. Ties keep
// catalog order.
func (g *Generator) Suggest(c *store.Contact) []Suggestion {
	g.mu.RLock()
	list := append([]Template(nil), g.catalog[KindConnection]...)
	g.mu.RUnlock()

	out := make([]Suggestion, 0, len(list))
	for i, t := range list {
		s := Suggestion{Index: i, Name: t.Name, Tone: t.Tone, Length: t.Length}
		if c.Company != "" && t.Focus == "company" {
			s.Score += 3
			s.Reasons = append(s.Reasons, "contact has a specific company")
		}
		if c.Industry != "" {
			s.Score += 2
			s.Reasons = append(s.Reasons, "industry is known")
		}
		if c.Skills != "" {
			s.Score++
			s.Reasons = append(s.Reasons, "skills are known")
		}
		if t.Tone == "professional" && c.Company != "" {
			s.Score += 2
			s.Reasons = append(s.Reasons, "professional tone fits a company contact")
		}
		if len(strings.Fields(c.Name)) > 1 {
			s.Score++
			s.Reasons = append(s.Reasons, "full name is known")
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// AddTemplate registers a custom template. The body must parse as Liquid.
// When a templates file is configured the custom set is written back to it.
func (g *Generator) AddTemplate(kind Kind, t Template) error {
	if _, err := ParseKind(string(kind)); err != nil {
		return err
	}
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" || strings.TrimSpace(t.Body) == "" {
		return fmt.Errorf("%w: name and body are required", ErrInvalidTemplate)
	}
	if _, err := g.engine.ParseString(t.Body); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}
	if t.Tone == "" {
		t.Tone = "professional"
	}
	if kind == KindFollowUp && t.DaysAfter == 0 {
		t.DaysAfter = 7
	}
	t.Custom = true

	g.mu.Lock()
	defer g.mu.Unlock()
	g.catalog[kind] = append(g.catalog[kind], t)
	g.custom[kind] = append(g.custom[kind], t)
	if g.path == "" {
		return nil
	}
	if err := saveCatalog(g.path, g.custom); err != nil {
		return fmt.Errorf("save templates: %w", err)
	}
	g.logger.Info("template added", zap.String("kind", string(kind)), zap.String("name", t.Name))
	return nil
}

func saveCatalog(path string, c Catalog) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Variables builds the template variables for a contact. Caller-supplied
// vars take precedence over derived values and kind defaults.
func Variables(c *store.Contact, kind Kind, vars map[string]string) map[string]string {
	out := map[string]string{
		"name":             firstName(c.Name),
		"company":          orDefault(c.Company, "your company"),
		"industry":         orDefault(c.Industry, "the industry"),
		"job_title":        orDefault(c.JobTitle, "your role"),
		"role_focus":       orDefault(c.Skills, "my field"),
		"skills_highlight": TopSkills(c.Skills, 2),
	}
	switch kind {
	case KindConnection:
		out["referrer"] = "a colleague"
	case KindFollowUp:
		out["company_news"] = "launching new projects"
		out["my_update"] = "I completed a relevant certification"
		out["topic"] = "industry trends"
		out["article_link"] = "[article link]"
	case KindThankYou:
		out["position"] = "position"
		out["topic_discussed"] = "the challenges of the role"
		out["referrer"] = "our mutual contact"
	}
	for k, v := range vars {
		out[k] = v
	}
	return out
}

// TopSkills joins the first n comma-separated skills with "and".
func TopSkills(skills string, n int) string {
	var picked []string
	for _, s := range strings.Split(skills, ",") {
		if s = strings.TrimSpace(s); s != "" {
			picked = append(picked, s)
		}
		if len(picked) == n {
			break
		}
	}
	switch len(picked) {
	case 0:
		return "my skills"
	case 1:
		return picked[0]
	default:
		return strings.Join(picked, " and ")
	}
}

func firstName(name string) string {
	if f := strings.Fields(name); len(f) > 0 {
		return f[0]
	}
	return "there"
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
