// Package theme holds the UI design tokens and serves them to the client.
package theme

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
)

const Path = "/api/theme"

var ErrUnknownToken = errors.New("theme: unknown token")

// ErrTokenCycle is returned when references loop back on themselves.
var ErrTokenCycle = errors.New("theme: reference cycle")

// Token is a design token value: a literal like "#db2739" or a
// reference like "{colors.primary.600}".
type Token struct {
	Value string `json:"value"`
}

// Config mirrors the tokens/semanticTokens split of the UI theme. Keys
// are dotted names below "colors", e.g. "primary.600" or "orange.50".
type Config struct {
	Tokens         map[string]Token `json:"tokens"`
	SemanticTokens map[string]Token `json:"semanticTokens"`
}

var steps = []string{"50", "100", "200", "300", "400", "500", "600", "700", "800", "900", "950"}

var primary = []string{
	"#fef2f2",
	"#fee2e2",
	"#fecaca",
	"#fca5a5",
	"#f87171",
	"#ef4444",
	"#db2739",
	"#c21e2e",
	"#991b27",
	"#7f1d1d",
	"#450a0a",
}

// Default returns the brand theme: a red primary palette, with the
// orange palette aliased onto it so components using orange follow
// the brand.
func Default() Config {
	cfg := Config{
		Tokens:         make(map[string]Token, len(steps)),
		SemanticTokens: make(map[string]Token, len(steps)),
	}
	for i, step := range steps {
		cfg.Tokens["primary."+step] = Token{Value: primary[i]}
		cfg.SemanticTokens["orange."+step] = Token{Value: "{colors.primary." + step + "}"}
	}
	return cfg
}

var reference = regexp.MustCompile(`^\{colors\.([^{}]+)\}$`)

// Resolve returns the literal value of the color token name, following
// references. Semantic tokens take precedence over base tokens.
func (c Config) Resolve(name string) (string, error) {
	seen := map[string]bool{}
	for {
		if seen[name] {
			return "", fmt.Errorf("%w: %s", ErrTokenCycle, name)
		}
		seen[name] = true

		tok, ok := c.SemanticTokens[name]
		if !ok {
			tok, ok = c.Tokens[name]
		}
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrUnknownToken, name)
		}

		m := reference.FindStringSubmatch(tok.Value)
		if m == nil {
			return tok.Value, nil
		}
		name = m[1]
	}
}

type Handler struct {
	cfg Config
}

func NewHandler(cfg Config) *Handler {
	return &Handler{cfg: cfg}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET(Path, h.get)
}

// get serves the theme; ?resolve=true replaces references with literals.
func (h *Handler) get(c *gin.Context) {
	if c.Query("resolve") != "true" {
		c.JSON(http.StatusOK, h.cfg)
		return
	}

	out := Config{
		Tokens:         h.cfg.Tokens,
		SemanticTokens: make(map[string]Token, len(h.cfg.SemanticTokens)),
	}
	for name := range h.cfg.SemanticTokens {
		v, err := h.cfg.Resolve(name)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		out.SemanticTokens[name] = Token{Value: v}
	}
	c.JSON(http.StatusOK, out)
}
