package parser

import "fmt"

// Token kinds
const (
	eof = iota
	IDENTIFIER
	NUMBER
	BINARY_OP // Infix operators other than '-', the text says which
	MINUS     // Both subtraction and negation
	NOT

	// Keywords
	BOOL
	NAT
	REAL
	CONST
	NPARAM
	RPARAM
	SKIP
	IF
	ELSE
	WHILE
	LOOP
	TICK
	OBSERVE
	TRUE
	FALSE
	INF
	MAX
	MIN
	DISTRIBUTION // unif_d, unif_c, bernoulli, ... the text says which
	CATEGORICAL
	IID

	// Queries
	QUERY_EX
	QUERY_PR
	QUERY_OPT
	PRINT
	PLOT

	// Punctuation
	ASSIGN
	COLON
	SEMICOLON
	COMMA
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
)

var tokenNames = map[int]string{
	eof:          "EOF",
	IDENTIFIER:   "IDENTIFIER",
	NUMBER:       "NUMBER",
	BINARY_OP:    "BINARY_OP",
	MINUS:        "MINUS",
	NOT:          "NOT",
	BOOL:         "BOOL",
	NAT:          "NAT",
	REAL:         "REAL",
	CONST:        "CONST",
	NPARAM:       "NPARAM",
	RPARAM:       "RPARAM",
	SKIP:         "SKIP",
	IF:           "IF",
	ELSE:         "ELSE",
	WHILE:        "WHILE",
	LOOP:         "LOOP",
	TICK:         "TICK",
	OBSERVE:      "OBSERVE",
	TRUE:         "TRUE",
	FALSE:        "FALSE",
	INF:          "INF",
	MAX:          "MAX",
	MIN:          "MIN",
	DISTRIBUTION: "DISTRIBUTION",
	CATEGORICAL:  "CATEGORICAL",
	IID:          "IID",
	QUERY_EX:     "QUERY_EX",
	QUERY_PR:     "QUERY_PR",
	QUERY_OPT:    "QUERY_OPT",
	PRINT:        "PRINT",
	PLOT:         "PLOT",
	ASSIGN:       "ASSIGN",
	COLON:        "COLON",
	SEMICOLON:    "SEMICOLON",
	COMMA:        "COMMA",
	LPAREN:       "LPAREN",
	RPAREN:       "RPAREN",
	LBRACE:       "LBRACE",
	RBRACE:       "RBRACE",
	LBRACKET:     "LBRACKET",
	RBRACKET:     "RBRACKET",
}

func TokenString(tok int) string {
	if name, ok := tokenNames[tok]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", tok)
}

// keywordTokens maps every reserved word to its token.  It must cover
// exactly the words ast.IsKeyword reserves.
var keywordTokens = map[string]int{
	"bool":        BOOL,
	"nat":         NAT,
	"real":        REAL,
	"const":       CONST,
	"nparam":      NPARAM,
	"rparam":      RPARAM,
	"skip":        SKIP,
	"if":          IF,
	"else":        ELSE,
	"while":       WHILE,
	"loop":        LOOP,
	"tick":        TICK,
	"observe":     OBSERVE,
	"true":        TRUE,
	"false":       FALSE,
	"not":         NOT,
	"xor":         BINARY_OP,
	"inf":         INF,
	"MAX":         MAX,
	"MIN":         MIN,
	"unif_d":      DISTRIBUTION,
	"unif_c":      DISTRIBUTION,
	"bernoulli":   DISTRIBUTION,
	"geometric":   DISTRIBUTION,
	"poisson":     DISTRIBUTION,
	"logdist":     DISTRIBUTION,
	"binomial":    DISTRIBUTION,
	"categorical": CATEGORICAL,
	"iid":         IID,
}

// Token is one lexeme along with where it starts.
type Token struct {
	Kind int
	Text string
	Pos  int // Byte offset
	Line int // 1-based
	Col  int // 1-based, in runes
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)", TokenString(t.Kind), t.Text)
}
