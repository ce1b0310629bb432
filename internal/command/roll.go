package command

import (
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gatebot/internal/core"
	"gatebot/internal/lang"
	"gatebot/internal/storage"
)

var (
	rollTokenRe = regexp.MustCompile(`(?i)(\d*d\d+|\d+|[+\-])`)
	rollDiceRe  = regexp.MustCompile(`(?i)^(\d*)d(\d+)$`)
)

// Roll evaluates a dice formula like 2d6+1d4-3. Donors get a shorter
// cooldown than regular users; admins and up inherit the donor value.
type Roll struct {
	Base
	store *storage.Storage
}

func NewRoll(store *storage.Storage) *Roll {
	return &Roll{
		Base: Base{
			CmdName:        "roll",
			CmdDescription: "Roll dice, e.g. 2d6+3",
			CmdUsage:       "roll <formula>",
			CmdCategory:    "games",
			CmdTriggers:    []core.Trigger{"roll", "dice"},
			CmdPolicy: core.BlockPolicy{
				MinArgs: 1,
				Cooldowns: map[core.AccountTier]time.Duration{
					core.TierUser:  5 * time.Second,
					core.TierDonor: 2 * time.Second,
				},
			},
		},
		store: store,
	}
}

func (c *Roll) Run(ctx *core.Context) error {
	formula := strings.ReplaceAll(ctx.Body, " ", "")
	result, detail, err := evalFormula(formula)
	if err != nil {
		return reply(ctx, "roll.bad_formula", nil)
	}

	if !c.store.OptedOut(ctx.Sender.JID, "roll") {
		c.store.IncrementRolls(ctx.Sender.JID)
	}

	return reply(ctx, "roll.result", lang.P(
		"formula", detail,
		"result", strconv.Itoa(result),
	))
}

// evalFormula evaluates a +/- chain of dice terms and plain numbers,
// returning the total and the expansion with individual rolls spelled out.
func evalFormula(formula string) (int, string, error) {
	tokens := rollTokenRe.FindAllString(formula, -1)
	if len(tokens) == 0 || strings.Join(tokens, "") != formula {
		return 0, "", fmt.Errorf("unparseable formula %q", formula)
	}

	total := 0
	sign := 1
	expectTerm := true
	var detail strings.Builder

	for _, token := range tokens {
		if token == "+" || token == "-" {
			if expectTerm {
				return 0, "", fmt.Errorf("dangling operator in %q", formula)
			}
			sign = 1
			if token == "-" {
				sign = -1
			}
			detail.WriteString(" " + token + " ")
			expectTerm = true
			continue
		}

		value, desc, err := evalTerm(token)
		if err != nil {
			return 0, "", err
		}
		total += sign * value
		detail.WriteString(desc)
		expectTerm = false
	}
	if expectTerm {
		return 0, "", fmt.Errorf("trailing operator in %q", formula)
	}
	return total, detail.String(), nil
}

func evalTerm(token string) (int, string, error) {
	m := rollDiceRe.FindStringSubmatch(token)
	if m == nil {
		n, err := strconv.Atoi(token)
		if err != nil {
			return 0, "", fmt.Errorf("bad term %q", token)
		}
		return n, token, nil
	}

	count := 1
	if m[1] != "" {
		count, _ = strconv.Atoi(m[1])
	}
	sides, err := strconv.Atoi(m[2])
	if err != nil || sides < 2 || count < 1 || count > 100 || sides > 1000 {
		return 0, "", fmt.Errorf("bad dice term %q", token)
	}

	sum := 0
	rolls := make([]string, count)
	for i := range rolls {
		r := rand.Intn(sides) + 1
		sum += r
		rolls[i] = strconv.Itoa(r)
	}
	return sum, fmt.Sprintf("%s[%s]", token, strings.Join(rolls, ",")), nil
}
