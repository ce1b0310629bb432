package core

import (
	"sort"
	"strings"
)

// Trigger is a literal phrase that, typed after the chat prefix, selects a
// command. Matching is case-insensitive.
type Trigger string

// IsTriggered reports whether text begins with the trigger phrase.
// Both sides are trimmed and lowercased before comparison.
func (t Trigger) IsTriggered(text string) bool {
	phrase := strings.ToLower(strings.TrimSpace(string(t)))
	if phrase == "" {
		return false
	}
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(text)), phrase)
}

// MatchLength counts how many leading characters of the trigger phrase
// literally agree with text, character by character. It is a tie-break
// score for ranking, not a correctness gate.
func (t Trigger) MatchLength(text string) int {
	phrase := strings.ToLower(strings.TrimSpace(string(t)))
	text = strings.ToLower(strings.TrimSpace(text))

	n := 0
	for n < len(phrase) && n < len(text) && phrase[n] == text[n] {
		n++
	}
	return n
}

// Match pairs a command with the trigger that selected it and its score.
type Match struct {
	Command Command
	Trigger Trigger
	Score   int
}

// MatchCommands resolves raw message text against a command list, returning
// matches ranked by descending match length. Ties keep registration order.
//
// Only the leading slice of the text (prefix length plus two characters,
// trimmed and lowercased) is inspected for the prefix, so pathological input
// costs nothing and a prefix buried mid-text never triggers.
func MatchCommands(text, prefix string, commands []Command) []Match {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return nil
	}

	head := strings.ToLower(strings.TrimSpace(text))
	if len(head) > len(prefix)+2 {
		head = head[:len(prefix)+2]
	}
	if !strings.HasPrefix(head, prefix) {
		return nil
	}

	rest := strings.TrimSpace(text)[len(prefix):]

	var matches []Match
	for _, cmd := range commands {
		for _, trig := range cmd.Triggers() {
			if trig.IsTriggered(rest) {
				matches = append(matches, Match{
					Command: cmd,
					Trigger: trig,
					Score:   trig.MatchLength(rest),
				})
				break // one match per command
			}
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

// CommandBody returns the text that follows the prefix and the matched
// trigger, i.e. the command's argument string.
func CommandBody(text, prefix string, trigger Trigger) string {
	rest := strings.TrimSpace(text)
	if len(rest) < len(prefix) {
		return ""
	}
	rest = rest[len(prefix):]

	phrase := strings.TrimSpace(string(trigger))
	if len(rest) <= len(phrase) {
		return ""
	}
	return strings.TrimSpace(rest[len(phrase):])
}
