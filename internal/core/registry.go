package core

// Registry holds the commands for each supported language, in registration
// order. It is built once at startup and read-only afterwards, so lookups
// take no lock.
type Registry struct {
	byLang map[string][]Command
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byLang: make(map[string][]Command)}
}

// Register appends commands to a language's list. Call during startup only;
// commands are never removed at runtime.
func (r *Registry) Register(lang string, cmds ...Command) {
	r.byLang[lang] = append(r.byLang[lang], cmds...)
}

// Commands returns the command list for a language. Callers must not
// mutate the returned slice.
func (r *Registry) Commands(lang string) []Command {
	return r.byLang[lang]
}

// Languages returns the registered language codes.
func (r *Registry) Languages() []string {
	langs := make([]string, 0, len(r.byLang))
	for lang := range r.byLang {
		langs = append(langs, lang)
	}
	return langs
}

// FindByTrigger runs the trigger matcher over a language's commands and
// returns the top-ranked match. Used to resolve a trigger name to a command
// for cross-command references.
func (r *Registry) FindByTrigger(lang, text, prefix string) (Command, Trigger, bool) {
	matches := MatchCommands(text, prefix, r.Commands(lang))
	if len(matches) == 0 {
		return nil, "", false
	}
	return matches[0].Command, matches[0].Trigger, true
}
