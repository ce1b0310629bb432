package command

import (
	"gatebot/internal/core"
	"gatebot/internal/lang"
	"gatebot/internal/storage"
)

// Deps are the collaborators the command set needs.
type Deps struct {
	Store     *storage.Storage
	Ledger    *core.Ledger
	Evaluator *core.Evaluator
	Totals    TotalsReader
}

// RegisterAll builds the full command set, wraps each command with the
// standard middlewares, and registers it for every supported language.
// Rendering is per-chat, so the same instances serve all languages.
func RegisterAll(reg *core.Registry, deps Deps) {
	cmds := []core.Command{
		NewPing(),
		NewHelp(reg, deps.Evaluator),
		NewAbout(),
		NewRoll(deps.Store),
		NewProfile(deps.Store, deps.Ledger),
		NewSetName(deps.Store),
		NewAnnounce(),
		NewGrant(deps.Store),
		NewStats(deps.Totals),
		NewPrefix(deps.Store),
		NewOptOut(deps.Store, deps.Ledger),
	}

	wrapped := make([]core.Command, len(cmds))
	for i, cmd := range cmds {
		wrapped[i] = core.ApplyMiddlewares(cmd,
			core.WithCommandLog(deps.Store),
			core.WithRecover(),
		)
	}

	for _, code := range lang.Supported() {
		reg.Register(code, wrapped...)
	}
}
