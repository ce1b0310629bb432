package lang

var tables = map[string]map[string]string{
	"en": {
		"blocked.blocked_chat":             "The {command} command cannot be used in this kind of chat.",
		"blocked.bad_account_type":         "The {command} command requires a {tier} account.",
		"blocked.bad_group_account_type":   "This chat's plan does not cover the {command} command.",
		"blocked.blacklisted":              "You cannot use the {command} command.",
		"blocked.not_whitelisted":          "The {command} command is restricted.",
		"blocked.missing_arguments":        "Something is missing. Usage: {usage}",
		"blocked.insufficient_group_level": "You must be a group {role} to use {command}.",
		"blocked.invalid_user":             "I don't know who you are yet. Say something first.",
		"blocked.insufficient_args":        "The {command} command needs more input. Usage: {usage}",
		"cooldown.wait":                    "Easy there. Try {command} again in {seconds}s.",
		"wait.timeout":                     "You took too long to answer.",
		"wait.confirm":                     "Reply with {options} to continue.",
		"help.header":                      "Commands (prefix {prefix}):",
		"help.not_found":                   "No command matches {trigger}.",
		"ping.pong":                        "pong — {latency}",
		"profile.summary":                  "{name}: {tier} tier",
		"profile.rolls":                    "{count} dice rolled so far",
		"profile.cooldown_line":            "{command}: ready in {seconds}s",
		"profile.no_cooldowns":             "No active cooldowns.",
		"setname.prompt":                   "Reply with yes or no: change your display name to {name}?",
		"setname.done":                     "Saved. Hello, {name}.",
		"setname.cancelled":                "Name unchanged.",
		"grant.done":                       "{user} is now {tier} tier.",
		"grant.unknown_tier":               "Unknown tier {tier}. Use user, donor, admin or dev.",
		"prefix.done":                      "Prefix for this chat is now {prefix}.",
		"optout.on":                        "You are now opted out of the roll leaderboard.",
		"optout.off":                       "Welcome back to the roll leaderboard.",
		"stats.summary":                    "Seen {messages} messages, ran {commands} commands, blocked {blocked}.",
		"roll.result":                      "{formula} = {result}",
		"roll.bad_formula":                 "Can't parse that. Try something like 2d6+3.",
	},
	"ru": {
		"blocked.blocked_chat":             "Команду {command} нельзя использовать в этом чате.",
		"blocked.bad_account_type":         "Для команды {command} нужен аккаунт уровня {tier}.",
		"blocked.bad_group_account_type":   "Тариф этого чата не покрывает команду {command}.",
		"blocked.blacklisted":              "Вам нельзя использовать команду {command}.",
		"blocked.not_whitelisted":          "Команда {command} ограничена.",
		"blocked.missing_arguments":        "Чего-то не хватает. Формат: {usage}",
		"blocked.insufficient_group_level": "Команда {command} доступна только для роли {role}.",
		"blocked.invalid_user":             "Я вас ещё не знаю. Напишите что-нибудь сначала.",
		"blocked.insufficient_args":        "Команде {command} нужно больше аргументов. Формат: {usage}",
		"cooldown.wait":                    "Не так быстро. Команда {command} будет доступна через {seconds}с.",
		"wait.timeout":                     "Вы слишком долго отвечали.",
		"wait.confirm":                     "Ответьте {options}, чтобы продолжить.",
		"help.header":                      "Команды (префикс {prefix}):",
		"help.not_found":                   "Команда {trigger} не найдена.",
		"ping.pong":                        "понг — {latency}",
	},
}
