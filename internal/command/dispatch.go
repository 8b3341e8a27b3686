package command

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"wikibot/config"
)

// Verbs understood after the alias.
const (
	VerbRandom = "-r"
	VerbQuit   = "-q"
	VerbName   = "-name"
	VerbParty  = "-p"
)

// Farewell is the quit message.
const Farewell = "--------------- WikiBot says goodbye! ---------------"

// Limits bounds the numeric arguments a command may carry.
type Limits struct {
	MaxArticles int
	MaxNickLen  int
}

// DefaultLimits mirrors the configuration defaults.
func DefaultLimits() Limits {
	return Limits{MaxArticles: config.DefaultMaxArticles, MaxNickLen: config.DefaultMaxNickLen}
}

// Refusal is sent instead of fetching when "-r <n>" asks for too many.
func (l Limits) Refusal() string {
	return fmt.Sprintf("No more than %d articles at once please!", l.MaxArticles)
}

// Dispatch decides what to do about args while the session sits in
// channel.  The argument count, alias included, selects the branch;
// anything unrecognised gets the help block.
func Dispatch(channel string, args []string, l Limits) Plan {
	switch n := len(args); {
	case n == 2:
		return dispatchVerb(channel, args[1])
	case n == 3:
		return dispatchWithArg(channel, args[1], args[2], l)
	case n >= 4 && args[1] == VerbParty:
		return party(channel, args[2], args[3:])
	}
	return Plan{Help{Target: channel}}
}

func dispatchVerb(channel, verb string) Plan {
	switch verb {
	case VerbRandom:
		return Plan{PostArticles{Target: channel, Count: 1}}
	case VerbQuit:
		return Plan{Quit{Message: Farewell}, CloseHistory{}, Stop{}}
	}
	return Plan{Help{Target: channel}}
}

func dispatchWithArg(channel, verb, arg string, l Limits) Plan {
	switch verb {
	case VerbRandom:
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			return Plan{Help{Target: channel}}
		}
		if n > l.MaxArticles {
			return Plan{Say{Target: channel, Text: l.Refusal()}}
		}
		return Plan{PostArticles{Target: channel, Count: n}}

	case VerbName:
		if size := utf8.RuneCountInString(arg); size < 1 || size > l.MaxNickLen {
			// Out-of-range names are ignored without feedback.
			return Plan{}
		}
		return Plan{
			Say{Target: channel, Text: "Renaming myself to " + arg},
			Rename{Nick: arg},
		}
	}
	return Plan{Help{Target: channel}}
}

// party announces the move in the old channel, switches, joins the new
// channel, invites every nick, and parts the old channel last.
func party(oldChannel, arg string, nicks []string) Plan {
	newChannel := config.NormalizeChannel(arg)
	if strings.ContainsAny(newChannel, ",\a") || newChannel == "#" {
		return Plan{Help{Target: oldChannel}}
	}

	if strings.EqualFold(newChannel, oldChannel) {
		plan := Plan{Say{Target: oldChannel, Text: "WikiParty! Already partying in " + oldChannel}}
		for _, nick := range nicks {
			plan = append(plan, Invite{Nick: nick, Channel: oldChannel})
		}
		return plan
	}

	plan := Plan{
		Say{Target: oldChannel, Text: "WikiParty! Moving to " + newChannel},
		SwitchChannel{Channel: newChannel},
		Join{Channel: newChannel},
	}
	for _, nick := range nicks {
		plan = append(plan, Invite{Nick: nick, Channel: newChannel})
	}
	return append(plan, Part{Channel: oldChannel})
}
